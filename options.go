/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package relift

import (
	"github.com/cloudwego/relift/internal/opts"
	"github.com/sirupsen/logrus"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithOptimizePacks enables or disables the elimination of redundant pack
// stores when finalizing a function.
//
// The default value of this option is "true".
func WithOptimizePacks(v bool) Option {
	return func(o *opts.Options) { o.OptimizePacks = v }
}

// WithVerifyCFG enables or disables the CFG consistency checks when
// finalizing a function.
//
// The default value of this option is "false".
func WithVerifyCFG(v bool) Option {
	return func(o *opts.Options) { o.VerifyCFG = v }
}

// WithLogger sets the logger used by the passes of a function.
func WithLogger(log logrus.FieldLogger) Option {
	if log == nil {
		panic("relift: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = log }
	}
}

// SetOptimizePacks sets the default of WithOptimizePacks for all functions
// from now on.
//
// This value can also be configured with the `RELIFT_OPTIMIZE_PACKS`
// environment variable.
//
// Returns the old opts.OptimizePacks value.
func SetOptimizePacks(v bool) bool {
	v, opts.OptimizePacks = opts.OptimizePacks, v
	return v
}

// SetVerifyCFG sets the default of WithVerifyCFG for all functions from now on.
//
// This value can also be configured with the `RELIFT_VERIFY_CFG` environment
// variable.
//
// Returns the old opts.VerifyCFG value.
func SetVerifyCFG(v bool) bool {
	v, opts.VerifyCFG = opts.VerifyCFG, v
	return v
}
