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

package lift

import (
    `github.com/cloudwego/relift/internal/opts`
)

type Pass interface {
    Apply(*Function) error
}

// PassFunc adapts a function to a Pass.
type PassFunc func(*Function) error

func (self PassFunc) Apply(fn *Function) error {
    return self(fn)
}

type _PassDescriptor struct {
    pass Pass
    desc string
    when func(*opts.Options) bool
}

var _passes = [...]_PassDescriptor {
    { desc: "CFG Verification"       , pass: new(Verify)             , when: func(o *opts.Options) bool { return o.VerifyCFG } },
    { desc: "Pack Store Elimination" , pass: PassFunc(optimizePacks) , when: func(o *opts.Options) bool { return o.OptimizePacks } },
}

func optimizePacks(fn *Function) error {
    fn.OptimizePacks()
    return nil
}
