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

package opts

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type envOptions struct {
	OptimizePacks bool   `envconfig:"RELIFT_OPTIMIZE_PACKS" default:"true"`
	VerifyCFG     bool   `envconfig:"RELIFT_VERIFY_CFG" default:"false"`
	LogLevel      string `envconfig:"RELIFT_LOG_LEVEL" default:"warning"`
}

var (
	env = loadEnv()

	OptimizePacks = env.OptimizePacks
	VerifyCFG     = env.VerifyCFG
	LogLevel      = parseLevel(env.LogLevel)
)

// DefaultLogger is shared by every function that does not bring its own logger.
var DefaultLogger = newLogger(LogLevel)

func loadEnv() (ret envOptions) {
	if err := envconfig.Process("", &ret); err != nil {
		panic("relift: invalid environment: " + err.Error())
	} else {
		return
	}
}

func parseLevel(s string) logrus.Level {
	if lv, err := logrus.ParseLevel(s); err != nil {
		panic("relift: invalid value for RELIFT_LOG_LEVEL: " + s)
	} else {
		return lv
	}
}

func newLogger(lv logrus.Level) *logrus.Logger {
	ret := logrus.New()
	ret.SetLevel(lv)
	return ret
}
