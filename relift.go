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
	"github.com/cloudwego/relift/internal/atm/lift"
	"github.com/cloudwego/relift/internal/opts"
	"github.com/llir/llvm/ir"
)

// CallConv selects how the CPU state crosses a function boundary.
type CallConv = lift.CallConv

const (
	CallConvInvalid = lift.CallConvInvalid
	CallConvSPTR    = lift.CallConvSPTR
	CallConvHHVM    = lift.CallConvHHVM
)

type (
	Function   = lift.Function
	BasicBlock = lift.BasicBlock
	RegFile    = lift.RegFile
	Pack       = lift.Pack
)

// NewFunction creates a function following cc in module m, ready for lifting.
// The entry block already holds the incoming register state.
func NewFunction(m *ir.Module, name string, cc CallConv, options ...Option) *Function {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return lift.NewFunction(m, name, cc, o)
}

// Resolve returns the calling convention of fn, or CallConvInvalid if fn does
// not exactly follow any of them.
func Resolve(fn *ir.Func) CallConv {
	return lift.Resolve(fn)
}

// Check is like Resolve, but reports why fn does not follow its declared
// calling convention.
func Check(fn *ir.Func) error {
	return lift.Check(fn)
}
