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
    `testing`

    `github.com/cloudwego/relift/internal/atm/abi`
    `github.com/cloudwego/relift/internal/opts`
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/constant`
    `github.com/llir/llvm/ir/enum`
    `github.com/llir/llvm/ir/types`
    `github.com/stretchr/testify/require`
)

func testOptions(opt bool) opts.Options {
    o := opts.GetDefaultOptions()
    o.VerifyCFG = true
    o.OptimizePacks = opt
    return o
}

func newTestFunc(t *testing.T, name string, cc CallConv, opt bool) *Function {
    fi := NewFunction(ir.NewModule(), name, cc, testOptions(opt))
    require.Equal(t, cc, Resolve(fi.Fn))
    return fi
}

func declare(m *ir.Module, name string, cc enum.CallingConv, ft *types.FuncType) *ir.Func {
    ps := make([]*ir.Param, len(ft.Params))
    for i, t := range ft.Params {
        ps[i] = ir.NewParam("", t)
    }
    fn := m.NewFunc(name, ft.RetType, ps...)
    fn.CallingConv = cc
    return fn
}

func slotOf(reg abi.Reg) int {
    for _, e := range abi.Entries() {
        if e.Reg == reg {
            return e.Slot
        }
    }
    panic("no such register: " + reg.String())
}

func i64(v int64) *constant.Int {
    return constant.NewInt(types.I64, v)
}

func storesIn(bb *ir.Block) (n int) {
    for _, v := range bb.Insts {
        if _, ok := v.(*ir.InstStore); ok {
            n++
        }
    }
    return
}
