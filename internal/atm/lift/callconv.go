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
    `github.com/cloudwego/relift/internal/atm/abi`
    `github.com/cloudwego/relift/internal/utils`
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/enum`
    `github.com/llir/llvm/ir/types`
)

// CallConv selects how the CPU state crosses a function boundary.
type CallConv uint8

const (
    // CallConvInvalid marks a function whose convention could not be verified.
    CallConvInvalid CallConv = iota

    // CallConvSPTR passes all state through the CPU struct: void f(i8* sptr).
    CallConvSPTR

    // CallConvHHVM passes RIP and 12 GP registers in host registers:
    // {i64 x 14} f(i64, i8* sptr, i64 x 12), with the hhvmcc calling convention.
    CallConvHHVM
)

func (self CallConv) String() string {
    switch self {
        case CallConvSPTR : return "sptr"
        case CallConvHHVM : return "hhvm"
        default           : return "invalid"
    }
}

// FnType is the exact function type required by the convention, the struct
// pointer lives in address space as. It returns nil for CallConvInvalid.
func (self CallConv) FnType(as types.AddrSpace) *types.FuncType {
    i64 := types.I64
    i8p := types.NewPointer(types.I8)
    i8p.AddrSpace = as

    /* build the signature */
    switch self {
        default: {
            return nil
        }

        /* void f(i8*) */
        case CallConvSPTR: {
            return types.NewFunc(types.Void, i8p)
        }

        /* {i64 x 14} f(i64, i8*, i64 x 12) */
        case CallConvHHVM: {
            rets := make([]types.Type, abi.HHVMRetCount)
            args := make([]types.Type, abi.HHVMArgCount)

            /* every return field and every parameter except the struct pointer is an i64 */
            for i := range rets { rets[i] = i64 }
            for i := range args { args[i] = i64 }

            /* place the struct pointer */
            args[self.StructParamIdx()] = i8p
            return types.NewFunc(types.NewStruct(rets...), args...)
        }
    }
}

// CallingConv is the native calling convention tag of the convention.
func (self CallConv) CallingConv() enum.CallingConv {
    switch self {
        case CallConvHHVM : return enum.CallingConvHHVM
        default           : return enum.CallingConvNone
    }
}

// StructParamIdx is the index of the parameter carrying the CPU struct pointer.
func (self CallConv) StructParamIdx() int {
    switch self {
        case CallConvHHVM : return 1
        default           : return 0
    }
}

/* "ccc" and no calling convention at all are the same thing */
func samecc(a enum.CallingConv, b enum.CallingConv) bool {
    if a == enum.CallingConvC { a = enum.CallingConvNone }
    if b == enum.CallingConvC { b = enum.CallingConvNone }
    return a == b
}

func guess(fn *ir.Func) CallConv {
    if fn.CallingConv == enum.CallingConvHHVM {
        return CallConvHHVM
    } else {
        return CallConvSPTR
    }
}

// Check verifies that fn exactly matches the convention guessed from its
// calling convention tag.
func Check(fn *ir.Func) error {
    cc := guess(fn)
    id := cc.StructParamIdx()
    nm := fn.Name()

    /* the guess comes from the tag, but verify it anyway */
    if !samecc(cc.CallingConv(), fn.CallingConv) {
        return utils.EConv(nm, cc, "calling convention mismatch: %s", fn.CallingConv)
    }

    /* the struct pointer parameter must exist */
    if id >= len(fn.Params) {
        return utils.EConv(nm, cc, "struct pointer parameter %d out of range (%d parameters)", id, len(fn.Params))
    }

    /* and must be a pointer */
    sp, ok := fn.Params[id].Type().(*types.PointerType)
    if !ok {
        return utils.EConv(nm, cc, "struct pointer parameter %d is not a pointer: %s", id, fn.Params[id].Type())
    }

    /* the whole signature must match */
    if exp := cc.FnType(sp.AddrSpace); fn.Sig == nil || !fn.Sig.Equal(exp) {
        return utils.EConv(nm, cc, "function type mismatch, expected %s", exp)
    }
    return nil
}

// Resolve returns the convention of fn, or CallConvInvalid if fn does not
// follow any of them. fn is never modified.
func Resolve(fn *ir.Func) CallConv {
    if Check(fn) != nil {
        return CallConvInvalid
    } else {
        return guess(fn)
    }
}
