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
    `fmt`

    `github.com/cloudwego/relift/internal/atm/abi`
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/constant`
    `github.com/llir/llvm/ir/enum`
    `github.com/llir/llvm/ir/types`
    `github.com/llir/llvm/ir/value`
)

func (self CallConv) checkOwner(bb *BasicBlock, fi *Function) {
    if bb.fn != fi {
        panic(fmt.Sprintf("lift: %s does not belong to function %s", bb, fi.Fn.Ident()))
    }
}

// UnpackParams loads the register file of bb from the incoming parameters
// of the function.
func (self CallConv) UnpackParams(bb *BasicBlock, fi *Function) {
    self.checkOwner(bb, fi)
    self.unpack(bb, fi, func(reg abi.Reg) value.Value {
        return fi.Fn.Params[abi.ArgIndex(reg)]
    })
}

// Return writes the register file of bb back and returns from the function.
func (self CallConv) Return(bb *BasicBlock, fi *Function) *ir.TermRet {
    self.checkValid()
    self.checkOwner(bb, fi)
    bb.checkOpen()

    /* SPTR returns nothing */
    if self != CallConvHHVM {
        self.pack(bb, fi, func(abi.Reg, value.Value) {})
        return bb.regs.InsertBlock().NewRet(nil)
    }

    /* the placeholder field is never written by any register */
    ret := make([]value.Value, abi.HHVMRetCount)
    ret[abi.HHVMRetPlaceholder] = constant.NewUndef(types.I64)

    /* place every host register into its return field */
    self.pack(bb, fi, func(reg abi.Reg, v value.Value) {
        ret[abi.RetIndex(reg)] = v
    })

    /* build the aggregate */
    ib := bb.regs.InsertBlock()
    rv := value.Value(constant.NewUndef(fi.Fn.Sig.RetType))

    /* insert all the fields */
    for i, v := range ret {
        rv = ib.NewInsertValue(rv, v, uint64(i))
    }

    /* return the aggregate */
    return ib.NewRet(rv)
}

// Call writes the register file of bb back, calls fn and reloads the register
// file from the result. A tail call returns the result of fn directly, and
// terminates bb.
func (self CallConv) Call(fn *ir.Func, bb *BasicBlock, fi *Function, tail bool) *ir.InstCall {
    self.checkValid()
    self.checkOwner(bb, fi)
    bb.checkOpen()

    /* the callee must follow this convention */
    if cc := Resolve(fn); cc != self {
        panic(fmt.Sprintf("lift: calling %s (%s) with calling convention %s", fn.Ident(), cc, self))
    }

    /* the struct pointer is passed through */
    id := self.StructParamIdx()
    args := make([]value.Value, len(fn.Params))
    args[id] = fi.SptrRaw

    /* place every host register into its argument slot */
    self.pack(bb, fi, func(reg abi.Reg, v value.Value) {
        args[abi.ArgIndex(reg)] = v
    })

    /* the callee may want the struct in another address space */
    ib := bb.regs.InsertBlock()
    pt := fn.Params[id].Type()

    /* cast the pointer if needed */
    if !args[id].Type().Equal(pt) {
        args[id] = ib.NewAddrSpaceCast(args[id], pt)
    }

    /* emit the call with the same convention and attributes */
    call := ib.NewCall(fn, args...)
    call.CallingConv = fn.CallingConv
    call.FuncAttrs = append(call.FuncAttrs, fn.FuncAttrs...)
    call.ReturnAttrs = append(call.ReturnAttrs, fn.ReturnAttrs...)

    /* tail calls return whatever the callee returns */
    if tail {
        call.Tail = enum.TailMustTail
        if _, ok := fn.Sig.RetType.(*types.VoidType); ok {
            ib.NewRet(nil)
        } else {
            ib.NewRet(call)
        }
        return call
    }

    /* split the returned aggregate */
    var rets []value.Value
    if self == CallConvHHVM {
        for i := 0; i < abi.HHVMRetCount; i++ {
            rets = append(rets, ib.NewExtractValue(call, uint64(i)))
        }
    }

    /* reload the register file */
    self.unpack(bb, fi, func(reg abi.Reg) value.Value {
        return rets[abi.RetIndex(reg)]
    })
    return call
}
