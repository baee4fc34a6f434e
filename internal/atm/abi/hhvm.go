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

package abi

import (
    `github.com/chenzhuoyu/iasm/x86_64`
)

const (
    // HHVMArgCount is the number of i64 parameters of an HHVM function.
    HHVMArgCount = 14

    // HHVMRetCount is the number of i64 fields of the HHVM return aggregate.
    HHVMRetCount = 14

    // HHVMRetPlaceholder is the return field not carrying any guest register.
    HHVMRetPlaceholder = 12

    // HHVMHostGP is the number of GP registers passed in host registers.
    HHVMHostGP = 12
)

// Guest GP registers are passed in the host register of the same role:
//
//     RAX->RAX; RCX->RCX; RDX->RDX; RBX->RBP; RSP->R15; RBP->R13;
//     RSI->RSI; RDI->RDI; R8->R8;   R9->R9;   R10->R10; R11->R11;
//     RIP->RBX
//
// The tables below are the parameter and return field positions of those
// host registers in the HHVM calling convention, do not change one without
// the other.
var (
    _HHVMArgIndex = [HHVMHostGP]uint8 { 10, 7, 6, 2, 3, 13, 5, 4, 8, 9, 11, 12 }
    _HHVMRetIndex = [HHVMHostGP]uint8 {  8, 5, 4, 1, 13, 11, 3, 2, 6, 7, 9, 10 }
)

// HostArgRegisters lists the host register carrying each HHVM parameter.
var HostArgRegisters = [HHVMArgCount]x86_64.Register64 {
    x86_64.RBX,
    x86_64.R12,
    x86_64.RBP,
    x86_64.R15,
    x86_64.RDI,
    x86_64.RSI,
    x86_64.RDX,
    x86_64.RCX,
    x86_64.R8,
    x86_64.R9,
    x86_64.RAX,
    x86_64.R10,
    x86_64.R11,
    x86_64.R13,
}

// HostRetRegisters lists the host register carrying each HHVM return field.
var HostRetRegisters = [HHVMRetCount]x86_64.Register64 {
    x86_64.RBX,
    x86_64.RBP,
    x86_64.RDI,
    x86_64.RSI,
    x86_64.RDX,
    x86_64.RCX,
    x86_64.R8,
    x86_64.R9,
    x86_64.RAX,
    x86_64.R10,
    x86_64.R11,
    x86_64.R13,
    x86_64.R14,
    x86_64.R15,
}

// IsHostMapped reports whether reg is passed through a host register under
// the HHVM calling convention.
func IsHostMapped(reg Reg) bool {
    return reg == RIP || (reg.IsGP() && reg.Index() < HHVMHostGP)
}

// ArgIndex returns the HHVM parameter index carrying reg. It panics if reg
// is not host-mapped.
func ArgIndex(reg Reg) int {
    if !IsHostMapped(reg) {
        panic("abi: register is not host-mapped: " + reg.String())
    } else if reg.IsGP() {
        return int(_HHVMArgIndex[reg.Index()])
    } else {
        return 0
    }
}

// RetIndex returns the HHVM return field carrying reg. It panics if reg is
// not host-mapped.
func RetIndex(reg Reg) int {
    if !IsHostMapped(reg) {
        panic("abi: register is not host-mapped: " + reg.String())
    } else if reg.IsGP() {
        return int(_HHVMRetIndex[reg.Index()])
    } else {
        return 0
    }
}

func HostArgRegister(reg Reg) x86_64.Register64 {
    return HostArgRegisters[ArgIndex(reg)]
}

func HostRetRegister(reg Reg) x86_64.Register64 {
    return HostRetRegisters[RetIndex(reg)]
}
