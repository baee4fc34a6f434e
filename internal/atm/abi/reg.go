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
    `fmt`
    `strings`

    `golang.org/x/arch/x86/x86asm`
)

// RegKind is the architectural class of a guest register.
type RegKind uint8

const (
    K_invalid RegKind = iota
    K_ip
    K_gp
    K_flag
    K_vec
)

func (self RegKind) String() string {
    switch self {
        case K_ip   : return "ip"
        case K_gp   : return "gp"
        case K_flag : return "flag"
        case K_vec  : return "vec"
        default     : return "invalid"
    }
}

const (
    NumGP   = 16
    NumFlag = 7
    NumVec  = 16
)

const (
    _B_kind  = 8
    _M_index = 0xff
)

// Reg identifies an x86-64 guest register, the kind lives in the high byte
// and the hardware encoding index in the low byte.
type Reg uint16

const (
    InvalidReg Reg = 0
    RIP        Reg = Reg(K_ip) << _B_kind
)

const (
    RAX Reg = (Reg(K_gp) << _B_kind) + iota
    RCX
    RDX
    RBX
    RSP
    RBP
    RSI
    RDI
    R8
    R9
    R10
    R11
    R12
    R13
    R14
    R15
)

const (
    ZF Reg = (Reg(K_flag) << _B_kind) + iota
    SF
    PF
    CF
    OF
    AF
    DF
)

const (
    XMM0 Reg = (Reg(K_vec) << _B_kind) + iota
    XMM1
    XMM2
    XMM3
    XMM4
    XMM5
    XMM6
    XMM7
    XMM8
    XMM9
    XMM10
    XMM11
    XMM12
    XMM13
    XMM14
    XMM15
)

var _FlagNames = [NumFlag]string {
    "zf", "sf", "pf", "cf", "of", "af", "df",
}

// GP returns the general purpose register with hardware index i.
func GP(i int) Reg {
    if i < 0 || i >= NumGP {
        panic(fmt.Sprintf("abi: invalid GP register index: %d", i))
    } else {
        return RAX + Reg(i)
    }
}

// XMM returns the vector register with hardware index i.
func XMM(i int) Reg {
    if i < 0 || i >= NumVec {
        panic(fmt.Sprintf("abi: invalid vector register index: %d", i))
    } else {
        return XMM0 + Reg(i)
    }
}

func (self Reg) Kind() RegKind {
    return RegKind(self >> _B_kind)
}

func (self Reg) Index() int {
    return int(self & _M_index)
}

func (self Reg) IsGP() bool {
    return self.Kind() == K_gp
}

func (self Reg) IsValid() bool {
    switch self.Kind() {
        case K_ip   : return self.Index() == 0
        case K_gp   : return self.Index() < NumGP
        case K_flag : return self.Index() < NumFlag
        case K_vec  : return self.Index() < NumVec
        default     : return false
    }
}

// Full returns the facet covering the entire register.
func (self Reg) Full() Facet {
    switch self.Kind() {
        case K_ip, K_gp : return FacetI64
        case K_flag     : return FacetI1
        case K_vec      : return FacetI128
        default         : panic("abi: full facet of invalid register: " + self.String())
    }
}

func (self Reg) String() string {
    if !self.IsValid() {
        return fmt.Sprintf("reg(%#04x)", uint16(self))
    }

    /* x86asm spells vector registers as "X0", use the assembler names instead */
    switch self.Kind() {
        case K_ip   : return strings.ToLower(x86asm.RIP.String())
        case K_gp   : return strings.ToLower((x86asm.RAX + x86asm.Reg(self.Index())).String())
        case K_vec  : return fmt.Sprintf("xmm%d", self.Index())
        default     : return _FlagNames[self.Index()]
    }
}
