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
    `testing`

    `github.com/chenzhuoyu/iasm/x86_64`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestReg_Names(t *testing.T) {
    assert.Equal(t, "rip", RIP.String())
    assert.Equal(t, "rax", RAX.String())
    assert.Equal(t, "rsp", GP(4).String())
    assert.Equal(t, "r15", R15.String())
    assert.Equal(t, "xmm7", XMM(7).String())
    assert.Equal(t, "of", OF.String())
    assert.False(t, InvalidReg.IsValid())
    assert.Panics(t, func() { GP(16) })
    assert.Panics(t, func() { XMM(-1) })
}

func TestRegisterSet_BitIndex(t *testing.T) {
    seen := make(map[int]bool)
    for i := 0; i < NumBits; i++ {
        reg, facet := BitKey(i)
        require.True(t, HasFacet(reg, facet), "bit %d: %s:%s", i, reg, facet)
        require.Equal(t, i, BitIndex(reg, facet))
        require.False(t, seen[i])
        seen[i] = true
    }
    assert.Panics(t, func() { BitIndex(RIP, FacetI32) })
    assert.Panics(t, func() { BitIndex(ZF, FacetI64) })
    assert.Panics(t, func() { BitIndex(InvalidReg, FacetI64) })
}

func TestRegisterSet_Ops(t *testing.T) {
    var a RegisterSet
    var b RegisterSet
    a.Mark(RAX, FacetI64)
    a.Mark(RCX, FacetI64)
    a.Mark(XMM15, FacetI128)
    b.Mark(RCX, FacetI64)
    b.Mark(ZF, FacetI1)
    assert.Equal(t, 3, a.Count())
    assert.Equal(t, "{rax, rcx, xmm15}", a.String())
    assert.Equal(t, "{rax, xmm15}", a.Diff(b).String())
    assert.Equal(t, "{rax, rcx, zf, xmm15}", a.Union(b).String())
    assert.True(t, a.Diff(a).Empty())
    a.Unmark(RAX, FacetI64)
    assert.False(t, a.Contains(RAX, FacetI64))
    a.Mark(RAX, FacetI8H)
    assert.Equal(t, "{rax:i8h, rcx, xmm15}", a.String())
}

func TestEntries_Layout(t *testing.T) {
    ev := Entries()
    require.Equal(t, NumEntries, len(ev))
    require.NoError(t, validateEntries(ev[:]))
    for i, e := range ev {
        assert.Equal(t, i, e.Slot)
        assert.Equal(t, e.Reg.Full(), e.Facet)
    }
    assert.Equal(t, RIP, ev[0].Reg)
    assert.Equal(t, uintptr(0x008), ev[1].Offset)
    assert.Equal(t, uintptr(0x088), ev[17].Offset)
    assert.Equal(t, uintptr(0x1f0), ev[NumEntries - 1].Offset)
}

func TestEntries_Malformed(t *testing.T) {
    ev := Entries()
    dup := append([]Entry(nil), ev[:]...)
    dup[3].Slot = 2
    assert.Error(t, validateEntries(dup))
    gap := append([]Entry(nil), ev[:]...)
    gap[5].Slot = NumEntries
    assert.Error(t, validateEntries(gap))
    ovl := append([]Entry(nil), ev[:]...)
    ovl[2].Offset = ovl[1].Offset + 4
    assert.Error(t, validateEntries(ovl))
    bad := append([]Entry(nil), ev[:]...)
    bad[17].Facet = FacetI64
    assert.Error(t, validateEntries(bad))
}

func TestHHVM_Bijection(t *testing.T) {
    args := make(map[int]Reg)
    rets := make(map[int]Reg)
    for i := 0; i < HHVMHostGP; i++ {
        reg := GP(i)
        require.True(t, IsHostMapped(reg))
        ai, ri := ArgIndex(reg), RetIndex(reg)
        assert.True(t, ai >= 2 && ai <= 13, "arg index of %s: %d", reg, ai)
        assert.True(t, ri >= 1 && ri <= 13 && ri != HHVMRetPlaceholder, "ret index of %s: %d", reg, ri)
        require.NotContains(t, args, ai)
        require.NotContains(t, rets, ri)
        args[ai] = reg
        rets[ri] = reg
    }
    for i := 0; i < HHVMHostGP; i++ {
        assert.Equal(t, GP(i), args[ArgIndex(GP(i))])
        assert.Equal(t, GP(i), rets[RetIndex(GP(i))])
    }
    assert.Equal(t, 0, ArgIndex(RIP))
    assert.Equal(t, 0, RetIndex(RIP))
    assert.NotContains(t, args, 1)
    assert.NotContains(t, rets, HHVMRetPlaceholder)
}

func TestHHVM_HostRegisters(t *testing.T) {
    host := map[Reg]x86_64.Register64 {
        RIP: x86_64.RBX,
        RAX: x86_64.RAX,
        RCX: x86_64.RCX,
        RDX: x86_64.RDX,
        RBX: x86_64.RBP,
        RSP: x86_64.R15,
        RBP: x86_64.R13,
        RSI: x86_64.RSI,
        RDI: x86_64.RDI,
        R8 : x86_64.R8,
        R9 : x86_64.R9,
        R10: x86_64.R10,
        R11: x86_64.R11,
    }
    for reg, hr := range host {
        assert.Equal(t, hr, HostArgRegister(reg), "argument of %s", reg)
        assert.Equal(t, hr, HostRetRegister(reg), "return of %s", reg)
    }
    assert.Equal(t, x86_64.R12, HostArgRegisters[1])
    assert.Equal(t, x86_64.R14, HostRetRegisters[HHVMRetPlaceholder])
}

func TestHHVM_Unmapped(t *testing.T) {
    for _, reg := range []Reg { R12, R13, R14, R15, ZF, XMM0 } {
        assert.False(t, IsHostMapped(reg))
        assert.Panics(t, func() { ArgIndex(reg) })
        assert.Panics(t, func() { RetIndex(reg) })
    }
}
