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
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/value`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestPack_SPTR(t *testing.T) {
    fi := newTestFunc(t, "pack_sptr", CallConvSPTR, true)
    rf := fi.Entry.RegFile()
    rf.Set(abi.RAX, abi.FacetI64, i64(1), true)
    pk := CallConvSPTR.pack(fi.Entry, fi, func(reg abi.Reg, _ value.Value) {
        t.Fatalf("unexpected host register %s", reg)
    })
    require.Len(t, fi.Packs, 1)
    assert.Same(t, fi.Entry, pk.Block)
    assert.True(t, pk.Dirty.Contains(abi.RAX, abi.FacetI64))
    assert.Equal(t, abi.NumEntries, pk.Len())
    for _, e := range abi.Entries() {
        assert.False(t, rf.DirtyRegs().Contains(e.Reg, e.Facet), e.String())
        assert.True(t, rf.CleanedRegs().Contains(e.Reg, e.Facet), e.String())
        require.NotNil(t, pk.Stores[e.Slot], e.String())
        assert.Same(t, fi.Sptr[e.Slot], pk.Stores[e.Slot].Dst)
    }
}

func TestPack_HHVM(t *testing.T) {
    fi := newTestFunc(t, "pack_hhvm", CallConvHHVM, true)
    rf := fi.Entry.RegFile()
    got := make(map[abi.Reg]value.Value)
    pk := CallConvHHVM.pack(fi.Entry, fi, func(reg abi.Reg, v value.Value) {
        got[reg] = v
    })
    assert.Len(t, got, 1 + abi.HHVMHostGP)
    for _, e := range abi.Entries() {
        if abi.IsHostMapped(e.Reg) {
            assert.Nil(t, pk.Stores[e.Slot], e.String())
            assert.False(t, rf.CleanedRegs().Contains(e.Reg, e.Facet), e.String())
            assert.Same(t, fi.Fn.Params[abi.ArgIndex(e.Reg)], got[e.Reg])
        } else {
            assert.NotNil(t, pk.Stores[e.Slot], e.String())
            assert.True(t, rf.CleanedRegs().Contains(e.Reg, e.Facet), e.String())
        }
    }
}

func TestUnpack_SPTR(t *testing.T) {
    fi := newTestFunc(t, "unpack_sptr", CallConvSPTR, true)
    rf := fi.Entry.RegFile()
    rf.Get(abi.RAX, abi.FacetI16)
    rf.Set(abi.RBX, abi.FacetI64, i64(3), true)
    CallConvSPTR.UnpackParams(fi.Entry, fi)
    assert.Equal(t, abi.NumEntries, rf.Len())
    assert.True(t, rf.DirtyRegs().Empty())
    for _, e := range abi.Entries() {
        v := rf.Get(e.Reg, e.Facet)
        require.IsType(t, &ir.InstLoad{}, v, e.String())
        assert.Same(t, fi.Sptr[e.Slot], v.(*ir.InstLoad).Src)
    }
}

func TestUnpack_HHVM(t *testing.T) {
    fi := newTestFunc(t, "unpack_hhvm", CallConvHHVM, true)
    rf := fi.Entry.RegFile()
    assert.Equal(t, abi.NumEntries, rf.Len())
    assert.Equal(t, 1 + abi.HHVMHostGP, rf.DirtyRegs().Count())
    for _, e := range abi.Entries() {
        v := rf.Get(e.Reg, e.Facet)
        if abi.IsHostMapped(e.Reg) {
            assert.Same(t, fi.Fn.Params[abi.ArgIndex(e.Reg)], v, e.String())
            assert.True(t, rf.DirtyRegs().Contains(e.Reg, e.Facet), e.String())
        } else {
            assert.IsType(t, &ir.InstLoad{}, v, e.String())
            assert.False(t, rf.DirtyRegs().Contains(e.Reg, e.Facet), e.String())
        }
    }
}

func TestPack_AfterOptimize(t *testing.T) {
    fi := newTestFunc(t, "late_pack", CallConvSPTR, true)
    fi.OptimizePacks()
    assert.Panics(t, func() { fi.CC.Return(fi.Entry, fi) })
}
