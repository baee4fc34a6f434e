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
    `sort`
)

// Entry maps one register facet onto a field of the CPU state struct.
type Entry struct {
    Slot   int
    Offset uintptr
    Reg    Reg
    Facet  Facet
}

func (self Entry) String() string {
    return fmt.Sprintf("#%d %s:%s @ %#x", self.Slot, self.Reg, self.Facet, self.Offset)
}

// Size is the number of bytes the entry occupies in the state struct.
func (self Entry) Size() uintptr {
    return uintptr((self.Facet.Bits() + 7) / 8)
}

const (
    _OffsetIP   = 0x000
    _OffsetGP   = 0x008
    _OffsetFlag = 0x088
    _OffsetVec  = 0x100
)

const (
    // StructSize is the size of the CPU state struct in bytes.
    StructSize = 0x200

    // NumEntries is the number of registry entries.
    NumEntries = 1 + NumGP + NumFlag + NumVec
)

var _Entries = [NumEntries]Entry {
    { 0, _OffsetIP, RIP, FacetI64 },

    { 1, _OffsetGP + 0x00, RAX, FacetI64 },
    { 2, _OffsetGP + 0x08, RCX, FacetI64 },
    { 3, _OffsetGP + 0x10, RDX, FacetI64 },
    { 4, _OffsetGP + 0x18, RBX, FacetI64 },
    { 5, _OffsetGP + 0x20, RSP, FacetI64 },
    { 6, _OffsetGP + 0x28, RBP, FacetI64 },
    { 7, _OffsetGP + 0x30, RSI, FacetI64 },
    { 8, _OffsetGP + 0x38, RDI, FacetI64 },
    { 9, _OffsetGP + 0x40, R8 , FacetI64 },
    {10, _OffsetGP + 0x48, R9 , FacetI64 },
    {11, _OffsetGP + 0x50, R10, FacetI64 },
    {12, _OffsetGP + 0x58, R11, FacetI64 },
    {13, _OffsetGP + 0x60, R12, FacetI64 },
    {14, _OffsetGP + 0x68, R13, FacetI64 },
    {15, _OffsetGP + 0x70, R14, FacetI64 },
    {16, _OffsetGP + 0x78, R15, FacetI64 },

    {17, _OffsetFlag + 0, ZF, FacetI1 },
    {18, _OffsetFlag + 1, SF, FacetI1 },
    {19, _OffsetFlag + 2, PF, FacetI1 },
    {20, _OffsetFlag + 3, CF, FacetI1 },
    {21, _OffsetFlag + 4, OF, FacetI1 },
    {22, _OffsetFlag + 5, AF, FacetI1 },
    {23, _OffsetFlag + 6, DF, FacetI1 },

    {24, _OffsetVec + 0x00, XMM0 , FacetI128 },
    {25, _OffsetVec + 0x10, XMM1 , FacetI128 },
    {26, _OffsetVec + 0x20, XMM2 , FacetI128 },
    {27, _OffsetVec + 0x30, XMM3 , FacetI128 },
    {28, _OffsetVec + 0x40, XMM4 , FacetI128 },
    {29, _OffsetVec + 0x50, XMM5 , FacetI128 },
    {30, _OffsetVec + 0x60, XMM6 , FacetI128 },
    {31, _OffsetVec + 0x70, XMM7 , FacetI128 },
    {32, _OffsetVec + 0x80, XMM8 , FacetI128 },
    {33, _OffsetVec + 0x90, XMM9 , FacetI128 },
    {34, _OffsetVec + 0xa0, XMM10, FacetI128 },
    {35, _OffsetVec + 0xb0, XMM11, FacetI128 },
    {36, _OffsetVec + 0xc0, XMM12, FacetI128 },
    {37, _OffsetVec + 0xd0, XMM13, FacetI128 },
    {38, _OffsetVec + 0xe0, XMM14, FacetI128 },
    {39, _OffsetVec + 0xf0, XMM15, FacetI128 },
}

// Entries returns the CPU state struct registry in layout order.
func Entries() [NumEntries]Entry {
    return _Entries
}

func init() {
    if err := validateEntries(_Entries[:]); err != nil {
        panic("abi: " + err.Error())
    }
}

func validateEntries(ev []Entry) error {
    seen := make(map[int]bool, len(ev))
    regs := make(map[int]bool, len(ev))
    byofs := make([]Entry, len(ev))

    /* slots must be unique and contiguous, facets must be legal */
    for _, e := range ev {
        if e.Slot < 0 || e.Slot >= len(ev) {
            return fmt.Errorf("slot out of range: %s", e)
        } else if seen[e.Slot] {
            return fmt.Errorf("duplicated slot: %s", e)
        } else if !HasFacet(e.Reg, e.Facet) {
            return fmt.Errorf("illegal facet: %s", e)
        } else if bit := BitIndex(e.Reg, e.Facet); regs[bit] {
            return fmt.Errorf("duplicated register: %s", e)
        } else {
            seen[e.Slot] = true
            regs[bit] = true
        }
    }

    /* sort by offset to check for overlapping fields */
    copy(byofs, ev)
    sort.Slice(byofs, func(i int, j int) bool {
        return byofs[i].Offset < byofs[j].Offset
    })

    /* every field must fit in the struct without overlapping the next one */
    for i, e := range byofs {
        if e.Offset + e.Size() > StructSize {
            return fmt.Errorf("field exceeds the struct: %s", e)
        } else if i != len(byofs) - 1 && e.Offset + e.Size() > byofs[i + 1].Offset {
            return fmt.Errorf("overlapping fields: %s and %s", e, byofs[i + 1])
        }
    }
    return nil
}
