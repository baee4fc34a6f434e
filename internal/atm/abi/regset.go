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
    `math/bits`
    `strings`
)

/* facet slots of each register kind, in bit order */
var (
    _GPFacets  = [...]Facet { FacetI64, FacetI32, FacetI16, FacetI8, FacetI8H }
    _IPFacets  = [...]Facet { FacetI64 }
    _FlgFacets = [...]Facet { FacetI1 }
    _VecFacets = [...]Facet { FacetI128, FacetI64, FacetI32 }
)

const (
    _N_gp   = NumGP * len(_GPFacets)
    _N_ip   = len(_IPFacets)
    _N_flag = NumFlag * len(_FlgFacets)
    _N_vec  = NumVec * len(_VecFacets)
)

const (
    _O_gp   = 0
    _O_ip   = _O_gp + _N_gp
    _O_flag = _O_ip + _N_ip
    _O_vec  = _O_flag + _N_flag
)

// NumBits is the number of distinct (register, facet) pairs.
const NumBits = _O_vec + _N_vec

type _BitKey struct {
    reg   Reg
    facet Facet
}

var _BitKeys [NumBits]_BitKey

func init() {
    for i := 0; i < NumGP; i++ {
        for j, f := range _GPFacets {
            _BitKeys[_O_gp + i * len(_GPFacets) + j] = _BitKey { GP(i), f }
        }
    }
    for i := 0; i < NumFlag; i++ {
        _BitKeys[_O_flag + i] = _BitKey { ZF + Reg(i), FacetI1 }
    }
    for i := 0; i < NumVec; i++ {
        for j, f := range _VecFacets {
            _BitKeys[_O_vec + i * len(_VecFacets) + j] = _BitKey { XMM(i), f }
        }
    }
    _BitKeys[_O_ip] = _BitKey { RIP, FacetI64 }
}

func facetslot(fv []Facet, reg Reg, facet Facet) int {
    for i, f := range fv {
        if f == facet {
            return i
        }
    }
    panic(fmt.Sprintf("abi: register %s does not have facet %s", reg, facet))
}

// HasFacet reports whether facet is a legal view of reg.
func HasFacet(reg Reg, facet Facet) bool {
    var fv []Facet
    switch reg.Kind() {
        case K_ip   : fv = _IPFacets[:]
        case K_gp   : fv = _GPFacets[:]
        case K_flag : fv = _FlgFacets[:]
        case K_vec  : fv = _VecFacets[:]
    }
    for _, f := range fv {
        if f == facet && reg.IsValid() {
            return true
        }
    }
    return false
}

// BitIndex maps a (register, facet) pair onto its RegisterSet bit.
func BitIndex(reg Reg, facet Facet) int {
    if !reg.IsValid() {
        panic("abi: bit index of invalid register: " + reg.String())
    }

    /* each kind owns a contiguous range of bits */
    switch reg.Kind() {
        case K_ip   : return _O_ip + facetslot(_IPFacets[:], reg, facet)
        case K_gp   : return _O_gp + reg.Index() * len(_GPFacets) + facetslot(_GPFacets[:], reg, facet)
        case K_flag : return _O_flag + reg.Index() + facetslot(_FlgFacets[:], reg, facet)
        case K_vec  : return _O_vec + reg.Index() * len(_VecFacets) + facetslot(_VecFacets[:], reg, facet)
        default     : panic("unreachable")
    }
}

// BitKey is the inverse of BitIndex.
func BitKey(i int) (Reg, Facet) {
    if i < 0 || i >= NumBits {
        panic(fmt.Sprintf("abi: bit index out of range: %d", i))
    } else {
        return _BitKeys[i].reg, _BitKeys[i].facet
    }
}

// RegisterSet is a set of (register, facet) pairs keyed by BitIndex.
type RegisterSet [(NumBits + 63) / 64]uint64

func (self *RegisterSet) Set(i int) {
    self[i / 64] |= 1 << (i % 64)
}

func (self *RegisterSet) Clear(i int) {
    self[i / 64] &^= 1 << (i % 64)
}

func (self RegisterSet) Has(i int) bool {
    return self[i / 64] & (1 << (i % 64)) != 0
}

func (self *RegisterSet) Mark(reg Reg, facet Facet) {
    self.Set(BitIndex(reg, facet))
}

func (self *RegisterSet) Unmark(reg Reg, facet Facet) {
    self.Clear(BitIndex(reg, facet))
}

func (self RegisterSet) Contains(reg Reg, facet Facet) bool {
    return self.Has(BitIndex(reg, facet))
}

// Union returns self ∪ other.
func (self RegisterSet) Union(other RegisterSet) (rs RegisterSet) {
    for i := range self {
        rs[i] = self[i] | other[i]
    }
    return
}

// Diff returns self \ other.
func (self RegisterSet) Diff(other RegisterSet) (rs RegisterSet) {
    for i := range self {
        rs[i] = self[i] &^ other[i]
    }
    return
}

func (self RegisterSet) Empty() bool {
    return self == RegisterSet{}
}

func (self RegisterSet) Count() (n int) {
    for _, w := range self {
        n += bits.OnesCount64(w)
    }
    return
}

// ForEach calls fn for every member in bit order.
func (self RegisterSet) ForEach(fn func(reg Reg, facet Facet)) {
    for i := 0; i < NumBits; i++ {
        if self.Has(i) {
            fn(_BitKeys[i].reg, _BitKeys[i].facet)
        }
    }
}

func (self RegisterSet) String() string {
    rs := make([]string, 0, self.Count())

    /* dump every member */
    self.ForEach(func(reg Reg, facet Facet) {
        if facet == reg.Full() {
            rs = append(rs, reg.String())
        } else {
            rs = append(rs, fmt.Sprintf("%s:%s", reg, facet))
        }
    })

    /* join them together */
    return fmt.Sprintf(
        "{%s}",
        strings.Join(rs, ", "),
    )
}
