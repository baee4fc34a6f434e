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
    `github.com/llir/llvm/ir/types`
    `github.com/llir/llvm/ir/value`
)

type _RegKey struct {
    reg   abi.Reg
    facet abi.Facet
}

// RegFile is the virtual register file of a lifted block. Values are kept
// per facet, dirty bits track values not yet written back to the CPU struct,
// and cleaned bits track facets written back by a Pack in this block.
type RegFile struct {
    blk     *ir.Block
    vals    map[_RegKey]value.Value
    miss    func(abi.Reg, abi.Facet) value.Value
    dirty   abi.RegisterSet
    cleaned abi.RegisterSet
}

func newRegFile(blk *ir.Block) *RegFile {
    return &RegFile {
        blk  : blk,
        vals : make(map[_RegKey]value.Value),
    }
}

// InsertBlock is the IR block new instructions are appended to.
func (self *RegFile) InsertBlock() *ir.Block {
    return self.blk
}

func (self *RegFile) SetInsertBlock(blk *ir.Block) {
    self.blk = blk
}

func (self *RegFile) DirtyRegs() *abi.RegisterSet {
    return &self.dirty
}

func (self *RegFile) CleanedRegs() *abi.RegisterSet {
    return &self.cleaned
}

// Clear drops every facet of every register. Dirty and cleaned bits are kept.
func (self *RegFile) Clear() {
    self.vals = make(map[_RegKey]value.Value)
}

// Has reports whether the facet currently holds a value.
func (self *RegFile) Has(reg abi.Reg, facet abi.Facet) bool {
    _, ok := self.vals[_RegKey { reg, facet }]
    return ok
}

// Len is the number of facets holding a value.
func (self *RegFile) Len() int {
    return len(self.vals)
}

// Get returns the value of a register facet. Narrow facets are derived from
// the full register, a missing full register is requested from the block.
func (self *RegFile) Get(reg abi.Reg, facet abi.Facet) value.Value {
    var ok bool
    var rv value.Value

    /* check for cached values */
    if rv, ok = self.vals[_RegKey { reg, facet }]; ok {
        return rv
    }

    /* must be a valid facet */
    if !abi.HasFacet(reg, facet) {
        panic(fmt.Sprintf("regfile: register %s does not have facet %s", reg, facet))
    }

    /* full facets come from outside of the block */
    if facet == reg.Full() {
        if self.miss == nil {
            panic("regfile: undefined register " + reg.String())
        } else {
            rv = self.miss(reg, facet)
        }
    } else {
        rv = self.derive(self.Get(reg, reg.Full()), facet)
    }

    /* cache the value, it does not change the dirty state */
    self.vals[_RegKey { reg, facet }] = rv
    return rv
}

func (self *RegFile) derive(v value.Value, facet abi.Facet) value.Value {
    if sh := facet.Shift(); sh == 0 {
        return self.blk.NewTrunc(v, facet.Type())
    } else {
        return self.blk.NewTrunc(self.blk.NewLShr(v, constant.NewInt(v.Type().(*types.IntType), int64(sh))), facet.Type())
    }
}

// Set assigns a register facet. Writing the full register invalidates all
// the other facets, writing a narrow facet merges it into the full register.
// A dirty write marks both of them, a clean write only clears the facet itself.
func (self *RegFile) Set(reg abi.Reg, facet abi.Facet, v value.Value, dirty bool) {
    if !abi.HasFacet(reg, facet) {
        panic(fmt.Sprintf("regfile: register %s does not have facet %s", reg, facet))
    } else if !v.Type().Equal(facet.Type()) {
        panic(fmt.Sprintf("regfile: value of type %s assigned to %s:%s", v.Type(), reg, facet))
    }

    /* narrow facets are merged into the full register first */
    if full := reg.Full(); facet != full {
        self.Set(reg, full, self.merge(self.Get(reg, full), v, facet), dirty || self.dirty.Contains(reg, full))
    } else {
        for k := range self.vals {
            if k.reg == reg {
                delete(self.vals, k)
            }
        }
    }

    /* update the value and the dirty bit */
    if self.vals[_RegKey { reg, facet }] = v; dirty {
        self.dirty.Mark(reg, facet)
    } else {
        self.dirty.Unmark(reg, facet)
    }
}

func (self *RegFile) merge(full value.Value, v value.Value, facet abi.Facet) value.Value {
    ft := full.Type().(*types.IntType)
    nb := constant.NewInt(ft, int64(facet.Bits()))
    ext := self.blk.NewZExt(v, ft)
    sh := facet.Shift()

    /* low facets: (full >> n << n) | zext(v) */
    if sh == 0 {
        return self.blk.NewOr(self.blk.NewShl(self.blk.NewLShr(full, nb), nb), ext)
    }

    /* high byte facets: (full & ^(mask << sh)) | (zext(v) << sh) */
    keep := ^((int64(1) << uint(facet.Bits()) - 1) << uint(sh))
    return self.blk.NewOr(
        self.blk.NewAnd(full, constant.NewInt(ft, keep)),
        self.blk.NewShl(ext, constant.NewInt(ft, int64(sh))),
    )
}
