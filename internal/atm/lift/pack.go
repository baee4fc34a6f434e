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
    `sync/atomic`

    `github.com/cloudwego/relift/internal/atm/abi`
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/value`
)

// Pack records the stores emitted by one pack of a block's register file.
type Pack struct {
    Block  *BasicBlock
    Insert *ir.Block
    Dirty  abi.RegisterSet
    Stores [abi.NumEntries]*ir.InstStore
}

func (self *Pack) String() string {
    return fmt.Sprintf("pack(%s, %d stores, dirty = %s)", self.Block, self.Len(), self.Dirty)
}

// Len is the number of stores still held by the pack.
func (self *Pack) Len() (n int) {
    for _, p := range self.Stores {
        if p != nil {
            n++
        }
    }
    return
}

type (
    _HostSink   func(reg abi.Reg, v value.Value)
    _HostSource func(reg abi.Reg) value.Value
)

func (self CallConv) checkValid() {
    if self == CallConvInvalid {
        panic("lift: code generation with an invalid calling convention")
    }
}

func (self CallConv) hostMapped(reg abi.Reg) bool {
    return self == CallConvHHVM && abi.IsHostMapped(reg)
}

// pack writes the register file of bb back, host mapped registers go to sink
// and everything else is stored into the CPU struct.
func (self CallConv) pack(bb *BasicBlock, fi *Function, sink _HostSink) *Pack {
    rf := bb.regs
    ib := rf.InsertBlock()

    /* the eliminator only sees packs recorded before it runs */
    self.checkValid()
    if fi.optimized {
        panic(fmt.Sprintf("lift: %s packed after store elimination", bb))
    }

    /* snapshot the dirty registers at this point */
    pk := &Pack {
        Block  : bb,
        Insert : ib,
        Dirty  : *rf.DirtyRegs(),
    }

    /* write back all the entries */
    for _, e := range abi.Entries() {
        v := rf.Get(e.Reg, e.Facet)

        /* host registers never touch the memory */
        if self.hostMapped(e.Reg) {
            sink(e.Reg, v)
            continue
        }

        /* store into the struct, the register is now in sync with memory */
        pk.Stores[e.Slot] = ib.NewStore(v, fi.Sptr[e.Slot])
        rf.DirtyRegs().Unmark(e.Reg, e.Facet)
        rf.CleanedRegs().Mark(e.Reg, e.Facet)
    }

    /* record the pack */
    fi.Packs = append(fi.Packs, pk)
    atomic.AddUint32(&PackCount, 1)
    atomic.AddUint32(&StoreCount, uint32(pk.Len()))
    return pk
}

// unpack rebuilds the register file of bb from scratch. Host mapped registers
// come from src and are dirty since the memory does not hold them, everything
// else is loaded from the CPU struct and clean.
func (self CallConv) unpack(bb *BasicBlock, fi *Function, src _HostSource) {
    rf := bb.regs
    ib := rf.InsertBlock()

    /* drop everything in the register file */
    self.checkValid()
    rf.Clear()
    *rf.DirtyRegs() = abi.RegisterSet{}

    /* reload all the entries */
    for _, e := range abi.Entries() {
        if self.hostMapped(e.Reg) {
            rf.Set(e.Reg, e.Facet, src(e.Reg), true)
        } else {
            rf.Set(e.Reg, e.Facet, ib.NewLoad(e.Facet.Type(), fi.Sptr[e.Slot]), false)
        }
    }
}
