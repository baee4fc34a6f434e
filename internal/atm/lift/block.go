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
    `github.com/llir/llvm/ir/value`
)

type _PhiSlot struct {
    reg   abi.Reg
    facet abi.Facet
    phi   *ir.InstPhi
}

// BasicBlock is a lifted guest basic block. It starts at its head IR block
// and owns a register file whose insertion point may move to other IR blocks.
type BasicBlock struct {
    Id   int
    Pred []*BasicBlock
    Succ []*BasicBlock
    fn   *Function
    head *ir.Block
    regs *RegFile
    phis []_PhiSlot
    nfil int
}

func (self *BasicBlock) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}

func (self *BasicBlock) Func() *Function {
    return self.fn
}

// Head is the first IR block of the lifted block.
func (self *BasicBlock) Head() *ir.Block {
    return self.head
}

func (self *BasicBlock) RegFile() *RegFile {
    return self.regs
}

func (self *BasicBlock) Predecessors() []*BasicBlock {
    return self.Pred
}

func (self *BasicBlock) Successors() []*BasicBlock {
    return self.Succ
}

// Terminated reports whether the current insertion block has a terminator.
func (self *BasicBlock) Terminated() bool {
    return self.regs.InsertBlock().Term != nil
}

func (self *BasicBlock) checkOpen() {
    if self.Terminated() {
        panic(fmt.Sprintf("lift: %s is already terminated", self))
    }
}

func (self *BasicBlock) link(to *BasicBlock) {
    if to.fn != self.fn {
        panic(fmt.Sprintf("lift: branch from %s to a block of another function", self))
    } else if to == self.fn.Entry {
        panic(fmt.Sprintf("lift: branch from %s to the entry block", self))
    }

    /* avoid duplicated edges */
    for _, p := range self.Succ {
        if p == to {
            return
        }
    }

    /* add the edge */
    self.Succ = append(self.Succ, to)
    to.Pred = append(to.Pred, self)
}

// Branch terminates the block with an unconditional branch to another block.
func (self *BasicBlock) Branch(to *BasicBlock) {
    self.checkOpen()
    self.link(to)
    self.regs.InsertBlock().NewBr(to.head)
}

// CondBranch terminates the block with a two-way branch on an i1 value.
func (self *BasicBlock) CondBranch(cond value.Value, t *BasicBlock, f *BasicBlock) {
    if t == f {
        self.Branch(t)
        return
    }

    /* link both of the targets */
    self.checkOpen()
    self.link(t)
    self.link(f)
    self.regs.InsertBlock().NewCondBr(cond, t.head, f.head)
}

// newPhi creates a placeholder for a register flowing into the block, the
// incoming values are filled by Function.Finalize.
func (self *BasicBlock) newPhi(reg abi.Reg, facet abi.Facet) value.Value {
    phi := &ir.InstPhi { Typ: facet.Type() }
    self.head.Insts = append([]ir.Instruction { phi }, self.head.Insts...)
    self.phis = append(self.phis, _PhiSlot { reg: reg, facet: facet, phi: phi })
    return phi
}

// fillPhis completes the pending phi nodes, it reports whether anything was
// filled. Reading from predecessors may create new phis over there.
func (self *BasicBlock) fillPhis() (bool, error) {
    if self.nfil == len(self.phis) {
        return false, nil
    }

    /* phis in a block with no predecessors cannot be filled */
    if len(self.Pred) == 0 {
        ps := self.phis[self.nfil]
        return false, fmt.Errorf("%s reads %s:%s but has no predecessors", self, ps.reg, ps.facet)
    }

    /* take values from each predecessor */
    for ; self.nfil < len(self.phis); self.nfil++ {
        ps := self.phis[self.nfil]
        for _, p := range self.Pred {
            ps.phi.Incs = append(ps.phi.Incs, ir.NewIncoming(p.regs.Get(ps.reg, ps.facet), p.regs.InsertBlock()))
        }
    }
    return true, nil
}
