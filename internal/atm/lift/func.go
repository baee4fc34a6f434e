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
    `github.com/cloudwego/relift/internal/opts`
    `github.com/cloudwego/relift/internal/utils`
    `github.com/llir/llvm/ir`
    `github.com/llir/llvm/ir/constant`
    `github.com/llir/llvm/ir/types`
    `github.com/llir/llvm/ir/value`
)

// Function is the lifting context of one function. It owns the typed
// pointer to every CPU struct slot and all the packs emitted so far.
type Function struct {
    Fn        *ir.Func
    CC        CallConv
    Entry     *BasicBlock
    SptrRaw   value.Value
    Sptr      [abi.NumEntries]value.Value
    Packs     []*Pack
    Opts      opts.Options
    init      *ir.Block
    blocks    []*BasicBlock
    done      bool
    optimized bool
}

func paramName(cc CallConv, i int) string {
    if i == cc.StructParamIdx() {
        return "sptr"
    }

    /* find the register for this slot */
    for _, r := range hostMapped() {
        if abi.ArgIndex(r) == i {
            return r.String()
        }
    }

    /* should not happen */
    return fmt.Sprintf("arg%d", i)
}

func hostMapped() []abi.Reg {
    ret := []abi.Reg { abi.RIP }
    for i := 0; i < abi.HHVMHostGP; i++ {
        ret = append(ret, abi.GP(i))
    }
    return ret
}

// NewFunction creates an empty function following cc in module m, whose
// entry block already holds the incoming register state.
func NewFunction(m *ir.Module, name string, cc CallConv, o opts.Options) *Function {
    cc.checkValid()
    ft := cc.FnType(0)
    ps := make([]*ir.Param, len(ft.Params))

    /* create all the parameters */
    for i, t := range ft.Params {
        ps[i] = ir.NewParam(paramName(cc, i), t)
    }

    /* create the function */
    fn := m.NewFunc(name, ft.RetType, ps...)
    fn.CallingConv = cc.CallingConv()

    /* create the function context */
    ret := &Function {
        Fn      : fn,
        CC      : cc,
        Opts    : o,
        SptrRaw : fn.Params[cc.StructParamIdx()],
        init    : fn.NewBlock("init"),
    }

    /* compute the address of every slot */
    for _, e := range abi.Entries() {
        pv := ret.init.NewGetElementPtr(types.I8, ret.SptrRaw, constant.NewInt(types.I64, int64(e.Offset)))
        ret.Sptr[e.Slot] = ret.init.NewBitCast(pv, types.NewPointer(e.Facet.Type()))
    }

    /* the entry block starts with the parameters */
    ret.Entry = ret.NewBlock()
    cc.UnpackParams(ret.Entry, ret)
    atomic.AddUint32(&FuncCount, 1)
    return ret
}

// NewBlock creates a new lifted block. Registers read before being written
// in blocks other than the entry block come from phi nodes.
func (self *Function) NewBlock() *BasicBlock {
    if self.done {
        panic("lift: new block in a finalized function")
    }

    /* create the block */
    id := len(self.blocks)
    bb := &BasicBlock { Id: id, fn: self }
    bb.head = self.Fn.NewBlock(bb.String())
    bb.regs = newRegFile(bb.head)

    /* registers flow in from the predecessors */
    if id != 0 {
        bb.regs.miss = bb.newPhi
    }

    /* add to block list */
    self.blocks = append(self.blocks, bb)
    return bb
}

// Blocks returns all the lifted blocks in creation order.
func (self *Function) Blocks() []*BasicBlock {
    return self.blocks
}

func (self *Function) Name() string {
    return self.Fn.Name()
}

// Finalize completes the function. All the blocks must be terminated, and no
// boundary may be generated afterwards.
func (self *Function) Finalize() error {
    if self.done {
        return utils.EFinalize(self.Name(), "function already finalized")
    }

    /* every block must be terminated */
    for _, bb := range self.blocks {
        if !bb.Terminated() {
            return utils.EFinalize(self.Name(), "%s is not terminated", bb)
        }
    }

    /* filling phis may create phis in other blocks, repeat until stable */
    for more := true; more; {
        more = false
        for _, bb := range self.blocks {
            if ok, err := bb.fillPhis(); err != nil {
                return utils.EFinalize(self.Name(), err.Error())
            } else if ok {
                more = true
            }
        }
    }

    /* link the slot addresses to the entry */
    self.done = true
    self.init.NewBr(self.Entry.head)

    /* run all the enabled passes */
    for _, p := range _passes {
        if p.when(&self.Opts) {
            if err := p.pass.Apply(self); err != nil {
                return err
            }
        }
    }
    return nil
}

// OptimizePacks removes the pack stores that are never observed. It runs at
// most once, and no pack may be emitted after that.
func (self *Function) OptimizePacks() {
    if !self.optimized {
        _ = new(PackElim).Apply(self)
    }
}

func (self *Function) String() string {
    return self.Fn.LLString()
}
