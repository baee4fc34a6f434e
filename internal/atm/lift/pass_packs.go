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
    `sync/atomic`

    `github.com/cloudwego/relift/internal/atm/abi`
    `github.com/llir/llvm/ir`
    `github.com/oleiade/lane`
    `github.com/sirupsen/logrus`
)

type _DirtyState struct {
    pre  abi.RegisterSet
    post abi.RegisterSet
}

// PackElim removes pack stores whose register can never be dirty at the
// pack, the struct slot already holds that value on every path.
type PackElim struct {
    flow map[*BasicBlock]*_DirtyState
}

func (self *PackElim) flowOf(bb *BasicBlock) *_DirtyState {
    if st, ok := self.flow[bb]; ok {
        return st
    } else {
        st = new(_DirtyState)
        self.flow[bb] = st
        return st
    }
}

// dataflow computes the dirty registers at the entry and the exit of every
// block reachable from the entry block, until it reaches a fixed point.
func (self *PackElim) dataflow(fn *Function) {
    q := lane.NewQueue()
    pending := make(map[*BasicBlock]bool)

    /* start from the entry block */
    q.Enqueue(fn.Entry)
    pending[fn.Entry] = true

    /* propagate until nothing changes */
    for !q.Empty() {
        var pre abi.RegisterSet
        bb := q.Dequeue().(*BasicBlock)
        delete(pending, bb)

        /* merge the exits of all predecessors */
        for _, p := range bb.Pred {
            if st, ok := self.flow[p]; ok {
                pre = pre.Union(st.post)
            }
        }

        /* apply the effects of this block */
        rf := bb.regs
        st, seen := self.flow[bb]
        post := pre.Diff(*rf.CleanedRegs()).Union(*rf.DirtyRegs())

        /* nothing changed, no need to visit the successors */
        if seen && st.pre == pre && st.post == post {
            continue
        }

        /* update the state */
        st = self.flowOf(bb)
        st.pre, st.post = pre, post

        /* schedule the successors */
        for _, s := range bb.Succ {
            if !pending[s] {
                q.Enqueue(s)
                pending[s] = true
            }
        }
    }
}

// Pre is the set of registers that may be dirty at the entry of bb.
func (self *PackElim) Pre(bb *BasicBlock) abi.RegisterSet {
    if st, ok := self.flow[bb]; ok {
        return st.pre
    } else {
        return abi.RegisterSet{}
    }
}

// Post is the set of registers that may be dirty at the exit of bb.
func (self *PackElim) Post(bb *BasicBlock) abi.RegisterSet {
    if st, ok := self.flow[bb]; ok {
        return st.post
    } else {
        return abi.RegisterSet{}
    }
}

func (self *PackElim) Apply(fn *Function) error {
    var kept int
    var elim int

    /* runs only once */
    if fn.optimized {
        return nil
    }

    /* compute the dirty registers */
    fn.optimized = true
    self.flow = make(map[*BasicBlock]*_DirtyState, len(fn.blocks))
    self.dataflow(fn)

    /* stores to remove, grouped by block */
    dead := make(map[*ir.Block]map[ir.Instruction]bool)
    ents := abi.Entries()

    /* check every store of every pack */
    for _, pk := range fn.Packs {
        live := self.Pre(pk.Block).Union(pk.Dirty)
        for i, st := range pk.Stores {
            if st == nil {
                continue
            }

            /* still might be dirty, keep it */
            if e := ents[i]; live.Contains(e.Reg, e.Facet) {
                kept++
                continue
            }

            /* mark as dead */
            if dead[pk.Insert] == nil {
                dead[pk.Insert] = make(map[ir.Instruction]bool)
            }

            /* remove from the pack */
            elim++
            pk.Stores[i] = nil
            dead[pk.Insert][st] = true
        }
    }

    /* remove all the dead stores */
    for bb, ds := range dead {
        ins := bb.Insts[:0]
        for _, v := range bb.Insts {
            if !ds[v] {
                ins = append(ins, v)
            }
        }
        bb.Insts = ins
    }

    /* update the statistics */
    atomic.AddUint32(&ElimCount, uint32(elim))
    fn.Opts.Log().WithFields(logrus.Fields {
        "func"       : fn.Name(),
        "packs"      : len(fn.Packs),
        "kept"       : kept,
        "eliminated" : elim,
    }).Debug("pack stores optimized")
    return nil
}
