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
    `github.com/cloudwego/relift/internal/utils`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

// Verify checks the lifted CFG: edges must be recorded on both of their
// ends, and every block holding a pack must be reachable from the entry.
type Verify struct{}

func (Verify) graph(fn *Function) *simple.DirectedGraph {
    g := simple.NewDirectedGraph()

    /* add all the blocks */
    for _, bb := range fn.blocks {
        g.AddNode(simple.Node(bb.Id))
    }

    /* and all the edges, self loops do not affect reachability */
    for _, bb := range fn.blocks {
        for _, s := range bb.Succ {
            if s != bb {
                g.SetEdge(g.NewEdge(simple.Node(bb.Id), simple.Node(s.Id)))
            }
        }
    }
    return g
}

func (self Verify) Apply(fn *Function) error {
    for _, bb := range fn.blocks {
        for _, s := range bb.Succ {
            if !hasBlock(s.Pred, bb) {
                return utils.EFinalize(fn.Name(), "edge %s -> %s is missing from the predecessors", bb, s)
            }
        }
        for _, p := range bb.Pred {
            if !hasBlock(p.Succ, bb) {
                return utils.EFinalize(fn.Name(), "edge %s -> %s is missing from the successors", p, bb)
            }
        }
    }

    /* find all the reachable blocks */
    g := self.graph(fn)
    reach := make(map[int64]bool, len(fn.blocks))
    walk := traverse.BreadthFirst { Visit: func(n graph.Node) { reach[n.ID()] = true } }

    /* every pack must be reachable */
    walk.Walk(g, simple.Node(fn.Entry.Id), nil)
    reach[int64(fn.Entry.Id)] = true
    for _, pk := range fn.Packs {
        if !reach[int64(pk.Block.Id)] {
            return utils.EFinalize(fn.Name(), "%s is not reachable from the entry", pk)
        }
    }
    return nil
}

func hasBlock(bv []*BasicBlock, bb *BasicBlock) bool {
    for _, p := range bv {
        if p == bb {
            return true
        }
    }
    return false
}
