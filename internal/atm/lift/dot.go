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
    `html`
    `strings`

    `github.com/oleiade/lane`
)

func (self *Function) dotLabel(bb *BasicBlock) string {
    var np int
    var ns int

    /* count the packs in this block */
    for _, pk := range self.Packs {
        if pk.Block == bb {
            np++
            ns += pk.Len()
        }
    }

    /* block metadata */
    meta := []string {
        bb.String(),
        fmt.Sprintf("# dirty = %s", bb.regs.DirtyRegs()),
        fmt.Sprintf("# cleaned = %s", bb.regs.CleanedRegs()),
        fmt.Sprintf("# packs = %d, stores = %d", np, ns),
    }

    /* build the table */
    buf := []string { `<table border="1" cellborder="0" cellspacing="0">` }
    for _, v := range meta {
        buf = append(buf, fmt.Sprintf(`<tr><td align="left">%s</td></tr>`, html.EscapeString(v)))
    }

    /* close the table */
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// Dot renders the lifted CFG in Graphviz format.
func (self *Function) Dot() string {
    q := lane.NewQueue()
    n := make(map[int]bool)
    buf := []string {
        "digraph CFG {",
        `    node [ fontname = "Fira Code" shape = "plaintext" ]`,
        `    START [ shape = "circle" ]`,
        fmt.Sprintf(`    START -> %s`, self.Entry),
    }

    /* traverse the graph with BFS */
    n[self.Entry.Id] = true
    for q.Enqueue(self.Entry); !q.Empty(); {
        p := q.Dequeue().(*BasicBlock)
        buf = append(buf, fmt.Sprintf(`    %s [ label = < %s > ]`, p, self.dotLabel(p)))

        /* add all the edges */
        for _, s := range p.Succ {
            if buf = append(buf, fmt.Sprintf(`    %s -> %s`, p, s)); !n[s.Id] {
                n[s.Id] = true
                q.Enqueue(s)
            }
        }
    }

    /* close the graph */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
