// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ssa implements the SSA construction and verification of spec
// §4.H: a Cooper-Harvey-Kennedy dominator tree, iterated-dominance-frontier
// phi insertion (Cytron et al.), dominator-tree-preorder renaming, and a
// pure verifier.
package ssa

import "blendsdk.dev/blend65c/internal/il"

// DomTree is the dominator tree of one function's CFG, computed over its
// reverse postorder via the Cooper-Harvey-Kennedy iterative algorithm.
type DomTree struct {
	fn       *il.Function
	rpo      []int
	rpoIndex map[int]int
	idom     []int // idom[b] == -1 for the entry block

	checksPerformed int
}

// BuildDomTree computes the dominator tree of fn.
func BuildDomTree(fn *il.Function) *DomTree {
	d := &DomTree{fn: fn}
	d.computeRPO()
	d.computeIdom()
	return d
}

func (d *DomTree) computeRPO() {
	visited := make(map[int]bool)
	var order []int
	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, s := range d.fn.Block(id).Succs() {
			visit(s)
		}
		order = append(order, id)
	}
	visit(d.fn.Entry().ID)

	// order is postorder; reverse it.
	d.rpo = make([]int, len(order))
	for i, id := range order {
		d.rpo[len(order)-1-i] = id
	}
	d.rpoIndex = make(map[int]int, len(d.rpo))
	for i, id := range d.rpo {
		d.rpoIndex[id] = i
	}
}

// computeIdom implements the iterative dominance algorithm of Cooper,
// Harvey and Kennedy, "A Simple, Fast Dominance Algorithm".
func (d *DomTree) computeIdom() {
	n := len(d.fn.Blocks())
	d.idom = make([]int, n)
	for i := range d.idom {
		d.idom[i] = -2 // -2 == undefined; -1 == self (entry)
	}
	entry := d.fn.Entry().ID
	d.idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range d.rpo {
			if b == entry {
				continue
			}
			preds := d.fn.Block(b).Preds()
			newIdom := -2
			for _, p := range preds {
				if d.idom[p] == -2 {
					continue
				}
				if newIdom == -2 {
					newIdom = p
					continue
				}
				newIdom = d.intersect(newIdom, p)
			}
			if newIdom != -2 && d.idom[b] != newIdom {
				d.idom[b] = newIdom
				changed = true
			}
		}
	}
	// The entry's self-idom is represented as -1 for IDom()'s contract.
	d.idom[entry] = -1
}

func (d *DomTree) intersect(a, b int) int {
	for a != b {
		for d.rpoIndex[a] > d.rpoIndex[b] {
			a = d.idom[a]
		}
		for d.rpoIndex[b] > d.rpoIndex[a] {
			b = d.idom[b]
		}
	}
	return a
}

// IDom returns b's immediate dominator, or -1 if b is the entry block.
func (d *DomTree) IDom(b int) int { return d.idom[b] }

// Dominates reports whether a dominates b (every path from the entry to b
// passes through a). A block always dominates itself.
func (d *DomTree) Dominates(a, b int) bool {
	d.checksPerformed++
	cur := b
	for {
		if cur == a {
			return true
		}
		if cur == d.fn.Entry().ID {
			return false
		}
		cur = d.idom[cur]
	}
}

// ChecksPerformed returns the number of Dominates queries issued so far.
func (d *DomTree) ChecksPerformed() int { return d.checksPerformed }

// DominanceFrontier computes the dominance frontier of every block: the set
// of blocks where a's dominance "stops", per Cytron et al.
func (d *DomTree) DominanceFrontier() map[int][]int {
	df := make(map[int][]int)
	for _, b := range d.fn.Blocks() {
		preds := b.Preds()
		if len(preds) < 2 {
			continue
		}
		for _, p := range preds {
			runner := p
			for runner != d.idom[b.ID] {
				df[runner] = appendUnique(df[runner], b.ID)
				runner = d.idom[runner]
			}
		}
	}
	return df
}

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}

// Children returns b's immediate-dominator-tree children in block-id order.
func (d *DomTree) Children(b int) []int {
	var out []int
	for _, blk := range d.fn.Blocks() {
		if blk.ID != b && d.idom[blk.ID] == b {
			out = append(out, blk.ID)
		}
	}
	return out
}

// Root returns the dominator tree's root (the function's entry block id).
func (d *DomTree) Root() int { return d.fn.Entry().ID }
