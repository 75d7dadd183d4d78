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
package cfg

import "blendsdk.dev/blend65c/internal/ast"

// loopFrame records the header/exit targets of one enclosing loop, so that
// break/continue can be wired directly to the right node without a second
// pass.
type loopFrame struct {
	header, exit int
}

type builder struct {
	g     *Graph
	loops []*loopFrame
}

// Build constructs the control-flow graph for a single function body. Per
// spec §4.D: if produces a Branch node with two successors joined at a
// merge; while produces a Loop node with a body back-edge and an exit
// successor; return/break/continue terminate the current linear chain, so
// statements following them are built with no predecessor (hence
// unreachable).
func Build(fn *ast.FuncDecl) *Graph {
	g := &Graph{}
	b := &builder{g: g}

	entry := g.newNode(Entry, nil)
	exit := g.newNode(Exit, nil)
	g.EntryID, g.ExitID = entry, exit

	var body []ast.Stmt
	if fn.Body != nil {
		body = fn.Body.Stmts
	}
	open := b.buildStmts(body, []int{entry})
	g.connectAll(open, exit)

	ComputeReachability(g)

	return g
}

func (b *builder) buildStmts(stmts []ast.Stmt, preds []int) []int {
	for _, s := range stmts {
		preds = b.buildStmt(s, preds)
	}
	return preds
}

func (b *builder) buildStmt(s ast.Stmt, preds []int) []int {
	switch x := s.(type) {
	case nil:
		return preds
	case *ast.BlockStmt:
		return b.buildStmts(x.Stmts, preds)
	case *ast.IfStmt:
		return b.buildIf(x, preds)
	case *ast.WhileStmt:
		return b.buildWhile(x, preds)
	case *ast.ForRangeStmt:
		return b.buildForRange(x, preds)
	case *ast.BreakStmt:
		return b.buildBreak(x, preds)
	case *ast.ContinueStmt:
		return b.buildContinue(x, preds)
	case *ast.ReturnStmt:
		id := b.g.newNode(Return, x)
		b.g.connectAll(preds, id)
		return nil
	default:
		// Plain statement: let/assign/compound-assign/expr-stmt all become a
		// single linear Statement node.
		id := b.g.newNode(Statement, x)
		b.g.connectAll(preds, id)
		return []int{id}
	}
}

func (b *builder) buildIf(x *ast.IfStmt, preds []int) []int {
	branch := b.g.newNode(Branch, x)
	b.g.connectAll(preds, branch)

	thenOpen := b.buildStmt(x.Then, []int{branch})

	var elseOpen []int
	if x.Else != nil {
		elseOpen = b.buildStmt(x.Else, []int{branch})
	} else {
		elseOpen = []int{branch}
	}

	merge := b.g.newNode(Statement, x)
	b.g.connectAll(thenOpen, merge)
	b.g.connectAll(elseOpen, merge)

	return []int{merge}
}

func (b *builder) buildWhile(x *ast.WhileStmt, preds []int) []int {
	header := b.g.newNode(Loop, x)
	b.g.connectAll(preds, header)

	exitNode := b.g.newNode(Statement, x)
	b.g.addEdge(header, exitNode)

	b.loops = append(b.loops, &loopFrame{header: header, exit: exitNode})
	bodyOpen := b.buildStmt(x.Body, []int{header})
	b.loops = b.loops[:len(b.loops)-1]

	b.g.connectAll(bodyOpen, header)

	return []int{exitNode}
}

// buildForRange desugars identically to while: the range header is a Loop
// node with a back-edge from the body and an exit successor. Per SPEC_FULL §12
// this implementation iterates inclusively of High.
func (b *builder) buildForRange(x *ast.ForRangeStmt, preds []int) []int {
	header := b.g.newNode(Loop, x)
	b.g.connectAll(preds, header)

	exitNode := b.g.newNode(Statement, x)
	b.g.addEdge(header, exitNode)

	b.loops = append(b.loops, &loopFrame{header: header, exit: exitNode})
	bodyOpen := b.buildStmt(x.Body, []int{header})
	b.loops = b.loops[:len(b.loops)-1]

	b.g.connectAll(bodyOpen, header)

	return []int{exitNode}
}

func (b *builder) buildBreak(x *ast.BreakStmt, preds []int) []int {
	id := b.g.newNode(Statement, x)
	b.g.connectAll(preds, id)
	if n := len(b.loops); n > 0 {
		b.g.addEdge(id, b.loops[n-1].exit)
	}
	return nil
}

func (b *builder) buildContinue(x *ast.ContinueStmt, preds []int) []int {
	id := b.g.newNode(Statement, x)
	b.g.connectAll(preds, id)
	if n := len(b.loops); n > 0 {
		b.g.addEdge(id, b.loops[n-1].header)
	}
	return nil
}
