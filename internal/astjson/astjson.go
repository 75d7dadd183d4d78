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

// Package astjson decodes a JSON-encoded syntax tree into internal/ast
// nodes. It stands in for the real lexer/parser, which spec §6 places
// outside this module: something has to hand cmd/blendc an *ast.Program to
// feed the pipeline, and JSON is the fixture format, following the same
// decode-into-domain-model shape the teacher uses for its own JSON trace
// format (pkg/trace/json/reader.go).
package astjson

import (
	"encoding/json"
	"fmt"

	"blendsdk.dev/blend65c/internal/ast"
)

// FromBytes decodes a JSON document into an *ast.Program.
func FromBytes(data []byte) (*ast.Program, error) {
	var doc struct {
		Module       moduleJSON        `json:"module"`
		Declarations []json.RawMessage `json:"declarations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}

	prog := &ast.Program{
		Module: ast.ModuleDecl{Name: doc.Module.Name},
	}
	for i, raw := range doc.Declarations {
		d, err := decodeDecl(raw)
		if err != nil {
			return nil, fmt.Errorf("astjson: declaration %d: %w", i, err)
		}
		prog.Declarations = append(prog.Declarations, d)
	}
	return prog, nil
}

type moduleJSON struct {
	Name string `json:"name"`
}

type kindEnvelope struct {
	Kind string `json:"kind"`
}

func kindOf(raw json.RawMessage) (string, error) {
	var k kindEnvelope
	if err := json.Unmarshal(raw, &k); err != nil {
		return "", err
	}
	if k.Kind == "" {
		return "", fmt.Errorf("missing \"kind\" field")
	}
	return k.Kind, nil
}

type typeExprJSON struct {
	Name         string `json:"name"`
	ArrayLength  *int   `json:"arrayLength"`
	Unsized      bool   `json:"unsized"`
	PointerDepth int    `json:"pointerDepth"`
}

func (t *typeExprJSON) toAST() *ast.TypeExpr {
	if t == nil {
		return nil
	}
	return &ast.TypeExpr{
		Name:         t.Name,
		ArrayLength:  t.ArrayLength,
		Unsized:      t.Unsized,
		PointerDepth: t.PointerDepth,
	}
}

func decodeDecl(raw json.RawMessage) (ast.Declaration, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "import":
		var j struct {
			Module      string   `json:"module"`
			Identifiers []string `json:"identifiers"`
			Wildcard    bool     `json:"wildcard"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		return &ast.ImportDecl{Module: j.Module, Identifiers: j.Identifiers, Wildcard: j.Wildcard}, nil

	case "var":
		var j struct {
			Name     string          `json:"name"`
			Type     *typeExprJSON   `json:"type"`
			Init     json.RawMessage `json:"init"`
			Exported bool            `json:"exported"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		init, err := decodeOptExpr(j.Init)
		if err != nil {
			return nil, err
		}
		return &ast.VarDecl{Name: j.Name, Type: j.Type.toAST(), Init: init, IsExported: j.Exported}, nil

	case "const":
		var j struct {
			Name     string          `json:"name"`
			Type     *typeExprJSON   `json:"type"`
			Init     json.RawMessage `json:"init"`
			Exported bool            `json:"exported"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		init, err := decodeOptExpr(j.Init)
		if err != nil {
			return nil, err
		}
		return &ast.ConstDecl{Name: j.Name, Type: j.Type.toAST(), Init: init, IsExported: j.Exported}, nil

	case "map":
		var j struct {
			Name    string        `json:"name"`
			Address uint16        `json:"address"`
			Type    *typeExprJSON `json:"type"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		return &ast.MapDecl{Name: j.Name, Address: j.Address, Type: j.Type.toAST()}, nil

	case "zeropage":
		var j struct {
			Name    string        `json:"name"`
			Address uint16        `json:"address"`
			Type    *typeExprJSON `json:"type"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		return &ast.ZeroPageDecl{Name: j.Name, Address: j.Address, Type: j.Type.toAST()}, nil

	case "enum":
		var j struct {
			Name     string `json:"name"`
			Exported bool   `json:"exported"`
			Members  []struct {
				Name  string `json:"name"`
				Value *int   `json:"value"`
			} `json:"members"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		members := make([]*ast.EnumMember, len(j.Members))
		for i, m := range j.Members {
			members[i] = &ast.EnumMember{Name: m.Name, Value: m.Value}
		}
		return &ast.EnumDecl{Name: j.Name, Members: members, IsExported: j.Exported}, nil

	case "func":
		var j struct {
			Name       string          `json:"name"`
			ReturnType *typeExprJSON   `json:"returnType"`
			Exported   bool            `json:"exported"`
			Interrupt  bool            `json:"interrupt"`
			Body       json.RawMessage `json:"body"`
			Params     []struct {
				Name string        `json:"name"`
				Type *typeExprJSON `json:"type"`
			} `json:"params"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		params := make([]*ast.Param, len(j.Params))
		for i, p := range j.Params {
			params[i] = &ast.Param{Name: p.Name, Type: p.Type.toAST()}
		}
		var body *ast.BlockStmt
		if len(j.Body) > 0 {
			s, err := decodeStmt(j.Body)
			if err != nil {
				return nil, err
			}
			blk, ok := s.(*ast.BlockStmt)
			if !ok {
				return nil, fmt.Errorf("func %q: body must be a block", j.Name)
			}
			body = blk
		}
		return &ast.FuncDecl{
			Name: j.Name, Params: params, ReturnType: j.ReturnType.toAST(),
			Body: body, IsExported: j.Exported, Interrupt: j.Interrupt,
		}, nil
	}
	return nil, fmt.Errorf("unknown declaration kind %q", kind)
}

func decodeOptExpr(raw json.RawMessage) (ast.Expr, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeExpr(raw)
}

func decodeOptStmt(raw json.RawMessage) (ast.Stmt, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeStmt(raw)
}

func decodeBlock(raw json.RawMessage) (*ast.BlockStmt, error) {
	s, err := decodeOptStmt(raw)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	blk, ok := s.(*ast.BlockStmt)
	if !ok {
		return nil, fmt.Errorf("expected a block statement")
	}
	return blk, nil
}

func decodeStmt(raw json.RawMessage) (ast.Stmt, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "block":
		var j struct {
			Stmts []json.RawMessage `json:"stmts"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		blk := &ast.BlockStmt{}
		for _, r := range j.Stmts {
			s, err := decodeStmt(r)
			if err != nil {
				return nil, err
			}
			blk.Stmts = append(blk.Stmts, s)
		}
		return blk, nil

	case "let":
		var j struct {
			Name string          `json:"name"`
			Type *typeExprJSON   `json:"type"`
			Init json.RawMessage `json:"init"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		init, err := decodeOptExpr(j.Init)
		if err != nil {
			return nil, err
		}
		return &ast.LetStmt{Name: j.Name, Type: j.Type.toAST(), Init: init}, nil

	case "assign":
		var j struct {
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		target, err := decodeExpr(j.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(j.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Target: target, Value: value}, nil

	case "compoundassign":
		var j struct {
			Op     string          `json:"op"`
			Target json.RawMessage `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		op, err := binaryOpFromString(j.Op)
		if err != nil {
			return nil, err
		}
		target, err := decodeExpr(j.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(j.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CompoundAssignStmt{Op: op, Target: target, Value: value}, nil

	case "if":
		var j struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(j.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(j.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeOptStmt(j.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: els}, nil

	case "while":
		var j struct {
			Cond json.RawMessage `json:"cond"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(j.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(j.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Cond: cond, Body: body}, nil

	case "forrange":
		var j struct {
			Var  string          `json:"var"`
			Low  json.RawMessage `json:"low"`
			High json.RawMessage `json:"high"`
			Body json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		low, err := decodeExpr(j.Low)
		if err != nil {
			return nil, err
		}
		high, err := decodeExpr(j.High)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(j.Body)
		if err != nil {
			return nil, err
		}
		return &ast.ForRangeStmt{Var: j.Var, Low: low, High: high, Body: body}, nil

	case "break":
		return &ast.BreakStmt{}, nil

	case "continue":
		return &ast.ContinueStmt{}, nil

	case "return":
		var j struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		value, err := decodeOptExpr(j.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: value}, nil

	case "expr":
		var j struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		value, err := decodeExpr(j.Value)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Value: value}, nil
	}
	return nil, fmt.Errorf("unknown statement kind %q", kind)
}

func decodeExpr(raw json.RawMessage) (ast.Expr, error) {
	kind, err := kindOf(raw)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "literal":
		var j struct {
			LitKind string `json:"litKind"`
			Value   any    `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		return decodeLiteral(j.LitKind, j.Value)

	case "ident":
		var j struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		return &ast.IdentExpr{Name: j.Name}, nil

	case "binary":
		var j struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		op, err := binaryOpFromString(j.Op)
		if err != nil {
			return nil, err
		}
		left, err := decodeExpr(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(j.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil

	case "unary":
		var j struct {
			Op      string          `json:"op"`
			Operand json.RawMessage `json:"operand"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		op, err := unaryOpFromString(j.Op)
		if err != nil {
			return nil, err
		}
		operand, err := decodeExpr(j.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil

	case "call":
		var j struct {
			Callee json.RawMessage   `json:"callee"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		callee, err := decodeExpr(j.Callee)
		if err != nil {
			return nil, err
		}
		call := &ast.CallExpr{Callee: callee}
		for _, r := range j.Args {
			a, err := decodeExpr(r)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, a)
		}
		return call, nil

	case "index":
		var j struct {
			Array json.RawMessage `json:"array"`
			Index json.RawMessage `json:"index"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		arr, err := decodeExpr(j.Array)
		if err != nil {
			return nil, err
		}
		idx, err := decodeExpr(j.Index)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Array: arr, Index: idx}, nil

	case "member":
		var j struct {
			Target json.RawMessage `json:"target"`
			Member string          `json:"member"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		target, err := decodeExpr(j.Target)
		if err != nil {
			return nil, err
		}
		return &ast.MemberExpr{Target: target, Member: j.Member}, nil

	case "ternary":
		var j struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(j.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeExpr(j.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeExpr(j.Else)
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpr{Cond: cond, Then: then, Else: els}, nil

	case "cast":
		var j struct {
			Target *typeExprJSON   `json:"target"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &j); err != nil {
			return nil, err
		}
		value, err := decodeExpr(j.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CastExpr{Target: j.Target.toAST(), Value: value}, nil
	}
	return nil, fmt.Errorf("unknown expression kind %q", kind)
}

func decodeLiteral(litKind string, value any) (*ast.LiteralExpr, error) {
	switch litKind {
	case "byte", "word":
		n, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("literal %q requires a numeric value", litKind)
		}
		kind := ast.LitByte
		if litKind == "word" {
			kind = ast.LitWord
		}
		return &ast.LiteralExpr{Kind: kind, Value: int64(n)}, nil
	case "bool":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("literal \"bool\" requires a boolean value")
		}
		return &ast.LiteralExpr{Kind: ast.LitBool, Value: b}, nil
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("literal \"string\" requires a string value")
		}
		return &ast.LiteralExpr{Kind: ast.LitString, Value: s}, nil
	}
	return nil, fmt.Errorf("unknown literal kind %q", litKind)
}

var binaryOpsByName = map[string]ast.BinaryOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"&": ast.OpAnd, "|": ast.OpOr, "^": ast.OpXor, "<<": ast.OpShl, ">>": ast.OpShr,
	"==": ast.OpEq, "!=": ast.OpNe, "<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe,
	"&&": ast.OpLogicalAnd, "||": ast.OpLogicalOr,
}

func binaryOpFromString(s string) (ast.BinaryOp, error) {
	op, ok := binaryOpsByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown binary operator %q", s)
	}
	return op, nil
}

var unaryOpsByName = map[string]ast.UnaryOp{
	"-": ast.OpNeg, "!": ast.OpNot, "~": ast.OpBitNot, "&": ast.OpAddressOf, "*": ast.OpDeref,
}

func unaryOpFromString(s string) (ast.UnaryOp, error) {
	op, ok := unaryOpsByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown unary operator %q", s)
	}
	return op, nil
}
