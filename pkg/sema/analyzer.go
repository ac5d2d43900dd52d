// Package sema performs two-pass scope and type checking over the
// parser's AST: it predeclares every function (plus the built-ins) into
// the global scope, then checks each function body and any top-level
// statement against the richer (built-ins predeclared, implicit
// int -> double) type-rule variant.
package sema

import (
	"strings"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
	"github.com/vsvsvsvsvsvs/polizvm/pkg/diag"
)

// frame tracks the checking context that threads through nested
// statements: the enclosing function's return type (for `return`) and
// how many loops deep the current statement sits (for break/continue).
type frame struct {
	returnType Type
	inFunction bool
	loopDepth  int
}

type analyzer struct {
	global *Scope
	diags  diag.List
}

// Analyze runs both passes over program and returns every accumulated
// diagnostic. An empty result means the program is well-typed.
func Analyze(program *ast.Node) diag.List {
	a := &analyzer{global: newScope(nil)}
	a.predeclare(program)
	a.check(program)
	return a.diags
}

func (a *analyzer) predeclare(program *ast.Node) {
	for _, b := range builtins {
		a.global.declare(b)
	}
	for _, child := range program.Children {
		if child.Kind != ast.Function {
			continue
		}
		sym := functionSymbol(child)
		if !a.global.declare(sym) {
			a.diags.Add(child.Line, child.Column, "Duplicate variable/function: %s", child.Text)
		}
	}
}

func functionSymbol(fn *ast.Node) Symbol {
	retType := TypeFromKeyword(fn.Child(0).Text)
	n := len(fn.Children)
	args := fn.Children[1 : n-1]
	paramTypes := make([]Type, len(args))
	paramIsArray := make([]bool, len(args))
	for i, arg := range args {
		paramTypes[i] = TypeFromKeyword(arg.Child(0).Text)
		paramIsArray[i] = arg.IsArray
	}
	return Symbol{Name: fn.Text, Type: retType, IsFunction: true, ParamTypes: paramTypes, ParamIsArray: paramIsArray}
}

func (a *analyzer) check(program *ast.Node) {
	top := &frame{}
	for _, child := range program.Children {
		if child.Kind == ast.Function {
			a.checkFunction(child)
		} else {
			a.checkStmt(child, a.global, top)
		}
	}
}

func (a *analyzer) checkFunction(fn *ast.Node) {
	sym, _ := a.global.lookup(fn.Text)
	scope := newScope(a.global)
	n := len(fn.Children)
	for _, arg := range fn.Children[1 : n-1] {
		pt := TypeFromKeyword(arg.Child(0).Text)
		if !scope.declare(Symbol{Name: arg.Text, Type: pt, IsArray: arg.IsArray}) {
			a.diags.Add(arg.Line, arg.Column, "Duplicate variable/function: %s", arg.Text)
		}
	}
	fr := &frame{returnType: sym.Type, inFunction: true}
	body := fn.Children[n-1]
	for _, stmt := range body.Children {
		a.checkStmt(stmt, scope, fr)
	}
}

func (a *analyzer) checkStmt(n *ast.Node, scope *Scope, fr *frame) {
	switch n.Kind {
	case ast.Block:
		a.checkBlockAsScope(n, scope, fr)
	case ast.VarDeclList:
		a.checkVarDeclList(n, scope, fr)
	case ast.If:
		a.checkIf(n, scope, fr)
	case ast.While:
		a.checkCondition(n.Child(0), scope, fr)
		fr.loopDepth++
		a.checkBlockAsScope(n.Child(1), scope, fr)
		fr.loopDepth--
	case ast.DoWhile:
		fr.loopDepth++
		a.checkBlockAsScope(n.Child(0), scope, fr)
		fr.loopDepth--
		a.checkCondition(n.Child(1), scope, fr)
	case ast.For:
		a.checkFor(n, scope, fr)
	case ast.Return:
		a.checkReturn(n, scope, fr)
	case ast.Break:
		if fr.loopDepth == 0 {
			a.diags.Add(n.Line, n.Column, "break outside loop")
		}
	case ast.Continue:
		if fr.loopDepth == 0 {
			a.diags.Add(n.Line, n.Column, "continue outside loop")
		}
	case ast.ExprStmt:
		a.checkExpr(n.Child(0), scope, fr)
	default:
		a.diags.Add(n.Line, n.Column, "invalid statement")
	}
}

func (a *analyzer) checkBlockAsScope(block *ast.Node, parent *Scope, fr *frame) {
	child := newScope(parent)
	for _, stmt := range block.Children {
		a.checkStmt(stmt, child, fr)
	}
}

func (a *analyzer) checkIf(n *ast.Node, scope *Scope, fr *frame) {
	a.checkCondition(n.Child(0), scope, fr)
	a.checkBlockAsScope(n.Child(1), scope, fr)
	for _, c := range n.Children[2:] {
		if c.Kind == ast.ElseIf {
			a.checkCondition(c.Child(0), scope, fr)
			a.checkBlockAsScope(c.Child(1), scope, fr)
		} else {
			a.checkBlockAsScope(c, scope, fr)
		}
	}
}

func (a *analyzer) checkFor(n *ast.Node, scope *Scope, fr *frame) {
	forScope := newScope(scope)
	init, cond, step, body := n.Child(0), n.Child(1), n.Child(2), n.Child(3)
	if init != nil {
		if init.Kind == ast.VarDeclList {
			a.checkVarDeclList(init, forScope, fr)
		} else {
			a.checkExpr(init, forScope, fr)
		}
	}
	if cond != nil {
		a.checkCondition(cond, forScope, fr)
	}
	if step != nil {
		a.checkExpr(step, forScope, fr)
	}
	fr.loopDepth++
	if body != nil {
		a.checkBlockAsScope(body, forScope, fr)
	}
	fr.loopDepth--
}

func (a *analyzer) checkReturn(n *ast.Node, scope *Scope, fr *frame) {
	if !fr.inFunction {
		a.diags.Add(n.Line, n.Column, "return outside function")
		return
	}
	if len(n.Children) == 0 {
		if fr.returnType != TypeVoid {
			a.diags.Add(n.Line, n.Column, "missing return value")
		}
		return
	}
	expr := n.Children[0]
	t := a.checkExpr(expr, scope, fr)
	if t == TypeUnknown || t == fr.returnType {
		return
	}
	if fr.returnType == TypeDouble && t == TypeInt {
		return
	}
	a.diags.Add(expr.Line, expr.Column, "return type mismatch")
}

func (a *analyzer) checkCondition(cond *ast.Node, scope *Scope, fr *frame) {
	t := a.checkExpr(cond, scope, fr)
	if t != TypeUnknown && t != TypeInt {
		a.diags.Add(cond.Line, cond.Column, "condition must be int")
	}
}

func (a *analyzer) checkVarDeclList(n *ast.Node, scope *Scope, fr *frame) {
	declType := TypeFromKeyword(n.Child(0).Text)
	for _, decl := range n.Children[1:] {
		a.checkVarDecl(decl, declType, scope, fr)
	}
}

func (a *analyzer) checkVarDecl(decl *ast.Node, declType Type, scope *Scope, fr *frame) {
	var initExpr, sizeExpr *ast.Node
	switch {
	case decl.IsArray && len(decl.Children) == 2:
		initExpr, sizeExpr = decl.Children[0], decl.Children[1]
	case decl.IsArray && len(decl.Children) == 1:
		sizeExpr = decl.Children[0]
	case !decl.IsArray && len(decl.Children) == 1:
		initExpr = decl.Children[0]
	}

	if sizeExpr != nil {
		t := a.checkExpr(sizeExpr, scope, fr)
		if t != TypeUnknown && t != TypeInt {
			a.diags.Add(sizeExpr.Line, sizeExpr.Column, "array size must be int")
		}
	}
	if initExpr != nil {
		t := a.checkExpr(initExpr, scope, fr)
		if t != TypeUnknown && declType != TypeUnknown && t != declType && !(declType == TypeDouble && t == TypeInt) {
			a.diags.Add(initExpr.Line, initExpr.Column, "Assignment type mismatch")
		}
	}

	sym := Symbol{Name: decl.Text, Type: declType, IsArray: decl.IsArray}
	if !scope.declare(sym) {
		a.diags.Add(decl.Line, decl.Column, "Duplicate variable/function: %s", decl.Text)
	}
}

func (a *analyzer) checkExpr(n *ast.Node, scope *Scope, fr *frame) Type {
	switch n.Kind {
	case ast.Number:
		if strings.ContainsAny(n.Text, ".eE") {
			return TypeDouble
		}
		return TypeInt
	case ast.String:
		return TypeString
	case ast.Identifier:
		sym, ok := scope.lookup(n.Text)
		if !ok {
			a.diags.Add(n.Line, n.Column, "undeclared identifier: %s", n.Text)
			return TypeUnknown
		}
		if sym.IsFunction {
			a.diags.Add(n.Line, n.Column, "function used as value: %s", n.Text)
			return TypeUnknown
		}
		return sym.Type
	case ast.Unary:
		return a.checkExpr(n.Child(0), scope, fr)
	case ast.Binary:
		return a.checkBinary(n, scope, fr)
	case ast.Assign:
		return a.checkAssign(n, scope, fr)
	case ast.CommaExpr:
		a.checkExpr(n.Child(0), scope, fr)
		return a.checkExpr(n.Child(1), scope, fr)
	case ast.Call:
		return a.checkCall(n, scope, fr)
	case ast.Index:
		return a.checkIndex(n, scope, fr)
	default:
		a.diags.Add(n.Line, n.Column, "invalid expression")
		return TypeUnknown
	}
}

func isNumeric(t Type) bool {
	return t == TypeInt || t == TypeChar || t == TypeDouble
}

func (a *analyzer) checkBinary(n *ast.Node, scope *Scope, fr *frame) Type {
	lhs := a.checkExpr(n.Child(0), scope, fr)
	rhs := a.checkExpr(n.Child(1), scope, fr)
	if lhs == TypeUnknown || rhs == TypeUnknown {
		return TypeUnknown
	}
	op := n.Text
	switch op {
	case "+", "-", "*", "/", "%":
		if op == "+" && lhs == TypeString && rhs == TypeString {
			return TypeString
		}
		if isNumeric(lhs) && isNumeric(rhs) {
			if lhs == TypeDouble || rhs == TypeDouble {
				return TypeDouble
			}
			return TypeInt
		}
	case "<", "<=", ">", ">=":
		if isNumeric(lhs) && isNumeric(rhs) {
			return TypeInt
		}
	case "==", "!=":
		if isNumeric(lhs) && isNumeric(rhs) {
			return TypeInt
		}
		if lhs == TypeString && rhs == TypeString {
			return TypeInt
		}
	}
	a.diags.Add(n.Line, n.Column, "invalid operand types for '%s'", op)
	return TypeUnknown
}

func (a *analyzer) checkAssign(n *ast.Node, scope *Scope, fr *frame) Type {
	lhs, rhs := n.Child(0), n.Child(1)
	if lhs.Kind != ast.Identifier && lhs.Kind != ast.Index {
		a.diags.Add(lhs.Line, lhs.Column, "assignment target must be a variable or index expression")
	}
	lhsType := a.checkExpr(lhs, scope, fr)
	rhsType := a.checkExpr(rhs, scope, fr)
	if lhsType == TypeUnknown || rhsType == TypeUnknown {
		return lhsType
	}
	if lhsType == rhsType || (lhsType == TypeDouble && rhsType == TypeInt) {
		return lhsType
	}
	a.diags.Add(n.Line, n.Column, "Assignment type mismatch")
	return TypeUnknown
}

func (a *analyzer) checkIndex(n *ast.Node, scope *Scope, fr *frame) Type {
	base, idx := n.Child(0), n.Child(1)
	idxType := a.checkExpr(idx, scope, fr)
	if idxType != TypeUnknown && idxType != TypeInt {
		a.diags.Add(idx.Line, idx.Column, "array index must be int")
	}
	if base.Kind == ast.Identifier {
		sym, ok := scope.lookup(base.Text)
		if !ok {
			a.diags.Add(base.Line, base.Column, "undeclared identifier: %s", base.Text)
			return TypeUnknown
		}
		if !sym.IsArray {
			a.diags.Add(base.Line, base.Column, "indexing non-array variable: %s", base.Text)
			return TypeUnknown
		}
		return sym.Type
	}
	return a.checkExpr(base, scope, fr)
}

func (a *analyzer) checkCall(n *ast.Node, scope *Scope, fr *frame) Type {
	callee := n.Child(0)
	if callee.Kind != ast.Identifier {
		a.diags.Add(n.Line, n.Column, "call target must be an identifier")
		return TypeUnknown
	}
	sym, ok := scope.lookup(callee.Text)
	if !ok {
		a.diags.Add(callee.Line, callee.Column, "undeclared function: %s", callee.Text)
		return TypeUnknown
	}
	if !sym.IsFunction {
		a.diags.Add(callee.Line, callee.Column, "%s is not a function", callee.Text)
		return TypeUnknown
	}

	args := flattenArgs(n.Children[1:])
	argTypes := make([]Type, len(args))
	for i, arg := range args {
		argTypes[i] = a.checkExpr(arg, scope, fr)
	}

	if len(args) != len(sym.ParamTypes) {
		a.diags.Add(n.Line, n.Column, "argument count mismatch for %s: expected %d, got %d", callee.Text, len(sym.ParamTypes), len(args))
		return sym.Type
	}
	for i, at := range argTypes {
		want := sym.ParamTypes[i]
		if at == TypeUnknown || at == want || (want == TypeDouble && at == TypeInt) {
			continue
		}
		a.diags.Add(args[i].Line, args[i].Column, "argument %d type mismatch for %s", i+1, callee.Text)
	}
	return sym.Type
}

// flattenArgs expands any CommaExpr among children left-to-right. The
// parser already produces a flat argument list, so this is a no-op on
// its output; it exists so a grammar that nests arguments in a
// CommaExpr would still type-check correctly.
func flattenArgs(children []*ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, c := range children {
		out = append(out, flattenOne(c)...)
	}
	return out
}

func flattenOne(n *ast.Node) []*ast.Node {
	if n.Kind == ast.CommaExpr {
		return append(flattenOne(n.Child(0)), flattenOne(n.Child(1))...)
	}
	return []*ast.Node{n}
}
