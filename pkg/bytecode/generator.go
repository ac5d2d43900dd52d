package bytecode

import (
	"fmt"
	"strings"

	"github.com/vsvsvsvsvsvs/polizvm/pkg/ast"
)

// Generator lowers an AST into a flat Instruction list. Labels are
// "L%d" names from a counter reset per Generate call; break/continue
// targets are tracked as per-loop-nesting-level stacks.
type Generator struct {
	code          []Instruction
	labelCounter  int
	breakStack    []string
	continueStack []string
}

// Generate lowers program and returns the emitted instruction list.
func Generate(program *ast.Node) []Instruction {
	g := &Generator{}
	for _, child := range program.Children {
		if child.Kind == ast.Function {
			g.lowerFunction(child)
		} else {
			g.lowerStmt(child)
		}
	}
	return g.code
}

func (g *Generator) newLabel() string {
	l := fmt.Sprintf("L%d", g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) emit(op Op, arg string) {
	g.code = append(g.code, Instruction{Op: op, Arg: arg})
}

func (g *Generator) emitLabel(name string) {
	g.emit(Label, name)
}

func (g *Generator) lastOp() (Op, bool) {
	if len(g.code) == 0 {
		return 0, false
	}
	return g.code[len(g.code)-1].Op, true
}

func (g *Generator) lowerFunction(fn *ast.Node) {
	g.emitLabel(fn.Text)
	n := len(fn.Children)
	args := fn.Children[1 : n-1]
	for i := len(args) - 1; i >= 0; i-- {
		g.emit(Store, args[i].Text)
	}
	body := fn.Children[n-1]
	for _, stmt := range body.Children {
		g.lowerStmt(stmt)
	}
	if op, ok := g.lastOp(); !ok || op != Ret {
		g.emit(Ret, "")
	}
}

func (g *Generator) lowerStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Block:
		for _, s := range n.Children {
			g.lowerStmt(s)
		}
	case ast.VarDeclList:
		g.lowerVarDeclList(n)
	case ast.ExprStmt:
		g.lowerExprStmt(n.Child(0))
	case ast.If:
		g.lowerIf(n)
	case ast.While:
		g.lowerWhile(n)
	case ast.DoWhile:
		g.lowerDoWhile(n)
	case ast.For:
		g.lowerFor(n)
	case ast.Break:
		if len(g.breakStack) > 0 {
			g.emit(Jmp, g.breakStack[len(g.breakStack)-1])
		}
	case ast.Continue:
		if len(g.continueStack) > 0 {
			g.emit(Jmp, g.continueStack[len(g.continueStack)-1])
		}
	case ast.Return:
		g.lowerReturn(n)
	default:
		g.lowerExprStmt(n)
	}
}

func (g *Generator) lowerExprStmt(expr *ast.Node) {
	g.lowerExpr(expr)
	if expr.Kind != ast.Call && expr.Kind != ast.Assign {
		g.emit(Pop, "")
	}
}

func (g *Generator) lowerVarDeclList(n *ast.Node) {
	for _, decl := range n.Children[1:] {
		g.lowerVarDecl(decl)
	}
}

func (g *Generator) lowerVarDecl(decl *ast.Node) {
	if decl.IsArray {
		var sizeExpr *ast.Node
		if len(decl.Children) > 0 {
			sizeExpr = decl.Children[len(decl.Children)-1]
		}
		if sizeExpr != nil {
			g.lowerExpr(sizeExpr)
		} else {
			g.emit(PushInt, "0")
		}
		g.emit(NewArray, "")
		g.emit(Store, decl.Text)
		return
	}
	var initExpr *ast.Node
	if len(decl.Children) > 0 {
		initExpr = decl.Children[0]
	}
	if initExpr != nil {
		g.lowerExpr(initExpr)
	} else {
		g.emit(PushInt, "0")
	}
	g.emit(Store, decl.Text)
}

func (g *Generator) lowerIf(n *ast.Node) {
	lEnd := g.newLabel()

	cond, thenBlock := n.Child(0), n.Child(1)
	g.lowerExpr(cond)
	lNext := g.newLabel()
	g.emit(Jz, lNext)
	g.lowerStmt(thenBlock)
	g.emit(Jmp, lEnd)
	g.emitLabel(lNext)

	for _, c := range n.Children[2:] {
		if c.Kind == ast.ElseIf {
			g.lowerExpr(c.Child(0))
			lNextN := g.newLabel()
			g.emit(Jz, lNextN)
			g.lowerStmt(c.Child(1))
			g.emit(Jmp, lEnd)
			g.emitLabel(lNextN)
		} else {
			g.lowerStmt(c)
		}
	}
	g.emitLabel(lEnd)
}

func (g *Generator) lowerWhile(n *ast.Node) {
	lStart, lEnd := g.newLabel(), g.newLabel()
	g.emitLabel(lStart)
	g.lowerExpr(n.Child(0))
	g.emit(Jz, lEnd)

	g.pushLoop(lEnd, lStart)
	g.lowerStmt(n.Child(1))
	g.popLoop()

	g.emit(Jmp, lStart)
	g.emitLabel(lEnd)
}

func (g *Generator) lowerDoWhile(n *ast.Node) {
	lStart, lEnd := g.newLabel(), g.newLabel()
	g.emitLabel(lStart)

	g.pushLoop(lEnd, lStart)
	g.lowerStmt(n.Child(0))
	g.popLoop()

	g.lowerExpr(n.Child(1))
	g.emit(Jz, lEnd)
	g.emit(Jmp, lStart)
	g.emitLabel(lEnd)
}

func (g *Generator) lowerFor(n *ast.Node) {
	init, cond, step, body := n.Child(0), n.Child(1), n.Child(2), n.Child(3)
	if init != nil {
		if init.Kind == ast.VarDeclList {
			g.lowerVarDeclList(init)
		} else {
			g.lowerExprStmt(init)
		}
	}

	lStart, lStep, lEnd := g.newLabel(), g.newLabel(), g.newLabel()
	g.emitLabel(lStart)
	if cond != nil {
		g.lowerExpr(cond)
		g.emit(Jz, lEnd)
	}

	g.pushLoop(lEnd, lStep)
	if body != nil {
		g.lowerStmt(body)
	}
	g.popLoop()

	g.emitLabel(lStep)
	if step != nil {
		g.lowerExpr(step)
		if step.Kind != ast.Call && step.Kind != ast.Assign {
			g.emit(Pop, "")
		}
	}
	g.emit(Jmp, lStart)
	g.emitLabel(lEnd)
}

func (g *Generator) pushLoop(breakLabel, continueLabel string) {
	g.breakStack = append(g.breakStack, breakLabel)
	g.continueStack = append(g.continueStack, continueLabel)
}

func (g *Generator) popLoop() {
	g.breakStack = g.breakStack[:len(g.breakStack)-1]
	g.continueStack = g.continueStack[:len(g.continueStack)-1]
}

func (g *Generator) lowerReturn(n *ast.Node) {
	if len(n.Children) > 0 {
		g.lowerExpr(n.Children[0])
	}
	g.emit(Ret, "")
}

// lowerExpr emits post-order: operands first, operator last.
func (g *Generator) lowerExpr(n *ast.Node) {
	switch n.Kind {
	case ast.Number:
		if strings.ContainsAny(n.Text, ".eE") {
			g.emit(PushDouble, n.Text)
		} else {
			g.emit(PushInt, n.Text)
		}
	case ast.String:
		g.emit(PushString, n.Text)
	case ast.Identifier:
		g.emit(Load, n.Text)
	case ast.Unary:
		g.lowerExpr(n.Child(0))
		switch n.Text {
		case "-":
			g.emit(Neg, "")
		case "!":
			g.emit(Not, "")
		}
	case ast.Binary:
		g.lowerExpr(n.Child(0))
		g.lowerExpr(n.Child(1))
		g.emit(binaryOp(n.Text), "")
	case ast.Assign:
		g.lowerAssign(n)
	case ast.CommaExpr:
		g.lowerExpr(n.Child(0))
		g.lowerExpr(n.Child(1))
	case ast.Call:
		for _, arg := range n.Children[1:] {
			g.lowerExpr(arg)
		}
		g.emit(Call, n.Child(0).Text)
	case ast.Index:
		g.lowerExpr(n.Child(0))
		g.lowerExpr(n.Child(1))
		g.emit(LoadIndex, "")
	}
}

func (g *Generator) lowerAssign(n *ast.Node) {
	lhs, rhs := n.Child(0), n.Child(1)
	switch lhs.Kind {
	case ast.Identifier:
		g.lowerExpr(rhs)
		g.emit(Store, lhs.Text)
	case ast.Index:
		base, idx := lhs.Child(0), lhs.Child(1)
		g.lowerExpr(rhs)
		g.lowerExpr(idx)
		g.emit(StoreIndex, base.Text)
	}
}

func binaryOp(opText string) Op {
	switch opText {
	case "+":
		return Add
	case "-":
		return Sub
	case "*":
		return Mul
	case "/":
		return Div
	case "%":
		return Mod
	case "==":
		return Eq
	case "!=":
		return Neq
	case "<":
		return Lt
	case ">":
		return Gt
	case "<=":
		return Le
	case ">=":
		return Ge
	default:
		return Add
	}
}
