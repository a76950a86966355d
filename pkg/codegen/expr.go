package codegen

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/layout"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

func (g *generator) typeOf(e ast.Expr) string {
	return g.ix.ExprType(g.env, e)
}

// expr emits an expression. Stack effect is +1 value.
func (g *generator) expr(e ast.Expr) {
	switch e := e.(type) {
	case ast.Id:
		// super denotes the current instance viewed as its superclass;
		// it shares this's slot.
		if e.Name == "super" {
			g.e.Pushl(g.addrs["this"])
			return
		}
		g.e.Pushl(g.addrs[e.Name])

	case ast.Cste:
		g.e.Pushi(e.Value)

	case ast.StringLit:
		g.e.Pushs(e.Text)

	case ast.UMinus:
		g.e.Pushi(0)
		g.expr(e.Arg)
		g.e.Sub()

	case ast.BinOp:
		g.expr(e.Left)
		g.expr(e.Right)
		g.binop(e.Op)

	case ast.StrCat:
		g.expr(e.Left)
		g.expr(e.Right)
		g.e.Concat()

	case ast.Attr:
		// For a super target this resolves the offset in the superclass
		// and loads from this's object.
		g.expr(e.Target)
		g.e.Load(layout.AttrOffset(g.ix, g.typeOf(e.Target), e.Name))

	case ast.StaticAttr:
		g.e.Pushg(layout.StaticAttrOffset(g.ix, e.Class, e.Name))

	case ast.Call:
		g.call(e)

	case ast.StaticCall:
		g.e.Pushi(0)
		for _, a := range e.Args {
			g.expr(a)
		}
		g.e.Pusha(layout.MethodLabel(e.Class, e.Method))
		g.e.Call()
		g.e.Popn(len(e.Args))

	case ast.New:
		g.e.Alloc(len(layout.AllAttrs(g.ix, g.ix.Class(e.Class))) + 1)
		g.e.Dupn(1)
		g.e.Pushg(layout.VtableGlobal(g.ix, e.Class))
		g.e.Store(0)
		for _, a := range e.Args {
			g.expr(a)
		}
		g.e.Pusha(layout.CtorLabel(e.Class))
		g.e.Call()
		g.e.Popn(len(e.Args))

	case ast.StaticCast:
		// Up-casts are type-only; no runtime check needed.
		g.expr(e.Arg)

	default:
		panic("codegen: unhandled expression")
	}
}

func (g *generator) binop(op ast.Op) {
	switch op {
	case ast.Eq:
		g.e.Equal()
	case ast.Neq:
		g.e.Equal()
		g.e.Not()
	case ast.Lt:
		g.e.Inf()
	case ast.Le:
		g.e.Infeq()
	case ast.Gt:
		g.e.Sup()
	case ast.Ge:
		g.e.Supeq()
	case ast.Add:
		g.e.Add()
	case ast.Sub:
		g.e.Sub()
	case ast.Mul:
		g.e.Mul()
	case ast.Div:
		g.e.Div()
	default:
		panic("codegen: unhandled operator")
	}
}

// call emits a dynamically dispatched call: builtins inline, super calls
// as a direct call to the inherited implementation, everything else
// through the receiver's vtable.
func (g *generator) call(e ast.Call) {
	switch g.typeOf(e.Target) {
	case types.Integer:
		// Integer.toString()
		g.expr(e.Target)
		g.e.Str()
		return
	case types.String:
		// String.print() / String.println(): the string stays on the
		// stack as the expression's value, WRITES consumes the copy.
		g.expr(e.Target)
		g.e.Dupn(1)
		g.e.Writes()
		if e.Method == "println" {
			g.e.Pushs("\n")
			g.e.Writes()
		}
		return
	}

	if id, ok := e.Target.(ast.Id); ok && id.Name == "super" {
		g.superCall(e)
		return
	}

	g.e.Pushi(0) // result slot
	for _, a := range e.Args {
		g.expr(a)
	}
	g.expr(e.Target)
	g.e.Dupn(1)
	g.e.Load(0) // vtable pointer
	vt := layout.Make(g.ix, g.ix.Class(g.typeOf(e.Target)))
	g.e.Load(vt.Offset(e.Method)) // code address
	g.e.Call()
	g.e.Popn(len(e.Args) + 1)
}

// superCall dispatches statically to the implementation visible from the
// superclass, bypassing the vtable.
func (g *generator) superCall(e ast.Call) {
	superName, _ := g.env.Lookup("super")
	_, owner := g.ix.FindMethod(e.Method, g.ix.Class(superName))
	g.e.Pushi(0)
	for _, a := range e.Args {
		g.expr(a)
	}
	g.e.Pushl(g.addrs["this"])
	g.e.Pusha(layout.MethodLabel(owner.Name, e.Method))
	g.e.Call()
	g.e.Popn(len(e.Args) + 1)
}
