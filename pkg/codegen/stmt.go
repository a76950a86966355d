package codegen

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/layout"
)

// stmt emits a statement. Net stack effect is zero.
func (g *generator) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case ast.Block:
		g.block(s)
	case ast.Assign:
		g.assign(s)
	case ast.Ite:
		g.ite(s)
	case ast.Return:
		g.e.Return()
	case ast.ExprStmt:
		g.expr(s.Expr)
		g.e.Popn(1)
	default:
		panic("codegen: unhandled statement")
	}
}

func (g *generator) block(s ast.Block) {
	savedAddrs, savedEnv, savedNext := g.addrs, g.env, g.next
	g.addrs = g.addrs.clone()
	for _, v := range s.Vars {
		g.addrs[v.Name] = g.next
		g.next++
	}
	g.env = g.env.BindParams(s.Vars)

	if len(s.Vars) > 0 {
		g.e.Pushn(len(s.Vars))
	}
	for _, sub := range s.Body {
		g.stmt(sub)
	}
	if len(s.Vars) > 0 {
		g.e.Popn(len(s.Vars))
	}

	g.addrs, g.env, g.next = savedAddrs, savedEnv, savedNext
}

func (g *generator) assign(s ast.Assign) {
	switch lhs := s.LHS.(type) {
	case ast.Id:
		g.expr(s.RHS)
		g.e.Storel(g.addrs[lhs.Name])
	case ast.Attr:
		g.expr(lhs.Target)
		g.expr(s.RHS)
		g.e.Store(layout.AttrOffset(g.ix, g.typeOf(lhs.Target), lhs.Name))
	case ast.StaticAttr:
		g.expr(s.RHS)
		g.e.Storeg(layout.StaticAttrOffset(g.ix, lhs.Class, lhs.Name))
	default:
		panic("codegen: assignment to non-lvalue")
	}
}

func (g *generator) ite(s ast.Ite) {
	lElse := g.e.Fresh()
	lEnd := g.e.Fresh()
	g.expr(s.Cond)
	g.e.Jz(lElse)
	g.stmt(s.Then)
	g.e.Jump(lEnd)
	g.e.Label(lElse)
	g.stmt(s.Else)
	g.e.Label(lEnd)
}
