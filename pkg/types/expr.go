package types

import "github.com/OopsOverflow/turbo-katana/pkg/ast"

// ExprType returns the type name of an expression: a class name, Integer,
// String, or Void for an expression producing no value. It assumes the
// expression has already passed the contextual checker; lookups that can
// only fail on an unchecked tree panic.
func (ix *Index) ExprType(env Env, e ast.Expr) string {
	switch e := e.(type) {
	case ast.Cste, ast.BinOp, ast.UMinus:
		return Integer
	case ast.StringLit, ast.StrCat:
		return String
	case ast.Id:
		t, ok := env.Lookup(e.Name)
		if !ok {
			panic("types: unbound identifier " + e.Name)
		}
		return t
	case ast.Attr:
		owner := ix.ExprType(env, e.Target)
		attr := ix.FindInstAttr(e.Name, ix.Class(owner))
		if attr == nil {
			panic("types: unknown attribute " + e.Name)
		}
		return attr.Class
	case ast.StaticAttr:
		attr := ix.StaticAttr(e.Name, ix.Class(e.Class))
		if attr == nil {
			panic("types: unknown static attribute " + e.Name)
		}
		return attr.Class
	case ast.Call:
		recv := ix.ExprType(env, e.Target)
		switch recv {
		case Integer:
			// Integer.toString()
			return String
		case String:
			// String.print() and String.println() evaluate to the string.
			return String
		}
		meth, _ := ix.FindMethod(e.Method, ix.Class(recv))
		if meth == nil {
			panic("types: unknown method " + e.Method)
		}
		return retType(meth)
	case ast.StaticCall:
		meth := ix.StaticMethod(e.Method, ix.Class(e.Class))
		if meth == nil {
			panic("types: unknown static method " + e.Method)
		}
		return retType(meth)
	case ast.New:
		return e.Class
	case ast.StaticCast:
		return e.Class
	}
	panic("types: unhandled expression")
}

func retType(m *ast.MethodDecl) string {
	if m.RetType == "" {
		return Void
	}
	return m.RetType
}
