package check

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

func (c *checker) checkInstr(env types.Env, s ast.Stmt) error {
	switch s := s.(type) {
	case ast.Block:
		if err := checkReservedNames(s.Vars, "local variable"); err != nil {
			return err
		}
		inner := env.BindParams(s.Vars)
		for _, sub := range s.Body {
			if err := c.checkInstr(inner, sub); err != nil {
				return err
			}
		}
		return nil

	case ast.Assign:
		return c.checkAssign(env, s)

	case ast.Ite:
		if err := c.checkExpr(env, s.Cond); err != nil {
			return err
		}
		if t := c.ix.ExprType(env, s.Cond); t != types.Integer {
			return errf(ConditionNotInteger, "condition has type %s, expected Integer", t)
		}
		if err := c.checkInstr(env, s.Then); err != nil {
			return err
		}
		return c.checkInstr(env, s.Else)

	case ast.ExprStmt:
		return c.checkExpr(env, s.Expr)

	case ast.Return:
		return nil
	}
	panic("check: unhandled statement")
}

func (c *checker) checkAssign(env types.Env, s ast.Assign) error {
	if err := c.checkExpr(env, s.LHS); err != nil {
		return err
	}
	if err := c.checkExpr(env, s.RHS); err != nil {
		return err
	}
	switch lhs := s.LHS.(type) {
	case ast.Id:
		if lhs.Name == idThis || lhs.Name == idSuper {
			return errf(AssignToReserved, "cannot assign to %s", lhs.Name)
		}
	case ast.Attr, ast.StaticAttr:
	default:
		return errf(AssignToNonLValue, "left side of assignment is not assignable")
	}
	lt := c.ix.ExprType(env, s.LHS)
	rt := c.ix.ExprType(env, s.RHS)
	if isVoid(lt) || isVoid(rt) {
		return errf(AssignVoid, "assignment involves an expression with no value")
	}
	if !c.compatible(rt, lt) {
		return errf(TypeMismatch, "cannot assign a %s to a %s", rt, lt)
	}
	return nil
}

func (c *checker) checkExpr(env types.Env, e ast.Expr) error {
	switch e := e.(type) {
	case ast.Cste, ast.StringLit:
		return nil

	case ast.Id:
		if _, ok := env.Lookup(e.Name); !ok {
			if e.Name == idSuper {
				return errf(SuperMissing, "super used in a class with no superclass")
			}
			return errf(UnknownIdentifier, "unknown identifier %s", e.Name)
		}
		return nil

	case ast.UMinus:
		return c.checkExpr(env, e.Arg)

	case ast.BinOp:
		if err := c.checkExpr(env, e.Left); err != nil {
			return err
		}
		if err := c.checkExpr(env, e.Right); err != nil {
			return err
		}
		lt := c.ix.ExprType(env, e.Left)
		rt := c.ix.ExprType(env, e.Right)
		if lt != types.Integer || rt != types.Integer {
			return errf(OperandsNotInteger, "operands of %s must be Integer, got %s and %s",
				e.Op, lt, rt)
		}
		return nil

	case ast.StrCat:
		if err := c.checkExpr(env, e.Left); err != nil {
			return err
		}
		if err := c.checkExpr(env, e.Right); err != nil {
			return err
		}
		lt := c.ix.ExprType(env, e.Left)
		rt := c.ix.ExprType(env, e.Right)
		if lt != types.String || rt != types.String {
			return errf(OperandsNotString, "operands of & must be String, got %s and %s", lt, rt)
		}
		return nil

	case ast.Attr:
		if err := c.checkExpr(env, e.Target); err != nil {
			return err
		}
		t := c.ix.ExprType(env, e.Target)
		if isVoid(t) {
			return errf(TypeMismatch, "attribute %s accessed on an expression with no value", e.Name)
		}
		if types.IsBuiltin(t) {
			return errf(UnknownAttribute, "%s has no attribute %s", t, e.Name)
		}
		decl := c.ix.LookupClass(t)
		if decl == nil {
			return errf(UnknownClass, "unknown class %s", t)
		}
		if c.ix.FindInstAttr(e.Name, decl) == nil {
			return errf(UnknownAttribute, "class %s has no attribute %s", t, e.Name)
		}
		return nil

	case ast.StaticAttr:
		decl := c.ix.LookupClass(e.Class)
		if decl == nil {
			return errf(UnknownClass, "unknown class %s", e.Class)
		}
		if c.ix.StaticAttr(e.Name, decl) == nil {
			return errf(UnknownStaticAttribute,
				"class %s has no static attribute %s", e.Class, e.Name)
		}
		return nil

	case ast.Call:
		return c.checkCall(env, e)

	case ast.StaticCall:
		decl := c.ix.LookupClass(e.Class)
		if decl == nil {
			return errf(UnknownClass, "unknown class %s", e.Class)
		}
		meth := c.ix.StaticMethod(e.Method, decl)
		if meth == nil {
			return errf(UnknownStaticMethod,
				"class %s has no static method %s", e.Class, e.Method)
		}
		return c.checkArgs(env, e.Args, meth.Params, TypeMismatch,
			"call to "+e.Class+"."+e.Method)

	case ast.New:
		decl := c.ix.LookupClass(e.Class)
		if decl == nil {
			return errf(UnknownClass, "unknown class %s", e.Class)
		}
		return c.checkArgs(env, e.Args, decl.Ctor.Params, CtorArgMismatch,
			"constructor of "+e.Class)

	case ast.StaticCast:
		if c.ix.LookupClass(e.Class) == nil {
			return errf(UnknownClass, "unknown class %s", e.Class)
		}
		if err := c.checkExpr(env, e.Arg); err != nil {
			return err
		}
		t := c.ix.ExprType(env, e.Arg)
		if t == e.Class {
			return nil
		}
		if isVoid(t) || types.IsBuiltin(t) || c.ix.LookupClass(t) == nil || !c.ix.IsBase(t, e.Class) {
			return errf(CastNotUpCast, "cannot cast a %s to %s: only up-casts are allowed", t, e.Class)
		}
		return nil
	}
	panic("check: unhandled expression")
}

// checkCall checks a dynamically dispatched call, including the builtin
// methods of Integer and String.
func (c *checker) checkCall(env types.Env, e ast.Call) error {
	if err := c.checkExpr(env, e.Target); err != nil {
		return err
	}
	t := c.ix.ExprType(env, e.Target)
	if isVoid(t) {
		return errf(TypeMismatch, "method %s called on an expression with no value", e.Method)
	}
	if types.IsBuiltin(t) {
		return c.checkBuiltinCall(t, e)
	}
	decl := c.ix.LookupClass(t)
	if decl == nil {
		return errf(UnknownClass, "unknown class %s", t)
	}
	meth, _ := c.ix.FindMethod(e.Method, decl)
	if meth == nil {
		return errf(UnknownMethod, "class %s has no method %s", t, e.Method)
	}
	return c.checkArgs(env, e.Args, meth.Params, TypeMismatch, "call to "+t+"."+e.Method)
}

// Builtins: String.print(), String.println(), Integer.toString(), all nullary.
func (c *checker) checkBuiltinCall(recv string, e ast.Call) error {
	known := map[string][]string{
		types.Integer: {"toString"},
		types.String:  {"print", "println"},
	}
	for _, m := range known[recv] {
		if e.Method == m {
			if len(e.Args) != 0 {
				return errf(BuiltinArityMismatch,
					"%s.%s takes no arguments, got %d", recv, e.Method, len(e.Args))
			}
			return nil
		}
	}
	return errf(UnknownMethod, "%s has no method %s", recv, e.Method)
}

func (c *checker) checkArgs(env types.Env, args []ast.Expr, params []ast.Param,
	cat Category, where string) error {
	if len(args) != len(params) {
		return errf(cat, "%s expects %d arguments, got %d", where, len(params), len(args))
	}
	for i, arg := range args {
		if err := c.checkExpr(env, arg); err != nil {
			return err
		}
		at := c.ix.ExprType(env, arg)
		if !c.compatible(at, params[i].Class) {
			return errf(cat, "%s: argument %s has type %s, expected %s",
				where, params[i].Name, at, params[i].Class)
		}
	}
	return nil
}
