// Package check implements the contextual checker: name resolution,
// inheritance well-formedness, type checking, override discipline, and
// definite assignment of method results. Checking is fail-fast: the first
// violation is returned as a *ContextualError and nothing is emitted.
package check

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

// Reserved identifiers, never usable for parameters, locals, or attributes.
const (
	idThis   = "this"
	idSuper  = "super"
	idResult = "result"
)

type checker struct {
	ix *types.Index
}

// All verifies the whole program. On success the AST satisfies every
// invariant the code generator relies on.
func All(prog *ast.Program) error {
	c := &checker{ix: types.NewIndex(prog)}
	if err := c.checkNoReservedClass(); err != nil {
		return err
	}
	if err := c.checkNoDupClass(); err != nil {
		return err
	}
	if err := c.checkNoCycles(); err != nil {
		return err
	}
	for _, d := range c.ix.Decls {
		if err := c.checkDecl(d); err != nil {
			return err
		}
	}
	return c.checkInstr(types.NewEnv(), prog.Instr)
}

func (c *checker) checkNoReservedClass() error {
	for _, d := range c.ix.Decls {
		if types.IsBuiltin(d.Name) {
			return errf(ReservedClassName, "class name %s is reserved", d.Name)
		}
	}
	return nil
}

func (c *checker) checkNoDupClass() error {
	seen := map[string]bool{}
	for _, d := range c.ix.Decls {
		if seen[d.Name] {
			return errf(DuplicateClass, "class %s is declared twice", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// checkNoCycles walks each inheritance chain keeping the path seen so far.
// It also establishes that every named superclass is declared, which the
// rest of the checker relies on.
func (c *checker) checkNoCycles() error {
	for _, d := range c.ix.Decls {
		path := []string{d.Name}
		for d.Super != nil {
			super := d.Super.Name
			for _, seen := range path {
				if seen == super {
					return errf(InheritanceCycle,
						"inheritance cycle through %s and %s", seen, d.Name)
				}
			}
			next := c.ix.LookupClass(super)
			if next == nil {
				return errf(UnknownClass, "class %s extends unknown class %s", d.Name, super)
			}
			path = append(path, super)
			d = next
		}
	}
	return nil
}

func (c *checker) checkDecl(d *ast.ClassDecl) error {
	if err := checkReservedNames(d.InstAttrs, "attribute of class "+d.Name); err != nil {
		return err
	}
	if err := checkReservedNames(d.StaticAttrs, "static attribute of class "+d.Name); err != nil {
		return err
	}
	if err := c.checkCtor(d); err != nil {
		return err
	}
	if err := c.checkOverrides(d); err != nil {
		return err
	}
	if err := checkNoDupMembers(d); err != nil {
		return err
	}
	for i := range d.InstMethods {
		if err := c.checkMethod(d, &d.InstMethods[i], false); err != nil {
			return err
		}
	}
	for i := range d.StaticMethods {
		if err := c.checkMethod(d, &d.StaticMethods[i], true); err != nil {
			return err
		}
	}
	return nil
}

func checkReservedNames(params []ast.Param, where string) error {
	for _, p := range params {
		switch p.Name {
		case idThis, idSuper, idResult:
			return errf(ReservedName, "%s is a reserved name (%s)", p.Name, where)
		}
	}
	return nil
}

func checkNoDupMembers(d *ast.ClassDecl) error {
	kinds := []struct {
		what  string
		names []string
	}{
		{"instance method", methodNames(d.InstMethods)},
		{"static method", methodNames(d.StaticMethods)},
		{"attribute", paramNames(d.InstAttrs)},
		{"static attribute", paramNames(d.StaticAttrs)},
	}
	for _, k := range kinds {
		seen := map[string]bool{}
		for _, n := range k.names {
			if seen[n] {
				return errf(DuplicateMember, "duplicate %s %s in class %s", k.what, n, d.Name)
			}
			seen[n] = true
		}
	}
	return nil
}

func methodNames(ms []ast.MethodDecl) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func paramNames(ps []ast.Param) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// classEnv seeds an environment with the implicit bindings of a class body:
// this, and super when the class is derived.
func classEnv(d *ast.ClassDecl) types.Env {
	env := types.NewEnv().Bind(idThis, d.Name)
	if d.Super != nil {
		env = env.Bind(idSuper, d.Super.Name)
	}
	return env
}

func (c *checker) checkCtor(d *ast.ClassDecl) error {
	ctor := &d.Ctor
	if ctor.Name != d.Name {
		return errf(CtorNameMismatch,
			"constructor of class %s is named %s", d.Name, ctor.Name)
	}
	if err := checkReservedNames(ctor.Params, "constructor of class "+d.Name); err != nil {
		return err
	}
	env := classEnv(d).BindParams(ctor.Params)
	if d.Super != nil {
		super := c.ix.LookupClass(d.Super.Name)
		if super == nil {
			return errf(UnknownClass, "class %s extends unknown class %s", d.Name, d.Super.Name)
		}
		if err := c.checkArgs(env, d.Super.Args, super.Ctor.Params, CtorArgMismatch,
			"super call in constructor of "+d.Name); err != nil {
			return err
		}
	}
	return c.checkInstr(env, ctor.Body)
}

// checkOverrides enforces the override discipline: a method shadowing an
// ancestor method must be marked override and keep the exact parameter
// classes; a method marked override must shadow something.
func (c *checker) checkOverrides(d *ast.ClassDecl) error {
	if d.Super == nil {
		for i := range d.InstMethods {
			if d.InstMethods[i].Override {
				return errf(OverrideMissing,
					"method %s of base class %s overrides nothing",
					d.InstMethods[i].Name, d.Name)
			}
		}
		return nil
	}
	super := c.ix.Class(d.Super.Name)
	for i := range d.InstMethods {
		m := &d.InstMethods[i]
		base, _ := c.ix.FindMethod(m.Name, super)
		if base == nil {
			if m.Override {
				return errf(OverrideMissing,
					"method %s of class %s overrides nothing", m.Name, d.Name)
			}
			continue
		}
		if !m.Override {
			return errf(OverrideRequired,
				"method %s of class %s shadows an inherited method and must be marked override",
				m.Name, d.Name)
		}
		if len(m.Params) != len(base.Params) {
			return errf(OverrideSignatureMismatch,
				"override %s of class %s takes %d parameters, inherited method takes %d",
				m.Name, d.Name, len(m.Params), len(base.Params))
		}
		for j := range m.Params {
			if m.Params[j].Class != base.Params[j].Class {
				return errf(OverrideSignatureMismatch,
					"override %s of class %s changes the class of parameter %s from %s to %s",
					m.Name, d.Name, m.Params[j].Name,
					base.Params[j].Class, m.Params[j].Class)
			}
		}
	}
	return nil
}

func (c *checker) checkMethod(d *ast.ClassDecl, m *ast.MethodDecl, static bool) error {
	where := "method " + m.Name + " of class " + d.Name
	if err := checkReservedNames(m.Params, where); err != nil {
		return err
	}
	var env types.Env
	if static {
		env = types.NewEnv().BindParams(m.Params)
	} else {
		env = classEnv(d).BindParams(m.Params)
	}
	if m.RetType != "" {
		env = env.Bind(idResult, m.RetType)
	}
	if err := c.checkInstr(env, m.Body); err != nil {
		return err
	}
	if m.RetType != "" && !satisfied(m.Body) {
		return errf(MissingReturnPath,
			"%s declares result type %s but some path neither assigns result nor returns",
			where, m.RetType)
	}
	return nil
}

// compatible reports whether a value of type from may flow into a slot of
// type to. Builtins are compatible only with themselves; _Void with nothing.
func (c *checker) compatible(from, to string) bool {
	if from == to {
		return !isVoid(from)
	}
	if isVoid(from) || isVoid(to) || types.IsBuiltin(from) || types.IsBuiltin(to) {
		return false
	}
	if c.ix.LookupClass(from) == nil || c.ix.LookupClass(to) == nil {
		return false
	}
	return c.ix.IsBase(from, to)
}

func isVoid(t string) bool {
	return t == types.Void
}
