// Package types provides the typed view of a program's classes shared by
// the contextual checker and the code generator: class lookup through
// inheritance, identifier environments, and expression typing.
package types

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
)

// Builtin type names and the pseudo-type of valueless expressions.
// Integer and String have no ClassDecl; they exist only in the type system.
const (
	Integer = "Integer"
	String  = "String"
	Void    = "_Void"
)

// IsBuiltin reports whether name is one of the builtin pseudo-classes.
func IsBuiltin(name string) bool {
	return name == Integer || name == String
}

// Index gives name-based access to the class declarations of a program.
// Lookup is a linear scan: declaration order is significant for the
// static-attribute region and for vtable global slots.
type Index struct {
	Decls []*ast.ClassDecl
}

// NewIndex builds an index over the program's declarations.
func NewIndex(prog *ast.Program) *Index {
	return &Index{Decls: prog.Decls}
}

// LookupClass returns the declaration of the named class, or nil if the
// program declares no such class.
func (ix *Index) LookupClass(name string) *ast.ClassDecl {
	for _, d := range ix.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// Class returns the declaration of the named class. The class must exist;
// callers pass names already validated by the checker.
func (ix *Index) Class(name string) *ast.ClassDecl {
	d := ix.LookupClass(name)
	if d == nil {
		panic("types: unknown class " + name)
	}
	return d
}

// DeclIndex returns the position of the named class in declaration order.
func (ix *Index) DeclIndex(name string) int {
	for i, d := range ix.Decls {
		if d.Name == name {
			return i
		}
	}
	panic("types: unknown class " + name)
}

// Ancestors returns the proper ancestors of decl, bottom to top.
// The checker guarantees the inheritance graph is a forest, so this
// terminates.
func (ix *Index) Ancestors(decl *ast.ClassDecl) []*ast.ClassDecl {
	var out []*ast.ClassDecl
	for decl.Super != nil {
		decl = ix.Class(decl.Super.Name)
		out = append(out, decl)
	}
	return out
}

// FindMethod resolves an instance method visible from decl, searching decl
// first and then its ancestors. Methods of a class shadow same-named
// ancestor methods. The owning class is returned alongside the method.
func (ix *Index) FindMethod(name string, decl *ast.ClassDecl) (*ast.MethodDecl, *ast.ClassDecl) {
	for {
		for i := range decl.InstMethods {
			if decl.InstMethods[i].Name == name {
				return &decl.InstMethods[i], decl
			}
		}
		if decl.Super == nil {
			return nil, nil
		}
		decl = ix.Class(decl.Super.Name)
	}
}

// FindInstAttr resolves an instance attribute visible from decl, searching
// decl first and then its ancestors.
func (ix *Index) FindInstAttr(name string, decl *ast.ClassDecl) *ast.Param {
	for {
		for i := range decl.InstAttrs {
			if decl.InstAttrs[i].Name == name {
				return &decl.InstAttrs[i]
			}
		}
		if decl.Super == nil {
			return nil
		}
		decl = ix.Class(decl.Super.Name)
	}
}

// StaticAttr resolves a static attribute of decl itself. Static attributes
// are not inherited.
func (ix *Index) StaticAttr(name string, decl *ast.ClassDecl) *ast.Param {
	for i := range decl.StaticAttrs {
		if decl.StaticAttrs[i].Name == name {
			return &decl.StaticAttrs[i]
		}
	}
	return nil
}

// StaticMethod resolves a static method of decl itself. Static methods are
// not inherited.
func (ix *Index) StaticMethod(name string, decl *ast.ClassDecl) *ast.MethodDecl {
	for i := range decl.StaticMethods {
		if decl.StaticMethods[i].Name == name {
			return &decl.StaticMethods[i]
		}
	}
	return nil
}

// IsBase reports whether base is derived itself or one of its ancestors.
// Both names must be declared classes; builtins and _Void are gated by the
// caller.
func (ix *Index) IsBase(derived, base string) bool {
	if derived == base {
		return true
	}
	for _, a := range ix.Ancestors(ix.Class(derived)) {
		if a.Name == base {
			return true
		}
	}
	return false
}
