// Package layout fixes the memory conventions used by the code generator
// (and the driver's vtable dump): object slot offsets, the global
// static-attribute region, per-class vtables, and label mangling.
//
// An instance of class C occupies 1+len(AllAttrs(C)) heap cells: slot 0
// holds the vtable pointer, the remaining slots hold the instance
// attributes in ancestor-first order. Globals [0..N-1] hold the vtable
// pointers of the N declared classes in declaration order; globals [N..]
// hold the static attributes grouped by class in declaration order.
package layout

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

// AllAttrs returns the instance attributes visible in decl, ancestor-first.
// An attribute redeclared in a derived class appears once per declaration;
// offsets resolve to the most derived one.
func AllAttrs(ix *types.Index, decl *ast.ClassDecl) []ast.Param {
	var out []ast.Param
	if decl.Super != nil {
		out = AllAttrs(ix, ix.Class(decl.Super.Name))
	}
	return append(out, decl.InstAttrs...)
}

// AttrOffset returns the heap slot of attribute name in instances of class.
// Offsets are 1-based; slot 0 is the vtable pointer. The search is
// most-derived-first so derived redeclarations win.
func AttrOffset(ix *types.Index, class, name string) int {
	attrs := AllAttrs(ix, ix.Class(class))
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Name == name {
			return 1 + i
		}
	}
	panic("layout: class " + class + " has no attribute " + name)
}

// VtableGlobal returns the global slot holding the vtable pointer of class:
// its position in declaration order.
func VtableGlobal(ix *types.Index, class string) int {
	return ix.DeclIndex(class)
}

// StaticAttrOffset returns the global slot of static attribute name of
// class. Statics start right after the N vtable pointers.
func StaticAttrOffset(ix *types.Index, class, name string) int {
	off := len(ix.Decls)
	for _, d := range ix.Decls {
		if d.Name == class {
			for i, a := range d.StaticAttrs {
				if a.Name == name {
					return off + i
				}
			}
			break
		}
		off += len(d.StaticAttrs)
	}
	panic("layout: class " + class + " has no static attribute " + name)
}

// StaticCells returns the total size of the static-attribute region.
func StaticCells(ix *types.Index) int {
	n := 0
	for _, d := range ix.Decls {
		n += len(d.StaticAttrs)
	}
	return n
}
