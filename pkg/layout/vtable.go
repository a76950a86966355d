package layout

import (
	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

// Slot is one vtable entry: a dispatchable method name and the most derived
// class defining it.
type Slot struct {
	Method string
	Class  string
}

// Vtable lists the dynamically dispatchable methods of a concrete class in
// a stable order: ancestor-first, each class's methods in declaration
// order. An override keeps the slot position of the ancestor's original
// declaration and updates the defining class.
type Vtable []Slot

// Make builds the vtable of decl.
func Make(ix *types.Index, decl *ast.ClassDecl) Vtable {
	chain := []*ast.ClassDecl{decl}
	for _, a := range ix.Ancestors(decl) {
		chain = append(chain, a)
	}
	var vt Vtable
	for i := len(chain) - 1; i >= 0; i-- {
		cls := chain[i]
		for _, m := range cls.InstMethods {
			if j := vt.slot(m.Name); j >= 0 {
				vt[j].Class = cls.Name
			} else {
				vt = append(vt, Slot{Method: m.Name, Class: cls.Name})
			}
		}
	}
	return vt
}

func (vt Vtable) slot(method string) int {
	for i, s := range vt {
		if s.Method == method {
			return i
		}
	}
	return -1
}

// Offset returns the 0-based slot index of method in vt.
func (vt Vtable) Offset(method string) int {
	if i := vt.slot(method); i >= 0 {
		return i
	}
	panic("layout: no vtable slot for method " + method)
}
