package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

// hierarchy builds:
//
//	class A  { var a1, a2; static var s1, s2; def m(); def n() }
//	class B extends A { var b1; static var t1; override def m(); def p() }
func hierarchy() *types.Index {
	a := &ast.ClassDecl{
		Name:        "A",
		Ctor:        ast.CtorDecl{Name: "A", Body: ast.Block{}},
		InstAttrs:   []ast.Param{{Name: "a1", Class: "Integer"}, {Name: "a2", Class: "String"}},
		StaticAttrs: []ast.Param{{Name: "s1", Class: "Integer"}, {Name: "s2", Class: "Integer"}},
		InstMethods: []ast.MethodDecl{
			{Name: "m", Body: ast.Block{}},
			{Name: "n", Body: ast.Block{}},
		},
	}
	b := &ast.ClassDecl{
		Name:        "B",
		Super:       &ast.SuperCall{Name: "A"},
		Ctor:        ast.CtorDecl{Name: "B", Body: ast.Block{}},
		InstAttrs:   []ast.Param{{Name: "b1", Class: "Integer"}},
		StaticAttrs: []ast.Param{{Name: "t1", Class: "Integer"}},
		InstMethods: []ast.MethodDecl{
			{Name: "m", Override: true, Body: ast.Block{}},
			{Name: "p", Body: ast.Block{}},
		},
	}
	return types.NewIndex(&ast.Program{Decls: []*ast.ClassDecl{a, b}, Instr: ast.Block{}})
}

func TestAllAttrsAncestorFirst(t *testing.T) {
	ix := hierarchy()
	attrs := AllAttrs(ix, ix.Class("B"))
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, names)
}

func TestAttrOffsets(t *testing.T) {
	ix := hierarchy()
	assert.Equal(t, 1, AttrOffset(ix, "A", "a1"))
	assert.Equal(t, 2, AttrOffset(ix, "A", "a2"))
	assert.Equal(t, 3, AttrOffset(ix, "B", "b1"))

	// Inherited attributes keep the offset of their declaring class.
	assert.Equal(t, AttrOffset(ix, "A", "a1"), AttrOffset(ix, "B", "a1"))
	assert.Equal(t, AttrOffset(ix, "A", "a2"), AttrOffset(ix, "B", "a2"))
}

func TestStaticRegion(t *testing.T) {
	ix := hierarchy()
	// Globals 0..1 are the two vtable pointers.
	assert.Equal(t, 0, VtableGlobal(ix, "A"))
	assert.Equal(t, 1, VtableGlobal(ix, "B"))

	assert.Equal(t, 2, StaticAttrOffset(ix, "A", "s1"))
	assert.Equal(t, 3, StaticAttrOffset(ix, "A", "s2"))
	assert.Equal(t, 4, StaticAttrOffset(ix, "B", "t1"))
	assert.Equal(t, 3, StaticCells(ix))
}

func TestVtableMake(t *testing.T) {
	ix := hierarchy()
	vtA := Make(ix, ix.Class("A"))
	assert.Equal(t, Vtable{{Method: "m", Class: "A"}, {Method: "n", Class: "A"}}, vtA)

	// The override keeps the ancestor slot and takes ownership; the new
	// method goes last.
	vtB := Make(ix, ix.Class("B"))
	assert.Equal(t, Vtable{
		{Method: "m", Class: "B"},
		{Method: "n", Class: "A"},
		{Method: "p", Class: "B"},
	}, vtB)
}

func TestVtableOffsetsMonotone(t *testing.T) {
	ix := hierarchy()
	vtA := Make(ix, ix.Class("A"))
	vtB := Make(ix, ix.Class("B"))
	for _, m := range []string{"m", "n"} {
		assert.Equal(t, vtA.Offset(m), vtB.Offset(m), "slot of %s moved", m)
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "A_1_m", MethodLabel("A", "m"))
	assert.Equal(t, "Point_4_getX", MethodLabel("Point", "getX"))
	assert.Equal(t, "_CTOR_A_", CtorLabel("A"))
}
