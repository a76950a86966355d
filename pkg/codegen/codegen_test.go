package codegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/check"
)

// gen checks and compiles a program, returning the emitted text. Tests
// only feed well-formed programs, mirroring the production pipeline.
func gen(t *testing.T, prog *ast.Program) string {
	t.Helper()
	if err := check.All(prog); err != nil {
		t.Fatalf("test program does not check: %v", err)
	}
	var buf bytes.Buffer
	Generate(&buf, prog)
	return buf.String()
}

func mainOnly(stmts ...ast.Stmt) *ast.Program {
	return &ast.Program{Instr: ast.Block{Body: stmts}}
}

func TestEmptyProgram(t *testing.T) {
	out := gen(t, mainOnly(ast.ExprStmt{Expr: ast.Cste{Value: 0}}))
	want := strings.Join([]string{
		"-- program compiled by turbo-katana",
		"PUSHN 0",
		"START",
		"PUSHI 0",
		"POPN 1",
		"STOP",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestSingleClassDispatch(t *testing.T) {
	a := &ast.ClassDecl{
		Name: "A",
		Ctor: ast.CtorDecl{Name: "A", Body: ast.Block{}},
		InstMethods: []ast.MethodDecl{{
			Name:    "m",
			RetType: "Integer",
			Body: ast.Block{Body: []ast.Stmt{
				ast.Assign{LHS: ast.Id{Name: "result"}, RHS: ast.Cste{Value: 42}},
			}},
		}},
	}
	prog := &ast.Program{
		Decls: []*ast.ClassDecl{a},
		Instr: ast.Block{
			Vars: []ast.Param{{Name: "a", Class: "A"}},
			Body: []ast.Stmt{
				ast.Assign{LHS: ast.Id{Name: "a"}, RHS: ast.New{Class: "A"}},
				ast.ExprStmt{Expr: ast.Call{Target: ast.Id{Name: "a"}, Method: "m"}},
			},
		},
	}
	out := gen(t, prog)

	want := strings.Join([]string{
		"-- program compiled by turbo-katana",
		"-- vtable A",
		"ALLOC 1",
		"DUPN 1",
		"PUSHA A_1_m",
		"STORE 0",
		"PUSHN 0",
		"START",
		"PUSHN 1",
		"ALLOC 1",
		"DUPN 1",
		"PUSHG 0",
		"STORE 0",
		"PUSHA _CTOR_A_",
		"CALL",
		"POPN 0",
		"STOREL 0",
		"PUSHI 0",
		"PUSHL 0",
		"DUPN 1",
		"LOAD 0",
		"LOAD 0",
		"CALL",
		"POPN 1",
		"POPN 1",
		"POPN 1",
		"STOP",
		"-- constructor A",
		"_CTOR_A_: NOP",
		"RETURN",
		"-- method A.m",
		"A_1_m: NOP",
		"PUSHI 42",
		"STOREL 1",
		"RETURN",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestDeterminism(t *testing.T) {
	prog := mainOnly(
		ast.Ite{
			Cond: ast.Cste{Value: 1},
			Then: ast.ExprStmt{Expr: ast.Cste{Value: 1}},
			Else: ast.ExprStmt{Expr: ast.Cste{Value: 2}},
		},
	)
	var a, b bytes.Buffer
	Generate(&a, prog)
	Generate(&b, prog)
	assert.Equal(t, a.String(), b.String())
}

func TestPrintln(t *testing.T) {
	out := gen(t, mainOnly(ast.ExprStmt{
		Expr: ast.Call{Target: ast.StringLit{Text: "hi"}, Method: "println"},
	}))
	assert.Contains(t, out, strings.Join([]string{
		"PUSHS \"hi\"",
		"DUPN 1",
		"WRITES",
		"PUSHS \"\\n\"",
		"WRITES",
		"POPN 1",
	}, "\n"))
}

func TestToString(t *testing.T) {
	out := gen(t, mainOnly(ast.ExprStmt{
		Expr: ast.Call{Target: ast.Cste{Value: 7}, Method: "toString"},
	}))
	assert.Contains(t, out, "PUSHI 7\nSTR\nPOPN 1")
}

func TestIteLabels(t *testing.T) {
	out := gen(t, mainOnly(ast.Ite{
		Cond: ast.Cste{Value: 1},
		Then: ast.ExprStmt{Expr: ast.Cste{Value: 1}},
		Else: ast.ExprStmt{Expr: ast.Cste{Value: 2}},
	}))
	assert.Contains(t, out, strings.Join([]string{
		"PUSHI 1",
		"JZ lbl0",
		"PUSHI 1",
		"POPN 1",
		"JUMP lbl1",
		"lbl0: NOP",
		"PUSHI 2",
		"POPN 1",
		"lbl1: NOP",
	}, "\n"))
}

func TestOperators(t *testing.T) {
	cases := []struct {
		op   ast.Op
		want string
	}{
		{ast.Eq, "EQUAL"},
		{ast.Neq, "EQUAL\nNOT"},
		{ast.Lt, "INF"},
		{ast.Le, "INFEQ"},
		{ast.Gt, "SUP"},
		{ast.Ge, "SUPEQ"},
		{ast.Add, "ADD"},
		{ast.Sub, "SUB"},
		{ast.Mul, "MUL"},
		{ast.Div, "DIV"},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			out := gen(t, mainOnly(ast.ExprStmt{Expr: ast.BinOp{
				Left: ast.Cste{Value: 1}, Op: tc.op, Right: ast.Cste{Value: 2},
			}}))
			assert.Contains(t, out, "PUSHI 1\nPUSHI 2\n"+tc.want+"\n")
		})
	}
}

func TestUMinusAndConcat(t *testing.T) {
	out := gen(t, mainOnly(ast.ExprStmt{Expr: ast.UMinus{Arg: ast.Cste{Value: 3}}}))
	assert.Contains(t, out, "PUSHI 0\nPUSHI 3\nSUB")

	out = gen(t, mainOnly(ast.ExprStmt{Expr: ast.StrCat{
		Left: ast.StringLit{Text: "a"}, Right: ast.StringLit{Text: "b"},
	}}))
	assert.Contains(t, out, "PUSHS \"a\"\nPUSHS \"b\"\nCONCAT")
}

func TestStaticAttrAndCall(t *testing.T) {
	c := &ast.ClassDecl{
		Name:        "C",
		Ctor:        ast.CtorDecl{Name: "C", Body: ast.Block{}},
		StaticAttrs: []ast.Param{{Name: "s", Class: "Integer"}},
		StaticMethods: []ast.MethodDecl{{
			Name: "f",
			Body: ast.Block{},
		}},
	}
	prog := &ast.Program{
		Decls: []*ast.ClassDecl{c},
		Instr: ast.Block{Body: []ast.Stmt{
			ast.Assign{LHS: ast.StaticAttr{Class: "C", Name: "s"}, RHS: ast.Cste{Value: 5}},
			ast.ExprStmt{Expr: ast.StaticCall{Class: "C", Method: "f"}},
		}},
	}
	out := gen(t, prog)
	// One vtable pointer in global 0, so the static lives in global 1.
	assert.Contains(t, out, "PUSHI 5\nSTOREG 1")
	assert.Contains(t, out, "PUSHI 0\nPUSHA C_1_f\nCALL\nPOPN 0")
	assert.Contains(t, out, "PUSHN 1\nSTART")
}

func TestCtorChainsToSuper(t *testing.T) {
	a := &ast.ClassDecl{
		Name:      "A",
		InstAttrs: []ast.Param{{Name: "va", Class: "Integer"}},
		Ctor: ast.CtorDecl{
			Name:   "A",
			Params: []ast.Param{{Name: "x", Class: "Integer"}},
			Body: ast.Block{Body: []ast.Stmt{
				ast.Assign{
					LHS: ast.Attr{Target: ast.Id{Name: "this"}, Name: "va"},
					RHS: ast.Id{Name: "x"},
				},
			}},
		},
	}
	b := &ast.ClassDecl{
		Name:  "B",
		Super: &ast.SuperCall{Name: "A", Args: []ast.Expr{ast.Cste{Value: 7}}},
		Ctor:  ast.CtorDecl{Name: "B", Body: ast.Block{}},
	}
	prog := &ast.Program{Decls: []*ast.ClassDecl{a, b}, Instr: ast.Block{}}
	out := gen(t, prog)

	// A's constructor stores its parameter into the attribute slot.
	assert.Contains(t, out, "_CTOR_A_: NOP\nPUSHL 0\nPUSHL 1\nSTORE 1\nRETURN")
	// B's constructor runs A's on this before its own body.
	assert.Contains(t, out, "_CTOR_B_: NOP\nPUSHL 0\nPUSHI 7\nPUSHA _CTOR_A_\nCALL\nPOPN 2\nRETURN")
}

func TestSuperDispatch(t *testing.T) {
	a := &ast.ClassDecl{
		Name: "A",
		Ctor: ast.CtorDecl{Name: "A", Body: ast.Block{}},
		InstMethods: []ast.MethodDecl{{
			Name:    "m",
			RetType: "Integer",
			Body: ast.Block{Body: []ast.Stmt{
				ast.Assign{LHS: ast.Id{Name: "result"}, RHS: ast.Cste{Value: 1}},
			}},
		}},
	}
	b := &ast.ClassDecl{
		Name:  "B",
		Super: &ast.SuperCall{Name: "A"},
		Ctor:  ast.CtorDecl{Name: "B", Body: ast.Block{}},
		InstMethods: []ast.MethodDecl{{
			Name: "q",
			Body: ast.Block{Body: []ast.Stmt{
				ast.ExprStmt{Expr: ast.Call{Target: ast.Id{Name: "super"}, Method: "m"}},
			}},
		}},
	}
	prog := &ast.Program{Decls: []*ast.ClassDecl{a, b}, Instr: ast.Block{}}
	out := gen(t, prog)

	// The super call goes straight to A's implementation, no vtable hop.
	assert.Contains(t, out, "B_1_q: NOP\nPUSHI 0\nPUSHL 0\nPUSHA A_1_m\nCALL\nPOPN 1\nPOPN 1\nRETURN")
}

func TestBlockLocalsNested(t *testing.T) {
	inner := ast.Block{
		Vars: []ast.Param{{Name: "y", Class: "Integer"}},
		Body: []ast.Stmt{
			ast.Assign{LHS: ast.Id{Name: "y"}, RHS: ast.Cste{Value: 2}},
			ast.Assign{LHS: ast.Id{Name: "x"}, RHS: ast.Id{Name: "y"}},
		},
	}
	prog := mainOnly()
	prog.Instr = ast.Block{
		Vars: []ast.Param{{Name: "x", Class: "Integer"}},
		Body: []ast.Stmt{inner},
	}
	out := gen(t, prog)

	// x gets slot 0, y the next one; both scopes pop what they pushed.
	assert.Contains(t, out, strings.Join([]string{
		"PUSHN 1",
		"PUSHN 1",
		"PUSHI 2",
		"STOREL 1",
		"PUSHL 1",
		"STOREL 0",
		"POPN 1",
		"POPN 1",
	}, "\n"))
}

func TestCastEmitsNothing(t *testing.T) {
	a := &ast.ClassDecl{Name: "A", Ctor: ast.CtorDecl{Name: "A", Body: ast.Block{}}}
	b := &ast.ClassDecl{
		Name:  "B",
		Super: &ast.SuperCall{Name: "A"},
		Ctor:  ast.CtorDecl{Name: "B", Body: ast.Block{}},
	}
	prog := &ast.Program{
		Decls: []*ast.ClassDecl{a, b},
		Instr: ast.Block{Body: []ast.Stmt{
			ast.ExprStmt{Expr: ast.StaticCast{Class: "A", Arg: ast.New{Class: "B"}}},
		}},
	}
	out := gen(t, prog)
	// The cast contributes no instruction: the New sequence is followed
	// directly by the statement's discard.
	assert.Contains(t, out, "PUSHA _CTOR_B_\nCALL\nPOPN 0\nPOPN 1")
}
