// Package astio decodes the YAML hand-off format produced by the external
// parser into pkg/ast values. Nodes are kind-tagged mappings; an unknown
// kind is a decode error, not a contextual error.
package astio

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OopsOverflow/turbo-katana/pkg/ast"
)

type programDoc struct {
	Classes []classNode `yaml:"classes"`
	Main    *node       `yaml:"main"`
}

type classNode struct {
	Name          string       `yaml:"name"`
	Extends       *extendsNode `yaml:"extends"`
	Ctor          *ctorNode    `yaml:"ctor"`
	Attrs         []paramNode  `yaml:"attrs"`
	Statics       []paramNode  `yaml:"statics"`
	Methods       []methodNode `yaml:"methods"`
	StaticMethods []methodNode `yaml:"staticMethods"`
}

type extendsNode struct {
	Name string `yaml:"name"`
	Args []node `yaml:"args"`
}

type ctorNode struct {
	Params []paramNode `yaml:"params"`
	Body   *node       `yaml:"body"`
}

type paramNode struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
}

type methodNode struct {
	Name     string      `yaml:"name"`
	Params   []paramNode `yaml:"params"`
	Returns  string      `yaml:"returns"`
	Override bool        `yaml:"override"`
	Body     *node       `yaml:"body"`
}

// node is the kind-tagged encoding of both statements and expressions.
type node struct {
	Kind   string      `yaml:"kind"`
	Name   string      `yaml:"name"`
	Class  string      `yaml:"class"`
	Method string      `yaml:"method"`
	Op     string      `yaml:"op"`
	Value  int         `yaml:"value"`
	Text   string      `yaml:"text"`
	Target *node       `yaml:"target"`
	Left   *node       `yaml:"left"`
	Right  *node       `yaml:"right"`
	Arg    *node       `yaml:"arg"`
	Cond   *node       `yaml:"cond"`
	Then   *node       `yaml:"then"`
	Else   *node       `yaml:"else"`
	LHS    *node       `yaml:"lhs"`
	RHS    *node       `yaml:"rhs"`
	Expr   *node       `yaml:"expr"`
	Args   []node      `yaml:"args"`
	Vars   []paramNode `yaml:"vars"`
	Body   []node      `yaml:"body"`
}

// Load decodes a program document from r.
func Load(r io.Reader) (*ast.Program, error) {
	var doc programDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("astio: %w", err)
	}
	return convert(&doc)
}

// LoadFile decodes a program document from the named file.
func LoadFile(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

func convert(doc *programDoc) (*ast.Program, error) {
	prog := &ast.Program{}
	for i := range doc.Classes {
		decl, err := convertClass(&doc.Classes[i])
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	if doc.Main == nil {
		return nil, fmt.Errorf("astio: program has no main statement")
	}
	main, err := convertStmt(doc.Main)
	if err != nil {
		return nil, err
	}
	prog.Instr = main
	return prog, nil
}

func convertClass(c *classNode) (*ast.ClassDecl, error) {
	decl := &ast.ClassDecl{
		Name:        c.Name,
		InstAttrs:   convertParams(c.Attrs),
		StaticAttrs: convertParams(c.Statics),
	}
	if c.Extends != nil {
		args, err := convertExprs(c.Extends.Args)
		if err != nil {
			return nil, err
		}
		decl.Super = &ast.SuperCall{Name: c.Extends.Name, Args: args}
	}
	if c.Ctor == nil {
		return nil, fmt.Errorf("astio: class %s has no constructor", c.Name)
	}
	ctorBody, err := convertStmt(c.Ctor.Body)
	if err != nil {
		return nil, err
	}
	decl.Ctor = ast.CtorDecl{
		Name:   c.Name,
		Params: convertParams(c.Ctor.Params),
		Body:   ctorBody,
	}
	for i := range c.Methods {
		m, err := convertMethod(&c.Methods[i])
		if err != nil {
			return nil, err
		}
		decl.InstMethods = append(decl.InstMethods, m)
	}
	for i := range c.StaticMethods {
		m, err := convertMethod(&c.StaticMethods[i])
		if err != nil {
			return nil, err
		}
		decl.StaticMethods = append(decl.StaticMethods, m)
	}
	return decl, nil
}

func convertMethod(m *methodNode) (ast.MethodDecl, error) {
	body, err := convertStmt(m.Body)
	if err != nil {
		return ast.MethodDecl{}, err
	}
	return ast.MethodDecl{
		Name:     m.Name,
		Params:   convertParams(m.Params),
		RetType:  m.Returns,
		Override: m.Override,
		Body:     body,
	}, nil
}

func convertParams(ps []paramNode) []ast.Param {
	out := make([]ast.Param, len(ps))
	for i, p := range ps {
		out[i] = ast.Param{Name: p.Name, Class: p.Class}
	}
	return out
}

func convertStmt(n *node) (ast.Stmt, error) {
	if n == nil {
		return nil, fmt.Errorf("astio: missing statement")
	}
	switch n.Kind {
	case "block":
		body := make([]ast.Stmt, 0, len(n.Body))
		for i := range n.Body {
			s, err := convertStmt(&n.Body[i])
			if err != nil {
				return nil, err
			}
			body = append(body, s)
		}
		return ast.Block{Vars: convertParams(n.Vars), Body: body}, nil
	case "assign":
		lhs, err := convertExpr(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := convertExpr(n.RHS)
		if err != nil {
			return nil, err
		}
		return ast.Assign{LHS: lhs, RHS: rhs}, nil
	case "return":
		return ast.Return{}, nil
	case "if":
		cond, err := convertExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := convertStmt(n.Then)
		if err != nil {
			return nil, err
		}
		// An omitted else branch is an empty block.
		var els ast.Stmt = ast.Block{}
		if n.Else != nil {
			if els, err = convertStmt(n.Else); err != nil {
				return nil, err
			}
		}
		return ast.Ite{Cond: cond, Then: then, Else: els}, nil
	case "expr":
		e, err := convertExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return ast.ExprStmt{Expr: e}, nil
	}
	return nil, fmt.Errorf("astio: unknown statement kind %q", n.Kind)
}

var ops = map[string]ast.Op{
	"==": ast.Eq, "!=": ast.Neq,
	"<": ast.Lt, "<=": ast.Le, ">": ast.Gt, ">=": ast.Ge,
	"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div,
}

func convertExpr(n *node) (ast.Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("astio: missing expression")
	}
	switch n.Kind {
	case "id":
		return ast.Id{Name: n.Name}, nil
	case "int":
		return ast.Cste{Value: n.Value}, nil
	case "string":
		return ast.StringLit{Text: n.Text}, nil
	case "attr":
		target, err := convertExpr(n.Target)
		if err != nil {
			return nil, err
		}
		return ast.Attr{Target: target, Name: n.Name}, nil
	case "static-attr":
		return ast.StaticAttr{Class: n.Class, Name: n.Name}, nil
	case "neg":
		arg, err := convertExpr(n.Arg)
		if err != nil {
			return nil, err
		}
		return ast.UMinus{Arg: arg}, nil
	case "binop":
		op, ok := ops[n.Op]
		if !ok {
			return nil, fmt.Errorf("astio: unknown operator %q", n.Op)
		}
		left, err := convertExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.BinOp{Left: left, Op: op, Right: right}, nil
	case "concat":
		left, err := convertExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return ast.StrCat{Left: left, Right: right}, nil
	case "call":
		target, err := convertExpr(n.Target)
		if err != nil {
			return nil, err
		}
		args, err := convertExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return ast.Call{Target: target, Method: n.Method, Args: args}, nil
	case "static-call":
		args, err := convertExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return ast.StaticCall{Class: n.Class, Method: n.Method, Args: args}, nil
	case "new":
		args, err := convertExprs(n.Args)
		if err != nil {
			return nil, err
		}
		return ast.New{Class: n.Class, Args: args}, nil
	case "cast":
		arg, err := convertExpr(n.Arg)
		if err != nil {
			return nil, err
		}
		return ast.StaticCast{Class: n.Class, Arg: arg}, nil
	}
	return nil, fmt.Errorf("astio: unknown expression kind %q", n.Kind)
}

func convertExprs(ns []node) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(ns))
	for i := range ns {
		e, err := convertExpr(&ns[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
