// Package codegen walks a checked AST and emits the VM program: vtables
// and the static region first, then the top-level statement between START
// and STOP, then every constructor and method. Emission order depends only
// on declaration order and left-to-right traversal, so output is
// deterministic per call.
package codegen

import (
	"io"

	"github.com/OopsOverflow/turbo-katana/pkg/ast"
	"github.com/OopsOverflow/turbo-katana/pkg/emit"
	"github.com/OopsOverflow/turbo-katana/pkg/layout"
	"github.com/OopsOverflow/turbo-katana/pkg/types"
)

// generator threads the emitter and the per-frame state through the walk.
type generator struct {
	ix    *types.Index
	e     *emit.Emitter
	addrs Addrs
	env   types.Env
	next  int // next free local slot in the current frame
}

// Generate emits the complete VM program for a checked AST. The tree must
// have passed check.All; impossible shapes panic.
func Generate(w io.Writer, prog *ast.Program) {
	ix := types.NewIndex(prog)
	g := &generator{ix: ix, e: emit.New(w)}

	g.e.Comment("program compiled by turbo-katana")
	for _, d := range ix.Decls {
		g.vtable(d)
	}
	g.e.Pushn(layout.StaticCells(ix))

	g.e.Start()
	g.addrs, g.env, g.next = Addrs{}, types.NewEnv(), 0
	g.stmt(prog.Instr)
	g.e.Stop()

	for _, d := range ix.Decls {
		g.ctor(d)
		for i := range d.InstMethods {
			g.method(d, &d.InstMethods[i], false)
		}
		for i := range d.StaticMethods {
			g.method(d, &d.StaticMethods[i], true)
		}
	}
}

// vtable allocates the dispatch table of d and fills each slot with the
// code address of the most derived implementation. The table pointer stays
// on the stack: the tables become globals 0..N-1 once START runs.
func (g *generator) vtable(d *ast.ClassDecl) {
	vt := layout.Make(g.ix, d)
	g.e.Comment("vtable " + d.Name)
	g.e.Alloc(len(vt))
	for i, s := range vt {
		g.e.Dupn(1)
		g.e.Pusha(layout.MethodLabel(s.Class, s.Method))
		g.e.Store(i)
	}
}

func (g *generator) ctor(d *ast.ClassDecl) {
	g.e.Comment("constructor " + d.Name)
	g.e.Label(layout.CtorLabel(d.Name))
	g.addrs, g.next = makeCtorAddrs(d.Ctor.Params)
	g.env = types.NewEnv().Bind("this", d.Name)
	if d.Super != nil {
		g.env = g.env.Bind("super", d.Super.Name)
	}
	g.env = g.env.BindParams(d.Ctor.Params)
	if d.Super != nil {
		// Run the superclass constructor on this before the body.
		g.e.Pushl(g.addrs["this"])
		for _, a := range d.Super.Args {
			g.expr(a)
		}
		g.e.Pusha(layout.CtorLabel(d.Super.Name))
		g.e.Call()
		g.e.Popn(len(d.Super.Args) + 1)
	}
	g.stmt(d.Ctor.Body)
	g.e.Return()
}

func (g *generator) method(d *ast.ClassDecl, m *ast.MethodDecl, static bool) {
	g.e.Comment("method " + d.Name + "." + m.Name)
	g.e.Label(layout.MethodLabel(d.Name, m.Name))
	hasResult := m.RetType != ""
	if static {
		g.addrs, g.next = makeStaticMethodAddrs(m.Params, hasResult)
		g.env = types.NewEnv().BindParams(m.Params)
	} else {
		g.addrs, g.next = makeMethodAddrs(m.Params, hasResult)
		g.env = types.NewEnv().Bind("this", d.Name)
		if d.Super != nil {
			g.env = g.env.Bind("super", d.Super.Name)
		}
		g.env = g.env.BindParams(m.Params)
	}
	if hasResult {
		g.env = g.env.Bind("result", m.RetType)
	}
	g.stmt(m.Body)
	g.e.Return()
}
