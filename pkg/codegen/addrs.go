package codegen

import "github.com/OopsOverflow/turbo-katana/pkg/ast"

// Addrs maps identifiers of the current frame to local slot offsets.
// Copies are cheap; each block keeps an independent view.
type Addrs map[string]int

func (a Addrs) clone() Addrs {
	out := make(Addrs, len(a)+4)
	for k, v := range a {
		out[k] = v
	}
	return out
}

// makeCtorAddrs lays out a constructor frame: this at slot 0, parameters at
// 1..n. Returns the map and the first free slot for block locals.
func makeCtorAddrs(params []ast.Param) (Addrs, int) {
	a := Addrs{"this": 0}
	for i, p := range params {
		a[p.Name] = 1 + i
	}
	return a, 1 + len(params)
}

// makeMethodAddrs lays out an instance method frame: this at slot 0,
// parameters at 1..n, then the result cell when the method declares a
// return type.
func makeMethodAddrs(params []ast.Param, hasResult bool) (Addrs, int) {
	a, next := makeCtorAddrs(params)
	if hasResult {
		a["result"] = next
		next++
	}
	return a, next
}

// makeStaticMethodAddrs lays out a static method frame: no this, parameters
// at 0..n-1, then the result cell.
func makeStaticMethodAddrs(params []ast.Param, hasResult bool) (Addrs, int) {
	a := Addrs{}
	for i, p := range params {
		a[p.Name] = i
	}
	next := len(params)
	if hasResult {
		a["result"] = next
		next++
	}
	return a, next
}
