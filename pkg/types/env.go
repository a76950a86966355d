package types

import "github.com/OopsOverflow/turbo-katana/pkg/ast"

// Env maps identifiers in scope to their declared class names. Values are
// immutable: Bind copies, so each scope keeps an independent view and inner
// bindings shadow outer ones.
type Env map[string]string

// NewEnv returns an empty environment.
func NewEnv() Env {
	return Env{}
}

// Bind returns a copy of env extended with name: class.
func (env Env) Bind(name, class string) Env {
	out := make(Env, len(env)+1)
	for k, v := range env {
		out[k] = v
	}
	out[name] = class
	return out
}

// BindParams returns a copy of env extended with each parameter.
func (env Env) BindParams(params []ast.Param) Env {
	out := make(Env, len(env)+len(params))
	for k, v := range env {
		out[k] = v
	}
	for _, p := range params {
		out[p.Name] = p.Class
	}
	return out
}

// Lookup returns the class bound to name, if any.
func (env Env) Lookup(name string) (string, bool) {
	c, ok := env[name]
	return c, ok
}
