package check

import "github.com/OopsOverflow/turbo-katana/pkg/ast"

// satisfied reports whether every control-flow path through s reaches an
// assignment to result or an explicit return. A block satisfies as soon as
// one of its statements does; statements after a return are not reachable
// and do not count.
func satisfied(s ast.Stmt) bool {
	switch s := s.(type) {
	case ast.Return:
		return true
	case ast.Assign:
		if id, ok := s.LHS.(ast.Id); ok && id.Name == idResult {
			return true
		}
		return false
	case ast.Block:
		for _, sub := range s.Body {
			if satisfied(sub) {
				return true
			}
		}
		return false
	case ast.Ite:
		return satisfied(s.Then) && satisfied(s.Else)
	}
	return false
}
