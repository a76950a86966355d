package layout

import "fmt"

// MethodLabel mangles the code label of a method. Instance and static
// methods share the scheme; the VM label space is flat, so the method name
// length keeps distinct names from colliding.
func MethodLabel(class, method string) string {
	return fmt.Sprintf("%s_%d_%s", class, len(method), method)
}

// CtorLabel mangles the code label of a class constructor.
func CtorLabel(class string) string {
	return fmt.Sprintf("_CTOR_%s_", class)
}
