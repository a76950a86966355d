package check

import "fmt"

// Category classifies a contextual error. The set is closed: every rule the
// checker enforces reports exactly one of these.
type Category int

const (
	ReservedName Category = iota
	DuplicateClass
	UnknownClass
	InheritanceCycle
	ReservedClassName
	DuplicateMember
	OverrideMissing
	OverrideRequired
	OverrideSignatureMismatch
	UnknownIdentifier
	UnknownAttribute
	UnknownStaticAttribute
	UnknownMethod
	UnknownStaticMethod
	BuiltinArityMismatch
	AssignToReserved
	AssignToNonLValue
	AssignVoid
	TypeMismatch
	ConditionNotInteger
	OperandsNotInteger
	OperandsNotString
	CtorNameMismatch
	CtorArgMismatch
	SuperMissing
	CastNotUpCast
	MissingReturnPath
)

func (c Category) String() string {
	names := []string{
		"ReservedName",
		"DuplicateClass",
		"UnknownClass",
		"InheritanceCycle",
		"ReservedClassName",
		"DuplicateMember",
		"OverrideMissing",
		"OverrideRequired",
		"OverrideSignatureMismatch",
		"UnknownIdentifier",
		"UnknownAttribute",
		"UnknownStaticAttribute",
		"UnknownMethod",
		"UnknownStaticMethod",
		"BuiltinArityMismatch",
		"AssignToReserved",
		"AssignToNonLValue",
		"AssignVoid",
		"TypeMismatch",
		"ConditionNotInteger",
		"OperandsNotInteger",
		"OperandsNotString",
		"CtorNameMismatch",
		"CtorArgMismatch",
		"SuperMissing",
		"CastNotUpCast",
		"MissingReturnPath",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// ContextualError is the single error kind produced by the checker. The
// first violation found aborts the whole pipeline.
type ContextualError struct {
	Category Category
	Message  string
}

func (e *ContextualError) Error() string {
	return e.Message
}

func errf(cat Category, format string, args ...interface{}) *ContextualError {
	return &ContextualError{Category: cat, Message: fmt.Sprintf(format, args...)}
}
