// Package diagnostics implements the typed error taxonomy of spec §7: a
// DiagnosticError carries a phase, a code, the offending token, and a
// human-readable message built from a template. Implementors choose how
// to render; tests match by regex on Error().
package diagnostics

import (
	"fmt"

	"github.com/orbital-lang/funxy/internal/token"
)

// Phase names the pipeline stage that raised the error.
type Phase string

const (
	PhaseDriver   Phase = "driver"
	PhaseBinder   Phase = "binder"
	PhaseCollector Phase = "collector"
	PhaseUnifier  Phase = "unifier"
)

// Kind is the taxonomy of spec §7, independent of the ErrorCode used to
// render it — tests and driver tooling branch on Kind, not on the code.
type Kind string

const (
	KindRedeclaration         Kind = "Redeclaration"
	KindMissingModule         Kind = "MissingModule"
	KindDuplicateEnumMember   Kind = "DuplicateEnumMember"
	KindDuplicateTypeParam    Kind = "DuplicateTypeParameter"
	KindUnknownReference      Kind = "UnknownReference"
	KindTypeMismatch          Kind = "TypeMismatch"
	KindNotCallable           Kind = "NotCallable"
	KindUnknownEnumMember     Kind = "UnknownEnumMember"
	KindEnumMismatch          Kind = "EnumMismatch"
	KindCouldNotUnify         Kind = "CouldNotUnify"
)

// ErrorCode is the stable, phase-prefixed rendering code, in the
// teacher's ErrA0xx / ErrP0xx numbering convention.
type ErrorCode string

const (
	ErrD001 ErrorCode = "D001" // driver: program has no module declaration

	ErrB001 ErrorCode = "B001" // binder: redeclaration in this or an ancestor scope
	ErrB002 ErrorCode = "B002" // binder: duplicate enum member
	ErrB003 ErrorCode = "B003" // binder: duplicate type parameter

	ErrC001 ErrorCode = "C001" // collector: unknown reference
	ErrC002 ErrorCode = "C002" // collector: not callable
	ErrC003 ErrorCode = "C003" // collector: unknown enum member

	ErrU001 ErrorCode = "U001" // unifier: type mismatch
	ErrU002 ErrorCode = "U002" // unifier: enum mismatch
	ErrU003 ErrorCode = "U003" // unifier: could not unify
)

var codeKind = map[ErrorCode]Kind{
	ErrD001: KindMissingModule,
	ErrB001: KindRedeclaration,
	ErrB002: KindDuplicateEnumMember,
	ErrB003: KindDuplicateTypeParam,
	ErrC001: KindUnknownReference,
	ErrC002: KindNotCallable,
	ErrC003: KindUnknownEnumMember,
	ErrU001: KindTypeMismatch,
	ErrU002: KindEnumMismatch,
	ErrU003: KindCouldNotUnify,
}

var errorTemplates = map[ErrorCode]string{
	ErrD001: "program has no module declaration",
	ErrB001: "'%s' is already declared in this scope",
	ErrB002: "duplicate enum member '%s'",
	ErrB003: "duplicate type parameter '%s'",
	ErrC001: "unknown reference: '%s'",
	ErrC002: "'%s' is not callable",
	ErrC003: "'%s' has no member '%s'",
	ErrU001: "type mismatch: expected %s, got %s",
	ErrU002: "enum mismatch: expected %s, got %s",
	ErrU003: "could not unify %s with %s",
}

// DiagnosticError is the core's sole error type. A single compilation
// phase is fatal on the first DiagnosticError it raises (spec §7
// Propagation); no recovery continues the pipeline.
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Token token.Token
	// Identifier optionally names the offending identifier for
	// diagnostics, per spec §6.
	Identifier string
	// CompilationID correlates this error back to the Namer (and so the
	// Program) that raised it, for a driver juggling several programs at
	// once (spec §6). Empty for driver-level errors raised before a
	// compilation's Namer exists (e.g. ErrD001).
	CompilationID string
}

// Kind returns the spec §7 taxonomy entry this error belongs to.
func (e *DiagnosticError) Kind() Kind { return codeKind[e.Code] }

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)
	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}
	compStr := ""
	if e.CompilationID != "" {
		compStr = fmt.Sprintf("(%s) ", e.CompilationID)
	}
	if e.Token.Line > 0 {
		return fmt.Sprintf("%s%serror at %d:%d [%s]: %s", compStr, phaseStr, e.Token.Line, e.Token.Column, e.Code, message)
	}
	return fmt.Sprintf("%s%serror [%s]: %s", compStr, phaseStr, e.Code, message)
}

// New creates a DiagnosticError with an explicit phase.
func New(phase Phase, code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: phase, Token: tok, Args: args}
}

// NewBinder, NewCollector, NewUnifier, NewDriver are thin phase-tagged
// constructors mirroring the teacher's NewAnalyzerError convention.
func NewBinder(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return New(PhaseBinder, code, tok, args...)
}

func NewCollector(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return New(PhaseCollector, code, tok, args...)
}

func NewUnifier(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return New(PhaseUnifier, code, tok, args...)
}

func NewDriver(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return New(PhaseDriver, code, tok, args...)
}
