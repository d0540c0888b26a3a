package analyzer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/orbital-lang/funxy/internal/types"
)

// Namer mints globally-unique type-variable names for one compilation
// unit (spec §4.1 "Type variable naming": process-wide counters with
// prefixes `t` and `fn`). Spec §9 Design Notes recommends giving each
// compilation unit its own counter so concurrent compilations never
// collide — Namer is that per-unit counter. Its CompilationID is
// stamped onto every DiagnosticError the bind/collect/unify pipeline
// raises for this Namer, so a driver juggling many programs (spec §6
// module registry) can tell which compilation an error came from.
type Namer struct {
	// CompilationID distinguishes this compilation's errors from any
	// other's when diagnostics from several programs are interleaved.
	CompilationID uuid.UUID

	tCounter  int
	fnCounter int
}

// NewNamer starts a fresh counter pair for one bind_program invocation.
func NewNamer() *Namer {
	return &Namer{CompilationID: uuid.New()}
}

// FreshVar allocates an anonymous type variable, `t0`, `t1`, ... in
// declaration order.
func (n *Namer) FreshVar() types.TypeVariable {
	name := fmt.Sprintf("t%d", n.tCounter)
	n.tCounter++
	return types.TypeVariable{Name: name}
}

// FreshFunctionName allocates a stable name for an anonymous function
// declaration: `fn0`, `fn1`, ... (spec §4.1 FunctionExpression policy).
func (n *Namer) FreshFunctionName() string {
	name := fmt.Sprintf("fn%d", n.fnCounter)
	n.fnCounter++
	return name
}
