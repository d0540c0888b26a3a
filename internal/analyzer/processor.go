package analyzer

import (
	"github.com/orbital-lang/funxy/internal/pipeline"
)

// Processor is the driver's analyze pipeline stage: binder, collector,
// and unifier, run over whatever the parser stage produced.
type Processor struct{}

func (sp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.AstRoot == nil {
		return ctx
	}
	result, err := Analyze(ctx.AstRoot)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = result
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
