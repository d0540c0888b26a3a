package parser

import (
	"github.com/orbital-lang/funxy/internal/lexer"
	"github.com/orbital-lang/funxy/internal/pipeline"
)

// Processor is the driver's lex+parse pipeline stage: it owns both the
// lexer and the parser since the trimmed lexer has no standalone
// buffered-stream consumer the way the teacher's does.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := lexer.New(ctx.SourceCode)
	p := New(l)
	ctx.AstRoot = p.ParseProgram()
	return ctx
}

var _ pipeline.Processor = (*Processor)(nil)
