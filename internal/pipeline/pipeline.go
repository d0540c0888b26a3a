// Package pipeline chains the driver's processing stages — lex, parse,
// analyze — over one Context, in the teacher's Processor/Pipeline
// shape.
package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, carrying the context forward. Every
// stage runs, whatever an earlier stage recorded on the context. The
// parse stage does not add its parse errors to Context.Errors, so only
// the analyze stage's error reaches the caller there.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
