package query

import "github.com/custodia-labs/healthdoc/internal/core/domain"

// Pipeline chains stages and runs them in order.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline with the given stages.
// Stages are executed in the order provided.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// Build assembles the pipeline for a binding: filter, then sort, then limit.
// Stages the binding does not declare are omitted.
func Build(binding domain.DataSource) *Pipeline {
	p := NewPipeline()
	if len(binding.Filters) > 0 {
		p.Add(NewFilterStage(binding.Filters...))
	}
	if binding.Sort != nil {
		p.Add(NewSortStage(*binding.Sort))
	}
	if binding.Limit != nil {
		p.Add(NewLimitStage(*binding.Limit))
	}
	return p
}

// Run passes items through every stage.
func (p *Pipeline) Run(items []any) []any {
	out := items
	for _, stage := range p.stages {
		out = stage.Apply(out)
	}
	if out == nil {
		return []any{}
	}
	return out
}

// Add appends a stage to the pipeline.
func (p *Pipeline) Add(stage Stage) {
	p.stages = append(p.stages, stage)
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Apply normalises a resolved value and runs the binding's pipeline over it.
func Apply(value any, binding domain.DataSource) []any {
	return Build(binding).Run(Normalise(value))
}
