package app

import (
	"context"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/engine/builder"
	"go.trai.ch/zerr"
)

// Registry maps target names from fab.yaml to build functions.
type Registry struct {
	project *domain.Project
}

// NewRegistry creates a registry over the targets of project.
func NewRegistry(project *domain.Project) *Registry {
	return &Registry{project: project}
}

// Resolve checks that every name is defined. No names means the default target.
func (r *Registry) Resolve(names []string) ([]string, error) {
	if len(names) == 0 {
		names = []string{r.project.Default}
	}
	for _, name := range names {
		if _, ok := r.project.Targets[name]; !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetNotDefined, ""), "target", name)
		}
	}
	return names, nil
}

// Func returns the build function of a target the loader already validated.
func (r *Registry) Func(name string) builder.BuildFunc {
	target := r.project.Targets[name]
	return func(ctx context.Context, s builder.Session) error {
		for _, step := range target.Steps {
			if err := r.step(ctx, s, step); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *Registry) step(ctx context.Context, s builder.Session, step domain.Step) error {
	switch step.Kind {
	case domain.StepRun:
		return s.Run(ctx, step.Arg)
	case domain.StepCall:
		return r.Func(step.Arg)(ctx, s)
	case domain.StepGroup:
		return s.Group(ctx, r.Func(step.Arg))
	case domain.StepClean:
		return s.Clean(ctx)
	}
	return zerr.With(zerr.Wrap(domain.ErrInvalidStep, ""), "kind", step.Kind)
}
