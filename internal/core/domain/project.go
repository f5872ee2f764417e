package domain

import "slices"

// StepKind selects what a target step does.
type StepKind uint8

const (
	// StepRun runs a command line through the builder.
	StepRun StepKind = iota
	// StepCall evaluates another target in the same session.
	StepCall
	// StepGroup evaluates another target as a single staleness unit.
	StepGroup
	// StepClean removes every recorded output and the store.
	StepClean
)

// Step is a single action of a target.
type Step struct {
	Kind StepKind
	// Arg is the command line for StepRun and the target name for StepCall and StepGroup.
	Arg string
}

// Target is a named build function made of steps.
type Target struct {
	Name  string
	Steps []Step
}

// Project is a loaded fab.yaml.
type Project struct {
	Root     string
	Settings Settings
	Default  string
	Targets  map[string]*Target
}

// NewProject returns an empty project rooted at root with default settings.
func NewProject(root string) *Project {
	return &Project{
		Root:     root,
		Settings: DefaultSettings(root),
		Default:  DefaultTarget,
		Targets:  make(map[string]*Target),
	}
}

// TargetNames returns the defined target names, sorted.
func (p *Project) TargetNames() []string {
	names := make([]string, 0, len(p.Targets))
	for name := range p.Targets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
