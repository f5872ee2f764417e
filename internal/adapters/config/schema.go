package config

// Fabfile represents the structure of the fab.yaml configuration file.
type Fabfile struct {
	Version      string               `yaml:"version"`
	Default      string               `yaml:"default"`
	Roots        []string             `yaml:"roots"`
	Depth        *int                 `yaml:"depth"`
	IgnorePrefix *string              `yaml:"ignorePrefix"`
	Hasher       string               `yaml:"hasher"`
	DepsFile     string               `yaml:"depsFile"`
	Runner       string               `yaml:"runner"`
	Quiet        bool                 `yaml:"quiet"`
	MetricsFile  string               `yaml:"metricsFile"`
	TraceFile    string               `yaml:"traceFile"`
	Targets      map[string][]StepDTO `yaml:"targets"`
}

// StepDTO represents one step of a target. Exactly one field may be set.
type StepDTO struct {
	Run   string `yaml:"run"`
	Call  string `yaml:"call"`
	Group string `yaml:"group"`
	Clean bool   `yaml:"clean"`
}
