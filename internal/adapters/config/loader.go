// Package config provides the fab.yaml loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the fab.yaml schema version this build reads.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validTargetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Load finds fab.yaml in cwd or the nearest parent and returns the project it describes.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var fabfile Fabfile
	if err := readAndUnmarshalYAML(configPath, &fabfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if fabfile.Version != "" && fabfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q",
			domain.ConfigFileName, fabfile.Version, SupportedVersion))
	}

	project := domain.NewProject(filepath.Dir(configPath))
	if err := applySettings(&project.Settings, project.Root, &fabfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if err := buildTargets(project, fabfile.Targets); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if fabfile.Default != "" {
		if _, ok := project.Targets[fabfile.Default]; !ok {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingTarget, ""), "default", fabfile.Default), "path", configPath)
		}
		project.Default = fabfile.Default
	}

	return project, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve working directory")
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "cwd", cwd)
}

// applySettings overlays the file's values on the defaults already in s.
func applySettings(s *domain.Settings, root string, f *Fabfile) error {
	if len(f.Roots) > 0 {
		s.Roots = make([]string, 0, len(f.Roots))
		for _, dir := range f.Roots {
			s.Roots = append(s.Roots, resolvePath(root, dir))
		}
	}
	if f.Depth != nil {
		s.Depth = *f.Depth
	}
	if f.IgnorePrefix != nil {
		s.IgnorePrefix = *f.IgnorePrefix
	}
	if f.Hasher != "" {
		kind, err := domain.ParseHasherKind(f.Hasher)
		if err != nil {
			return err
		}
		s.Hasher = kind
	}
	if f.Runner != "" {
		kind, err := domain.ParseRunnerKind(f.Runner)
		if err != nil {
			return err
		}
		s.Runner = kind
	}
	if f.DepsFile != "" {
		s.DepsFile = resolvePath(root, f.DepsFile)
	}
	if f.MetricsFile != "" {
		s.MetricsFile = resolvePath(root, f.MetricsFile)
	}
	if f.TraceFile != "" {
		s.TraceFile = resolvePath(root, f.TraceFile)
	}
	s.Quiet = f.Quiet

	return s.Validate()
}

// resolvePath makes p absolute against root unless it already is.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}

func buildTargets(project *domain.Project, dtos map[string][]StepDTO) error {
	names := make([]string, 0, len(dtos))
	for name := range dtos {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if err := validateTargetName(name); err != nil {
			return err
		}

		target := &domain.Target{Name: name, Steps: make([]domain.Step, 0, len(dtos[name]))}
		for i, dto := range dtos[name] {
			step, err := buildStep(dto)
			if err != nil {
				return zerr.With(zerr.With(err, "target", name), "step", i+1)
			}
			if step.Kind == domain.StepCall || step.Kind == domain.StepGroup {
				if _, ok := dtos[step.Arg]; !ok {
					return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingTarget, ""), "target", name), "missing_target", step.Arg)
				}
			}
			target.Steps = append(target.Steps, step)
		}
		project.Targets[name] = target
	}

	return detectCycles(project, names)
}

func buildStep(dto StepDTO) (domain.Step, error) {
	var steps []domain.Step
	if dto.Run != "" {
		steps = append(steps, domain.Step{Kind: domain.StepRun, Arg: dto.Run})
	}
	if dto.Call != "" {
		steps = append(steps, domain.Step{Kind: domain.StepCall, Arg: dto.Call})
	}
	if dto.Group != "" {
		steps = append(steps, domain.Step{Kind: domain.StepGroup, Arg: dto.Group})
	}
	if dto.Clean {
		steps = append(steps, domain.Step{Kind: domain.StepClean})
	}
	if len(steps) != 1 {
		return domain.Step{}, zerr.With(zerr.Wrap(domain.ErrInvalidStep, ""), "actions", len(steps))
	}
	return steps[0], nil
}

// validateTargetName checks that the target name only uses safe characters.
func validateTargetName(name string) error {
	if !validTargetNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidTargetName, ""), "target", name)
	}
	return nil
}

// detectCycles walks the call and group edges depth first.
func detectCycles(project *domain.Project, names []string) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(names))
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			start := slices.Index(path, name)
			cycle := append(slices.Clone(path[start:]), name)
			return zerr.With(zerr.Wrap(domain.ErrCycleDetected, ""), "cycle", strings.Join(cycle, " -> "))
		}

		state[name] = visiting
		path = append(path, name)
		for _, step := range project.Targets[name].Steps {
			if step.Kind != domain.StepCall && step.Kind != domain.StepGroup {
				continue
			}
			if err := visit(step.Arg); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}

	for _, name := range names {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from cwd
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
