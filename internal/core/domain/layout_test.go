package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/fab/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultDepsPath",
			got:      domain.DefaultDepsPath("/src/app"),
			expected: filepath.Join("/src/app", ".deps"),
		},
		{
			name:     "LockPath",
			got:      domain.LockPath("/src/app/.deps"),
			expected: "/src/app/.deps.lock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}
