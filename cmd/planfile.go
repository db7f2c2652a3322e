package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/planforge/planforge/internal/plan"
)

// loadPlanFile reads a YAML network plan from disk.
func loadPlanFile(path string) (*plan.NetworkPlan, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p plan.NetworkPlan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	p.Normalize()
	return &p, nil
}
