// Package content loads scenario graphs from YAML. The default graph, an
// Islamic financial-ethics journey, is embedded in the binary.
package content

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/tatianab/ethics-journey/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed scenarios.yaml
var defaultScenarios []byte

// Default parses the embedded graph.
func Default() (*models.Graph, error) {
	return Parse(defaultScenarios)
}

// Parse builds a graph from a YAML document.
func Parse(data []byte) (*models.Graph, error) {
	var spec models.GraphSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(spec.Scenarios) == 0 {
		return nil, fmt.Errorf("parse scenarios: no scenarios defined")
	}
	g, err := models.NewGraph(spec)
	if err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	return g, nil
}

// LoadFile reads a graph from path. An empty path loads the default graph.
func LoadFile(path string) (*models.Graph, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Report logs every authoring issue in g and returns how many there were.
func Report(logger *slog.Logger, g *models.Graph) int {
	issues := g.Validate()
	for _, is := range issues {
		logger.Warn("scenario graph issue", "kind", string(is.Kind), "detail", is.String())
	}
	return len(issues)
}
