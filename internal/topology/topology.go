// Package topology parses a compose-style YAML file into the set of
// known container identifiers the validator checks commands against.
package topology

import (
	"os"

	"gopkg.in/yaml.v3"
)

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	ContainerName string `yaml:"container_name"`
}

// Load reads a compose-style topology file and returns the known
// container identifiers: container_name if set, else the service key.
func Load(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc composeFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(doc.Services))
	for serviceKey, svc := range doc.Services {
		name := svc.ContainerName
		if name == "" {
			name = serviceKey
		}
		known[name] = struct{}{}
	}
	return known, nil
}
