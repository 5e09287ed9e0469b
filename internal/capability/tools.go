package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/runtime"
)

// runtimeTools exposes list-containers and inspect-container as reasoner
// tools, shared by every capability that may need to consult the runtime
// (analyzeIncident, assessFeasibility).
func runtimeTools(rt runtime.ContainerRuntime) []reasoner.Tool {
	return []reasoner.Tool{
		{
			Name:        "list_containers",
			Description: "List all containers known to the runtime with their current state.",
			Schema:      `{"type":"object","properties":{}}`,
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				summaries, err := rt.ListContainers(ctx)
				if err != nil {
					return "", err
				}
				out, err := json.Marshal(summaries)
				if err != nil {
					return "", err
				}
				return string(out), nil
			},
		},
		{
			Name:        "inspect_container",
			Description: "Inspect a single container by name, returning its detailed health.",
			Schema:      `{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`,
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				name, _ := args["name"].(string)
				if name == "" {
					return "", fmt.Errorf("inspect_container requires a name")
				}
				detail, err := rt.InspectContainer(ctx, name)
				if err != nil {
					return "", err
				}
				out, err := json.Marshal(detail)
				if err != nil {
					return "", err
				}
				return string(out), nil
			},
		},
	}
}
