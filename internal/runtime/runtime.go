// Package runtime defines the container runtime driver interface
// (list/inspect/follow-logs) and its only shipped implementation, backed
// by the Docker Go SDK.
package runtime

import (
	"context"
	"time"
)

// ContainerSummary is the list-containers view.
type ContainerSummary struct {
	ID     string
	Name   string
	Image  string
	State  string
	Status string
}

// ContainerHealth captures the inspect-container state fields the core
// needs to diagnose a failure.
type ContainerHealth struct {
	Running       bool
	OOMKilled     bool
	RestartCount  int
	ExitCode      int
	Health        string
	MemoryLimit   int64
	EnvKeys       []string
	RestartPolicy string
	Mounts        []string
	NetworkMode   string
	Ports         []string
}

// ContainerDetail is the full inspect-container result.
type ContainerDetail struct {
	ContainerSummary
	Health ContainerHealth
}

// LogLine is one demultiplexed line from a container's combined
// stdout/stderr stream.
type LogLine struct {
	Container string
	Stream    string // "stdout" or "stderr"
	Message   string
	Timestamp time.Time
}

// ContainerRuntime is the interface the core depends on; it is specified
// only via these operations, with the driver itself kept external.
type ContainerRuntime interface {
	ListContainers(ctx context.Context) ([]ContainerSummary, error)
	InspectContainer(ctx context.Context, nameOrID string) (ContainerDetail, error)
	FollowLogs(ctx context.Context, nameOrID string, out chan<- LogLine) error
}
