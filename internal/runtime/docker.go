package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerRuntime implements ContainerRuntime against a local Docker daemon.
type DockerRuntime struct {
	cli *client.Client
}

// NewDockerRuntime connects to the daemon using the ambient environment
// (DOCKER_HOST, TLS certs, etc.), matching client.NewClientWithOpts's
// standard env-from-client negotiation.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("connecting to docker: %w", err)
	}
	return &DockerRuntime{cli: cli}, nil
}

// ListContainers implements ContainerRuntime.
func (d *DockerRuntime) ListContainers(ctx context.Context) ([]ContainerSummary, error) {
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	out := make([]ContainerSummary, 0, len(containers))
	for _, c := range containers {
		name := c.ID
		if len(c.Names) > 0 {
			name = strings.TrimPrefix(c.Names[0], "/")
		}
		out = append(out, ContainerSummary{
			ID:     c.ID,
			Name:   name,
			Image:  c.Image,
			State:  c.State,
			Status: c.Status,
		})
	}
	return out, nil
}

// InspectContainer implements ContainerRuntime.
func (d *DockerRuntime) InspectContainer(ctx context.Context, nameOrID string) (ContainerDetail, error) {
	info, err := d.cli.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return ContainerDetail{}, fmt.Errorf("inspecting %s: %w", nameOrID, err)
	}

	detail := ContainerDetail{
		ContainerSummary: ContainerSummary{
			ID:    info.ID,
			Name:  strings.TrimPrefix(info.Name, "/"),
			Image: info.Config.Image,
		},
	}
	if info.State != nil {
		detail.State = info.State.Status
		detail.Status = info.State.Status
		detail.Health.Running = info.State.Running
		detail.Health.OOMKilled = info.State.OOMKilled
		detail.Health.RestartCount = info.RestartCount
		detail.Health.ExitCode = info.State.ExitCode
		if info.State.Health != nil {
			detail.Health.Health = info.State.Health.Status
		}
	}
	if info.HostConfig != nil {
		detail.Health.MemoryLimit = info.HostConfig.Memory
		detail.Health.RestartPolicy = string(info.HostConfig.RestartPolicy.Name)
		detail.Health.NetworkMode = string(info.HostConfig.NetworkMode)
	}
	for _, e := range info.Config.Env {
		if idx := strings.IndexByte(e, '='); idx >= 0 {
			detail.Health.EnvKeys = append(detail.Health.EnvKeys, e[:idx])
		}
	}
	for _, m := range info.Mounts {
		detail.Health.Mounts = append(detail.Health.Mounts, fmt.Sprintf("%s:%s", m.Source, m.Destination))
	}
	for port, bindings := range info.NetworkSettings.Ports {
		for _, b := range bindings {
			detail.Health.Ports = append(detail.Health.Ports, fmt.Sprintf("%s->%s:%s", port, b.HostIP, b.HostPort))
		}
	}

	return detail, nil
}

// FollowLogs implements ContainerRuntime: it streams combined stdout+stderr
// starting from "now" and demultiplexes with stdcopy, sending one LogLine
// per newline-terminated frame. It blocks until ctx is cancelled or the
// stream ends.
func (d *DockerRuntime) FollowLogs(ctx context.Context, nameOrID string, out chan<- LogLine) error {
	since := time.Now().UTC().Format(time.RFC3339Nano)
	reader, err := d.cli.ContainerLogs(ctx, nameOrID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Since:      since,
	})
	if err != nil {
		return fmt.Errorf("following logs for %s: %w", nameOrID, err)
	}
	defer reader.Close()

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	done := make(chan error, 1)

	go func() {
		_, err := stdcopy.StdCopy(stdoutW, stderrW, reader)
		stdoutW.CloseWithError(err)
		stderrW.CloseWithError(err)
		done <- err
	}()

	go pump(ctx, nameOrID, "stdout", stdoutR, out)
	go pump(ctx, nameOrID, "stderr", stderrR, out)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func pump(ctx context.Context, container, stream string, r io.Reader, out chan<- LogLine) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case out <- LogLine{Container: container, Stream: stream, Message: line, Timestamp: time.Now().UTC()}:
		case <-ctx.Done():
			return
		}
	}
}
