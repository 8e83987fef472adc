package masscan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const containerRemoveTimeout = 10 * time.Second

// ContainerAPI is the subset of the Docker Engine client used by ContainerRunner.
type ContainerAPI interface {
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
}

// ContainerRunner runs the scanner image with raw socket capabilities on the
// host network. Elevation tokens are ignored; the container supplies the privilege.
type ContainerRunner struct {
	api   ContainerAPI
	image string
}

// NewContainerRunner wraps an existing Docker client.
func NewContainerRunner(api ContainerAPI, image string) *ContainerRunner {
	if image == "" {
		image = DockerImage
	}
	return &ContainerRunner{api: api, image: image}
}

// NewDockerRunner connects to the Docker daemon configured in the environment.
func NewDockerRunner(image string) (*ContainerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return NewContainerRunner(cli, image), nil
}

func (r *ContainerRunner) Name() string {
	return "docker"
}

// Image returns the scanner image reference.
func (r *ContainerRunner) Image() string {
	return r.image
}

// Available checks that the scanner image is present locally.
func (r *ContainerRunner) Available(ctx context.Context, _ CommandLine) error {
	if _, err := r.api.ImageInspect(ctx, r.image); err != nil {
		if errdefs.IsNotFound(err) {
			return &NotFoundError{Binary: r.image, Err: err}
		}
		return fmt.Errorf("failed to inspect image %s: %w", r.image, err)
	}
	return nil
}

// Run creates, starts and waits for a scanner container. The container is
// force-removed on every path, which also kills it after a timeout.
func (r *ContainerRunner) Run(ctx context.Context, cmd CommandLine) RunResult {
	if err := r.Available(ctx, cmd); err != nil {
		return RunResult{Err: err}
	}

	created, err := r.api.ContainerCreate(ctx,
		&container.Config{
			Image: r.image,
			Cmd:   cmd.ScanArgs(),
		},
		&container.HostConfig{
			NetworkMode: "host",
			CapAdd:      []string{"NET_RAW", "NET_ADMIN"},
		},
		nil, nil, "")
	if err != nil {
		return RunResult{Err: r.contextErr(ctx, fmt.Errorf("failed to create container: %w", err))}
	}
	defer func() {
		// Background context: the request context may already be done.
		removeCtx, cancel := context.WithTimeout(context.Background(), containerRemoveTimeout) //nolint:contextcheck
		defer cancel()
		_ = r.api.ContainerRemove(removeCtx, created.ID, container.RemoveOptions{Force: true})
	}()

	if err := r.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return RunResult{Err: r.contextErr(ctx, fmt.Errorf("failed to start container: %w", err))}
	}

	waitCh, errCh := r.api.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	var exitCode int
	select {
	case <-ctx.Done():
		return RunResult{Err: fmt.Errorf("masscan interrupted: %w", ctx.Err())}
	case err := <-errCh:
		return RunResult{Err: r.contextErr(ctx, fmt.Errorf("failed to wait for container: %w", err))}
	case status := <-waitCh:
		if status.Error != nil && status.Error.Message != "" {
			return RunResult{Err: fmt.Errorf("container wait: %s", status.Error.Message)}
		}
		exitCode = int(status.StatusCode)
	}

	logs, err := r.api.ContainerLogs(ctx, created.ID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return RunResult{ExitCode: exitCode, Err: r.contextErr(ctx, fmt.Errorf("failed to read container logs: %w", err))}
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
		return RunResult{ExitCode: exitCode, Err: r.contextErr(ctx, fmt.Errorf("failed to read container logs: %w", err))}
	}

	return RunResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

func (r *ContainerRunner) contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("masscan interrupted: %w", ctxErr)
	}
	return err
}
