package structs

import (
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// Volume is a single bind mount from the host into the task's container.
type Volume struct {
	ContainerPath string
	HostPath      string
	Mode          string
}

// PortMapping is a single assigned host port and the container port it
// forwards to.
type PortMapping struct {
	HostPort      int32
	ContainerPort int32
}

// TaskConfig is an immutable description of a container task request. Its
// only mutation is replacement: callers derive a new TaskConfig with a
// modified field via one of the With* helpers rather than mutating a
// shared value.
type TaskConfig struct {
	Name             string
	UUID             string
	Image            string
	Cmd              string
	CPUs             float64
	Mem              float64
	Disk             float64
	Ports            []int32
	Volumes          []Volume
	CapAdd           []string
	Ulimit           []string
	DockerParameters map[string]string
}

// NewTaskConfig validates and constructs a TaskConfig, generating a fresh
// UUID for its identity. It is the only way a TaskConfig invariant
// violation surfaces: construction fails closed, no state is created.
func NewTaskConfig(name, image, cmd string, cpus, mem, disk float64) (TaskConfig, error) {
	if cpus <= 0 {
		return TaskConfig{}, fmt.Errorf("task config invalid: cpus must be > 0, got %v", cpus)
	}
	if mem < 32 {
		return TaskConfig{}, fmt.Errorf("task config invalid: mem must be >= 32, got %v", mem)
	}
	if disk <= 0 {
		return TaskConfig{}, fmt.Errorf("task config invalid: disk must be > 0, got %v", disk)
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return TaskConfig{}, fmt.Errorf("generating task uuid: %w", err)
	}

	return TaskConfig{
		Name:  name,
		UUID:  id,
		Image: image,
		Cmd:   cmd,
		CPUs:  cpus,
		Mem:   mem,
		Disk:  disk,
	}, nil
}

// TaskID is the composite identity name + "." + uuid.
func (t TaskConfig) TaskID() string {
	return FormatTaskID(t.Name, t.UUID)
}

// WithUUID returns a copy of t with its uuid replaced. Used by the retry
// layer to tag each attempt without mutating the caller's TaskConfig.
func (t TaskConfig) WithUUID(uuid string) TaskConfig {
	t.UUID = uuid
	return t
}

// WithPorts returns a copy of t with its declared container ports replaced.
func (t TaskConfig) WithPorts(ports []int32) TaskConfig {
	t.Ports = append([]int32(nil), ports...)
	return t
}

// WithVolumes returns a copy of t with its volumes replaced.
func (t TaskConfig) WithVolumes(volumes []Volume) TaskConfig {
	t.Volumes = append([]Volume(nil), volumes...)
	return t
}
