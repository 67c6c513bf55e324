// Package launch turns a Mesos offer and a queued TaskConfig into the
// TaskInfo the scheduler driver launches, and the small amount of pure
// arithmetic (resource summarizing, port range expansion) the execution
// framework's offer matching needs along the way.
package launch

import (
	mesos "github.com/mesos/mesos-go/mesosproto"

	"github.com/nattofriends/task-processing/structs"
)

// OfferResources is the subset of an offer's resources the matcher
// cares about: total scalars and the full set of individually available
// ports.
type OfferResources struct {
	SlaveID string
	Role    string
	CPUs    float64
	Mem     float64
	Disk    float64
	Ports   []int32
}

// Summarize extracts OfferResources from a raw Mesos offer.
func Summarize(offer *mesos.Offer) OfferResources {
	var res OfferResources
	res.SlaveID = offer.GetSlaveId().GetValue()

	for _, r := range offer.GetResources() {
		if res.Role == "" {
			res.Role = r.GetRole()
		}
		switch r.GetName() {
		case "cpus":
			res.CPUs += r.GetScalar().GetValue()
		case "mem":
			res.Mem += r.GetScalar().GetValue()
		case "disk":
			res.Disk += r.GetScalar().GetValue()
		case "ports":
			res.Ports = append(res.Ports, expandRanges(r.GetRanges())...)
		}
	}
	return res
}

func expandRanges(ranges *mesos.Value_Ranges) []int32 {
	var ports []int32
	for _, rng := range ranges.GetRange() {
		for p := rng.GetBegin(); p <= rng.GetEnd(); p++ {
			ports = append(ports, int32(p))
		}
	}
	return ports
}

// Pool reads the "pool" text attribute off an offer, if present.
func Pool(offer *mesos.Offer) (string, bool) {
	for _, attr := range offer.GetAttributes() {
		if attr.GetName() == "pool" {
			return attr.GetText().GetValue(), true
		}
	}
	return "", false
}

// Fits reports whether res has enough of every scalar resource and at
// least len(cfg.Ports) free ports to run cfg.
func Fits(res OfferResources, cfg structs.TaskConfig) bool {
	return res.CPUs >= cfg.CPUs && res.Mem >= cfg.Mem && res.Disk >= cfg.Disk && len(res.Ports) >= len(cfg.Ports)
}

// Assign picks len(cfg.Ports) host ports from the offer's available set,
// lowest first.
func Assign(res OfferResources, cfg structs.TaskConfig) ([]int32, bool) {
	if len(res.Ports) < len(cfg.Ports) {
		return nil, false
	}
	return res.Ports[:len(cfg.Ports)], true
}

// Build constructs the TaskInfo the driver launches, assigning taskID,
// res.SlaveID, and the given host ports. ports must have the same
// length as cfg.Ports and is paired with it index-for-index: ports[i]
// is the assigned host port forwarding to container port cfg.Ports[i].
// cfg.UUID must already reflect the identity (post-retry-rewrite, if
// any) the caller wants on the wire.
func Build(res OfferResources, cfg structs.TaskConfig, ports []int32) *mesos.TaskInfo {
	taskID := cfg.TaskID()
	name := "executor-" + taskID

	resources := []*mesos.Resource{
		scalarResource("cpus", res.Role, cfg.CPUs),
		scalarResource("mem", res.Role, cfg.Mem),
		scalarResource("disk", res.Role, cfg.Disk),
	}
	if len(ports) > 0 {
		resources = append(resources, rangesResource("ports", res.Role, ports))
	}

	var portMappings []*mesos.ContainerInfo_DockerInfo_PortMapping
	for i, p := range ports {
		hostPort := p
		cport := cfg.Ports[i]
		portMappings = append(portMappings, &mesos.ContainerInfo_DockerInfo_PortMapping{
			HostPort:      &hostPort,
			ContainerPort: &cport,
		})
	}

	var volumes []*mesos.Volume
	for _, v := range cfg.Volumes {
		containerPath := v.ContainerPath
		hostPath := v.HostPath
		mode := volumeMode(v.Mode)
		volumes = append(volumes, &mesos.Volume{
			ContainerPath: &containerPath,
			HostPath:      &hostPath,
			Mode:          &mode,
		})
	}

	var parameters []*mesos.Parameter
	for k, v := range cfg.DockerParameters {
		key, val := k, v
		parameters = append(parameters, &mesos.Parameter{Key: &key, Value: &val})
	}

	image := cfg.Image
	network := mesos.ContainerInfo_DockerInfo_BRIDGE
	forcePull := true
	containerType := mesos.ContainerInfo_DOCKER

	cmdValue := cfg.Cmd
	uris := []*mesos.CommandInfo_URI{}

	idVal := taskID
	agentIDVal := res.SlaveID
	nameVal := name

	return &mesos.TaskInfo{
		TaskId:    &mesos.TaskID{Value: &idVal},
		SlaveId:   &mesos.SlaveID{Value: &agentIDVal},
		Name:      &nameVal,
		Resources: resources,
		Command: &mesos.CommandInfo{
			Value: &cmdValue,
			Uris:  uris,
		},
		Container: &mesos.ContainerInfo{
			Type: &containerType,
			Docker: &mesos.ContainerInfo_DockerInfo{
				Image:          &image,
				Network:        &network,
				ForcePullImage: &forcePull,
				PortMappings:   portMappings,
			},
			Parameters: parameters,
			Volumes:    volumes,
		},
	}
}

func volumeMode(mode string) mesos.Volume_Mode {
	if mode == "RW" {
		return mesos.Volume_RW
	}
	return mesos.Volume_RO
}

func scalarResource(name, role string, value float64) *mesos.Resource {
	n, r, t := name, role, mesos.Value_SCALAR
	return &mesos.Resource{
		Name:   &n,
		Role:   &r,
		Type:   &t,
		Scalar: &mesos.Value_Scalar{Value: &value},
	}
}

func rangesResource(name, role string, ports []int32) *mesos.Resource {
	n, r, t := name, role, mesos.Value_RANGES
	// One range per run of consecutive ports, so the resource covers
	// exactly the assigned ports and nothing in between.
	var ranges []*mesos.Value_Range
	for _, p := range ports {
		port := uint64(p)
		if last := len(ranges) - 1; last >= 0 && ranges[last].GetEnd()+1 == port {
			ranges[last].End = &port
			continue
		}
		begin, end := port, port
		ranges = append(ranges, &mesos.Value_Range{Begin: &begin, End: &end})
	}
	return &mesos.Resource{
		Name: &n,
		Role: &r,
		Type: &t,
		Ranges: &mesos.Value_Ranges{
			Range: ranges,
		},
	}
}
