package launch

import (
	"testing"

	mesos "github.com/mesos/mesos-go/mesosproto"
	"github.com/shoenig/test/must"

	"github.com/nattofriends/task-processing/structs"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }
func u64p(u uint64) *uint64   { return &u }

func scalarType() *mesos.Value_Type {
	t := mesos.Value_SCALAR
	return &t
}

func rangesType() *mesos.Value_Type {
	t := mesos.Value_RANGES
	return &t
}

func fakeOffer() *mesos.Offer {
	return &mesos.Offer{
		Id:       &mesos.OfferID{Value: strp("fake_offer_id")},
		SlaveId:  &mesos.SlaveID{Value: strp("fake_agent_id")},
		Hostname: strp("fake_hostname"),
		Resources: []*mesos.Resource{
			{Name: strp("cpus"), Role: strp("fake_role"), Type: scalarType(), Scalar: &mesos.Value_Scalar{Value: f64p(10)}},
			{Name: strp("mem"), Role: strp("fake_role"), Type: scalarType(), Scalar: &mesos.Value_Scalar{Value: f64p(1024)}},
			{Name: strp("disk"), Role: strp("fake_role"), Type: scalarType(), Scalar: &mesos.Value_Scalar{Value: f64p(1000)}},
			{Name: strp("ports"), Role: strp("fake_role"), Type: rangesType(), Ranges: &mesos.Value_Ranges{
				Range: []*mesos.Value_Range{{Begin: u64p(31200), End: u64p(31500)}},
			}},
		},
		Attributes: []*mesos.Attribute{
			{Name: strp("pool"), Text: &mesos.Value_Text{Value: strp("fake_pool_text")}},
		},
	}
}

func fakeTask(t *testing.T) structs.TaskConfig {
	t.Helper()
	cfg, err := structs.NewTaskConfig("fake_name", "fake_image", `echo "fake"`, 10, 1024, 1000)
	must.NoError(t, err)
	return cfg.WithPorts([]int32{8888})
}

func TestSummarize(t *testing.T) {
	res := Summarize(fakeOffer())
	must.Eq(t, "fake_agent_id", res.SlaveID)
	must.Eq(t, "fake_role", res.Role)
	must.Eq(t, float64(10), res.CPUs)
	must.Eq(t, float64(1024), res.Mem)
	must.Eq(t, float64(1000), res.Disk)
	must.Eq(t, 301, len(res.Ports))
	must.Eq(t, int32(31200), res.Ports[0])
	must.Eq(t, int32(31500), res.Ports[len(res.Ports)-1])
}

func TestPool(t *testing.T) {
	pool, ok := Pool(fakeOffer())
	must.True(t, ok)
	must.Eq(t, "fake_pool_text", pool)
}

func TestFits(t *testing.T) {
	res := Summarize(fakeOffer())
	must.True(t, Fits(res, fakeTask(t)))

	big, err := structs.NewTaskConfig("big", "image", "cmd", 20, 2048, 2000)
	must.NoError(t, err)
	must.False(t, Fits(res, big))
}

func TestFits_RequiresEnoughPorts(t *testing.T) {
	narrow := OfferResources{CPUs: 10, Mem: 1024, Disk: 1000, Ports: []int32{31200, 31201}}

	zeroPorts := fakeTask(t).WithPorts(nil)
	must.True(t, Fits(narrow, zeroPorts))

	twoPorts := fakeTask(t).WithPorts([]int32{8888, 8889})
	must.True(t, Fits(narrow, twoPorts))

	threePorts := fakeTask(t).WithPorts([]int32{8888, 8889, 8890})
	must.False(t, Fits(narrow, threePorts))
}

func TestAssign_MultiplePorts(t *testing.T) {
	res := Summarize(fakeOffer())
	cfg := fakeTask(t).WithPorts([]int32{8888, 8889, 8890})

	ports, ok := Assign(res, cfg)
	must.True(t, ok)
	must.Eq(t, []int32{31200, 31201, 31202}, ports)
}

func TestAssign_ZeroPorts(t *testing.T) {
	res := Summarize(fakeOffer())
	cfg := fakeTask(t).WithPorts(nil)

	ports, ok := Assign(res, cfg)
	must.True(t, ok)
	must.Len(t, 0, ports)
}

func TestBuild_MultiplePortMappings(t *testing.T) {
	res := Summarize(fakeOffer())
	cfg := fakeTask(t).WithPorts([]int32{8888, 9999})

	ports, ok := Assign(res, cfg)
	must.True(t, ok)
	must.Eq(t, []int32{31200, 31201}, ports)

	info := Build(res, cfg, ports)
	mappings := info.GetContainer().GetDocker().GetPortMappings()
	must.Len(t, 2, mappings)
	must.Eq(t, int32(31200), mappings[0].GetHostPort())
	must.Eq(t, int32(8888), mappings[0].GetContainerPort())
	must.Eq(t, int32(31201), mappings[1].GetHostPort())
	must.Eq(t, int32(9999), mappings[1].GetContainerPort())
}

func TestBuildTaskInfoShape(t *testing.T) {
	res := Summarize(fakeOffer())
	cfg := fakeTask(t).WithVolumes([]structs.Volume{
		{ContainerPath: "fake_container_path", HostPath: "fake_host_path", Mode: "RO"},
	})

	ports, ok := Assign(res, cfg)
	must.True(t, ok)
	must.Eq(t, []int32{31200}, ports)

	info := Build(res, cfg, ports)

	must.Eq(t, cfg.TaskID(), info.GetTaskId().GetValue())
	must.Eq(t, "fake_agent_id", info.GetSlaveId().GetValue())
	must.Eq(t, "executor-"+cfg.TaskID(), info.GetName())
	must.Eq(t, `echo "fake"`, info.GetCommand().GetValue())
	must.Eq(t, 0, len(info.GetCommand().GetUris()))

	must.Eq(t, mesos.ContainerInfo_DOCKER, info.GetContainer().GetType())
	docker := info.GetContainer().GetDocker()
	must.Eq(t, "fake_image", docker.GetImage())
	must.Eq(t, mesos.ContainerInfo_DockerInfo_BRIDGE, docker.GetNetwork())
	must.True(t, docker.GetForcePullImage())
	must.Eq(t, 1, len(docker.GetPortMappings()))
	must.Eq(t, int32(31200), docker.GetPortMappings()[0].GetHostPort())
	must.Eq(t, int32(8888), docker.GetPortMappings()[0].GetContainerPort())

	must.Eq(t, 1, len(info.GetContainer().GetVolumes()))
	must.Eq(t, "fake_container_path", info.GetContainer().GetVolumes()[0].GetContainerPath())

	var cpus, mem, disk float64
	var sawPorts bool
	for _, r := range info.GetResources() {
		switch r.GetName() {
		case "cpus":
			cpus = r.GetScalar().GetValue()
		case "mem":
			mem = r.GetScalar().GetValue()
		case "disk":
			disk = r.GetScalar().GetValue()
		case "ports":
			sawPorts = true
			must.Eq(t, uint64(31200), r.GetRanges().GetRange()[0].GetBegin())
			must.Eq(t, uint64(31200), r.GetRanges().GetRange()[0].GetEnd())
		}
	}
	must.Eq(t, float64(10), cpus)
	must.Eq(t, float64(1024), mem)
	must.Eq(t, float64(1000), disk)
	must.True(t, sawPorts)
}
