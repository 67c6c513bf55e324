package structs

const (
	TaskStateInited  = "TASK_INITED"
	TaskStateStaging = "TASK_STAGING"
)

// TaskMetadata tracks one in-flight task's state, agent, and state
// timestamp. Like TaskConfig and Event, it is mutated only by replacement:
// the registry stores copies and callers get a fresh copy back from every
// read.
type TaskMetadata struct {
	TaskConfig  TaskConfig
	AgentID     string // empty until launch
	TaskState   string
	TaskStateTS float64 // monotonic seconds
	Retries     int
}

// NewTaskMetadata returns the initial metadata recorded for a task at
// enqueue time: state TASK_INITED, timestamped now.
func NewTaskMetadata(cfg TaskConfig, now float64) TaskMetadata {
	return TaskMetadata{
		TaskConfig:  cfg,
		TaskState:   TaskStateInited,
		TaskStateTS: now,
	}
}

// WithState returns a copy of m with TaskState and TaskStateTS replaced.
// TaskStateTS must be monotonically non-decreasing within one task_id's
// lifetime; callers are responsible for passing an appropriate now.
func (m TaskMetadata) WithState(state string, ts float64) TaskMetadata {
	m.TaskState = state
	m.TaskStateTS = ts
	return m
}

// WithAgentID returns a copy of m with AgentID replaced.
func (m TaskMetadata) WithAgentID(agentID string) TaskMetadata {
	m.AgentID = agentID
	return m
}
