package taskname

const (
	// Job lifecycle events, published after the owning transaction commits.
	JobCreated            = "job:created"
	JobApplicationCreated = "job:application:created"
	JobAssigned           = "job:assigned"
	JobStatusChanged      = "job:status:changed"
	JobCancelled          = "job:cancelled"
)

// JobEvents lists every job event task type.
var JobEvents = []string{
	JobCreated,
	JobApplicationCreated,
	JobAssigned,
	JobStatusChanged,
	JobCancelled,
}
