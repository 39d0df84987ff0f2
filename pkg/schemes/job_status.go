package schemes

//go:generate go run github.com/dmarkham/enumer -type JobStatus -trimprefix JobStatus -transform upper -json -output job_status.gen.go

// JobStatus is the lifecycle state of a submitted job. The string form is
// what appears on the wire and in the status documents workers write back.
type JobStatus int

const (
	JobStatusInitializing JobStatus = iota
	JobStatusQueued
	JobStatusRunning
	JobStatusDone
	JobStatusError
)

// IsTerminal returns true once a job can no longer change state.
func (i JobStatus) IsTerminal() bool {
	return i == JobStatusDone || i == JobStatusError
}
