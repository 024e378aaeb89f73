package enum

// PrintJobStatus is the lifecycle state of a queued print job.
type PrintJobStatus string

const (
	PrintJobPending    PrintJobStatus = "PENDING"
	PrintJobInProgress PrintJobStatus = "IN_PROGRESS"
	PrintJobDone       PrintJobStatus = "DONE"
	PrintJobError      PrintJobStatus = "ERROR"
)

// String returns the string representation of the print job status
func (s PrintJobStatus) String() string {
	return string(s)
}
