package jobs

import "time"

// RunRecorder receives the outcome of every job execution.
type RunRecorder interface {
	RecordJobRun(job string, duration time.Duration, success bool)
}

type noopRunRecorder struct{}

func (noopRunRecorder) RecordJobRun(string, time.Duration, bool) {}

func recorderOrNoop(r RunRecorder) RunRecorder {
	if r == nil {
		return noopRunRecorder{}
	}
	return r
}
