package model

// Outcome is what a worker reports for one job.
type Outcome struct {
	Chart Chart
	Err   error
}

// Job carries one subject through the ingestion queue. Done, when set, is
// called exactly once by the worker that handled the job.
type Job struct {
	ID      string
	Subject Subject
	Done    func(Outcome)
}

// Finish reports o to the job's callback, if any.
func (j Job) Finish(o Outcome) {
	if j.Done != nil {
		j.Done(o)
	}
}
