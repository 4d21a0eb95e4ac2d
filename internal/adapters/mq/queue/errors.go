package queue

import "errors"

// ErrDropped is reported to a job whose consumer stopped before taking it
// and which could not be put back.
var ErrDropped = errors.New("job dropped by queue")
