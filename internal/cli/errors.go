package cli

import "errors"

// ErrIngestFailures is returned by ingest when any subject failed.
var ErrIngestFailures = errors.New("some subjects failed")
