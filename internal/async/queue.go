package async

import (
	"context"
	"time"
)

// Job is the smallest useful unit. Extend as needed later (retry, etc).
type Job struct {
	Path        string
	Hint        string // optional provider hint forwarded to extraction
	SubmittedAt time.Time
	TraceID     string // stamped by the submitter, carried into pipeline logs
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
