package job

import (
	"context"
	"log/slog"
	"time"
)

const (
	SweepSchedule      = "@every 00h10m00s"
	DefaultStaleAfter  = 30 * time.Minute
	defaultSweepBudget = time.Minute
)

// StaleFailer fails posts that stayed in the generating state too long.
type StaleFailer interface {
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type RenderSweepJob struct {
	posts      StaleFailer
	staleAfter time.Duration
}

func NewRenderSweepJob(posts StaleFailer, staleAfter time.Duration) *RenderSweepJob {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &RenderSweepJob{
		posts:      posts,
		staleAfter: staleAfter,
	}
}

// SweepStaleRenders is registered with cron and so cannot return an error.
func (j *RenderSweepJob) SweepStaleRenders() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSweepBudget)
	defer cancel()

	n, err := j.posts.FailStale(ctx, j.staleAfter)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if n > 0 {
		slog.Info("stale renders failed", "count", n, "older_than", j.staleAfter.String())
	}
}
