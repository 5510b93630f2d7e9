package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// Renderer is the post pipeline step the worker drives.
type Renderer interface {
	RenderPost(ctx context.Context, postID int64, final bool) error
}

type Worker struct {
	posts Renderer
	// lastAttempt reports whether a failure now exhausts the task's retries.
	lastAttempt func(ctx context.Context) bool
}

func NewWorker(posts Renderer) *Worker {
	return &Worker{posts: posts, lastAttempt: isLastAttempt}
}

func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeRenderImage, w.HandleRenderImageTask)
	return mux
}

func isLastAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}
