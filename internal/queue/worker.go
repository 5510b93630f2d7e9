package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/flowsocial/internal/service"
)

func (w *Worker) HandleRenderImageTask(ctx context.Context, task *asynq.Task) error {
	var payload RenderImagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.PostID <= 0 {
		return fmt.Errorf("invalid post id %d: %w", payload.PostID, asynq.SkipRetry)
	}

	err := w.posts.RenderPost(ctx, payload.PostID, w.lastAttempt(ctx))
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		slog.Info("render task for missing post", "post_id", payload.PostID)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	case errors.Is(err, service.ErrRenderFailed):
		// the failure is already recorded on the post
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}
