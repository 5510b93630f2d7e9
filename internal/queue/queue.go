package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypeRenderImage = "post:render_image"

const (
	renderMaxRetry = 3
	renderTimeout  = 5 * time.Minute
)

type RenderImagePayload struct {
	PostID int64 `json:"post_id"`
}

// Client enqueues background work on Redis.
type Client struct {
	asynq *asynq.Client
}

func NewClient(asynqClient *asynq.Client) *Client {
	return &Client{asynq: asynqClient}
}

func NewRenderImageTask(postID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(RenderImagePayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRenderImage, payload,
		asynq.MaxRetry(renderMaxRetry),
		asynq.Timeout(renderTimeout),
	), nil
}

func (c *Client) EnqueueRender(ctx context.Context, postID int64) error {
	task, err := NewRenderImageTask(postID)
	if err != nil {
		return err
	}

	info, err := c.asynq.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}

	slog.Info("render task enqueued", "post_id", postID, "task_id", info.ID, "queue", info.Queue)
	return nil
}
