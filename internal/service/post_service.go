package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	renderFailedGenerate = "image generation failed"
	renderFailedDecode   = "generated image could not be read"
	renderFailedUpload   = "image upload failed"
	renderFailedQueue    = "image render could not be queued"

	// StaleRenderReason is stored on posts the sweeper gives up on.
	StaleRenderReason = "image generation timed out"

	maxImageBytes = 20 << 20
)

var errImageTooLarge = fmt.Errorf("image exceeds %d bytes", maxImageBytes)

// RenderEnqueuer schedules the background image render for a post.
type RenderEnqueuer interface {
	EnqueueRender(ctx context.Context, postID int64) error
}

type PostService interface {
	// Generate creates a post with its caption and queues the image render.
	// The returned post is in the generating state.
	Generate(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*models.Post, error)
	// RenderPost renders the image for a generating post. Transient failures
	// leave the post generating unless final is set; every other failure
	// marks the post failed and wraps ErrRenderFailed.
	RenderPost(ctx context.Context, postID int64, final bool) error
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
	List(ctx context.Context, userID, brandID int64) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	gen        GenerationService
	ai         AIClient
	pr         repository.PostRepository
	br         repository.BrandRepository
	ma         repository.MediaAssetRepository
	storage    Storage
	queue      RenderEnqueuer
	metrics    metrics.MetricsCollector
	httpClient *http.Client
	now        func() time.Time
}

func NewPostService(
	gen GenerationService,
	ai AIClient,
	pr repository.PostRepository,
	br repository.BrandRepository,
	ma repository.MediaAssetRepository,
	storage Storage,
	queue RenderEnqueuer,
	m metrics.MetricsCollector) PostService {
	return &postService{
		gen:        gen,
		ai:         ai,
		pr:         pr,
		br:         br,
		ma:         ma,
		storage:    storage,
		queue:      queue,
		metrics:    m,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
	}
}

func (s *postService) Generate(ctx context.Context, userID int64, req *transfer.GenerateRequest) (*models.Post, error) {
	if req.BrandID <= 0 {
		return nil, ErrBrandRequired
	}

	brand, found, err := s.br.GetByID(ctx, req.BrandID, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBrandNotFound
	}

	caption, err := s.gen.Caption(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	// Without a user prompt the image follows the caption's description.
	scene := strings.TrimSpace(req.Prompt)
	if scene == "" {
		scene = caption.ImagePrompt
	}
	composed := composeImagePrompt(ctx, s.pr, userID, scene, BrandProfile(brand))

	post := &models.Post{
		UserID:      userID,
		BrandID:     brand.ID,
		Caption:     caption.Caption,
		PromptUsed:  strings.TrimSpace(req.Prompt),
		ImagePrompt: composed.Prompt,
		Status:      models.PostStatusGenerating,
	}

	post.ID, err = s.pr.Create(ctx, nil, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	if err := s.queue.EnqueueRender(ctx, post.ID); err != nil {
		slog.Error("enqueue render failed", "post_id", post.ID, "error", err)
		if err := s.pr.MarkFailed(ctx, post.ID, renderFailedQueue); err != nil {
			slog.Info(err.Error())
		}
		post.Status = models.PostStatusFailed
		post.Error = renderFailedQueue
	}

	return post, nil
}

// RenderPost produces the image for a generating post. Posts that already
// left the generating state are skipped, so repeated deliveries are safe.
func (s *postService) RenderPost(ctx context.Context, postID int64, final bool) error {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.Status != models.PostStatusGenerating {
		slog.Info("skipping render", "post_id", postID, "status", post.Status)
		return nil
	}

	img, err := s.ai.GenerateImage(ctx, post.ImagePrompt)
	if err != nil {
		return s.fail(ctx, post, renderFailedGenerate, err, !final)
	}

	data, err := s.imageBytes(ctx, img)
	if err != nil {
		var dl *downloadError
		return s.fail(ctx, post, renderFailedDecode, err, errors.As(err, &dl) && !final)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown || !filetype.IsImage(data) {
		return s.fail(ctx, post, renderFailedDecode, fmt.Errorf("unsupported image type %q", kind.Extension), false)
	}

	key, err := s.objectKey(ctx, post, kind.Extension)
	if err != nil {
		return s.fail(ctx, post, renderFailedUpload, err, false)
	}

	url, err := s.storage.Upload(ctx, key, data, kind.MIME.Value)
	if err != nil {
		return s.fail(ctx, post, renderFailedUpload, err, !final)
	}

	asset := &models.MediaAsset{
		UserID:   post.UserID,
		PostID:   post.ID,
		FileName: key,
		FileType: kind.MIME.Value,
		FileSize: int64(len(data)),
		FileURL:  url,
	}
	if _, err := s.ma.Create(ctx, nil, asset); err != nil {
		return s.fail(ctx, post, renderFailedUpload, err, !final)
	}

	if err := s.pr.CompleteRender(ctx, post.ID, url); err != nil {
		return err
	}

	s.metrics.RecordRender(models.PostStatusReady)
	slog.Info("post rendered", "post_id", post.ID, "url", url)
	return nil
}

// fail either leaves the post generating for another attempt (retry) or
// marks it failed for good.
func (s *postService) fail(ctx context.Context, post *models.Post, reason string, cause error, retry bool) error {
	if retry {
		slog.Warn("post render attempt failed", "post_id", post.ID, "reason", reason, "error", cause)
		return fmt.Errorf("%s: %w", reason, cause)
	}

	slog.Error("post render failed", "post_id", post.ID, "reason", reason, "error", cause)
	s.metrics.RecordRender(models.PostStatusFailed)
	if err := s.pr.MarkFailed(ctx, post.ID, reason); err != nil {
		slog.Info(err.Error())
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrRenderFailed, reason, cause)
}

// downloadError is a failure fetching a URL-form image, worth retrying.
type downloadError struct {
	err error
}

func (e *downloadError) Error() string { return "image download: " + e.err.Error() }
func (e *downloadError) Unwrap() error { return e.err }

func (s *postService) imageBytes(ctx context.Context, img *GeneratedImage) ([]byte, error) {
	if img.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, err
		}
		if len(data) > maxImageBytes {
			return nil, errImageTooLarge
		}
		return data, nil
	}
	if img.URL == "" {
		return nil, errors.New("empty image")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &downloadError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &downloadError{err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, &downloadError{err: err}
	}
	if len(data) > maxImageBytes {
		return nil, errImageTooLarge
	}
	return data, nil
}

// objectKey is brands/<brand slug>/<nanoid>.<ext>.
func (s *postService) objectKey(ctx context.Context, post *models.Post, ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	prefix := strconv.FormatInt(post.BrandID, 10)
	brand, found, err := s.br.GetByID(ctx, post.BrandID, post.UserID)
	if err != nil {
		slog.Info(err.Error())
	} else if found {
		if sl := slug.Make(brand.BrandName); sl != "" {
			prefix = sl
		}
	}

	return fmt.Sprintf("brands/%s/%s.%s", prefix, id, ext), nil
}

func (s *postService) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.pr.FailStale(ctx, s.now().Add(-olderThan), StaleRenderReason)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("failed stale renders", "count", n)
	}
	return n, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	if postID == 0 {
		err := errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		return nil, ErrPostNotFound
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return post, nil
}

func (s *postService) List(ctx context.Context, userID, brandID int64) ([]*models.Post, error) {
	if brandID > 0 {
		return s.pr.GetByBrandID(ctx, brandID, userID)
	}
	return s.pr.GetByUserID(ctx, userID)
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	if postID == 0 {
		err := errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		return ErrPostNotFound
	}

	if err := s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post: %w", err)
	}

	return nil
}
