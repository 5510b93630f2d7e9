package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
)

var errDB = errors.New("db down")

type usageKey struct {
	userID int64
	period time.Time
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	rows    map[usageKey]int
	incErr  error
	getErr  error
	incCall int
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{rows: map[usageKey]int{}}
}

func (f *fakeUsageRepo) Increment(_ context.Context, userID int64, periodStart time.Time, limit *int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incCall++
	if f.incErr != nil {
		return 0, false, f.incErr
	}
	k := usageKey{userID, periodStart}
	used, exists := f.rows[k]
	if exists && limit != nil && used >= *limit {
		return 0, false, nil
	}
	f.rows[k] = used + 1
	return used + 1, true, nil
}

func (f *fakeUsageRepo) Get(_ context.Context, userID int64, periodStart time.Time) (*models.UsagePeriod, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	used, ok := f.rows[usageKey{userID, periodStart}]
	if !ok {
		return nil, false, nil
	}
	return &models.UsagePeriod{UserID: userID, PeriodStart: periodStart, PostsUsed: used}, true, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
	err    error
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[int64]*models.User{}, nextID: 100}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, false, nil
	}
	cp := *u
	return &cp, true, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) GetByStripeCustomerID(_ context.Context, customerID string) (*models.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if customerID != "" && u.StripeCustomerID == customerID {
			cp := *u
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, _ *sql.Tx, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *user
	cp.ID = f.nextID
	if cp.Plan == "" {
		cp.Plan = "free"
	}
	f.users[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[user.ID]; ok {
		u.GoogleID, u.Name, u.ProfilePicture = user.GoogleID, user.Name, user.ProfilePicture
	}
	return nil
}

func (f *fakeUserRepo) UpdateBilling(_ context.Context, id int64, b repository.BillingState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	u.Plan = b.Plan
	if b.StripeCustomerID != "" {
		u.StripeCustomerID = b.StripeCustomerID
	}
	u.StripeSubscriptionID = b.StripeSubscriptionID
	u.SubscriptionStatus = b.SubscriptionStatus
	return nil
}

func (f *fakeUserRepo) Remove(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeBrandRepo struct {
	mu     sync.Mutex
	brands map[int64]*models.Brand
	nextID int64
}

func newFakeBrandRepo(brands ...*models.Brand) *fakeBrandRepo {
	f := &fakeBrandRepo{brands: map[int64]*models.Brand{}}
	for _, b := range brands {
		f.brands[b.ID] = b
		if b.ID > f.nextID {
			f.nextID = b.ID
		}
	}
	return f
}

func (f *fakeBrandRepo) Create(_ context.Context, b *models.Brand) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *b
	cp.ID = f.nextID
	f.brands[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeBrandRepo) GetByID(_ context.Context, id, userID int64) (*models.Brand, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.brands[id]
	if !ok || b.UserID != userID {
		return nil, false, nil
	}
	cp := *b
	return &cp, true, nil
}

func (f *fakeBrandRepo) ListByUserID(_ context.Context, userID int64) ([]*models.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Brand
	for _, b := range f.brands {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBrandRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	list, _ := f.ListByUserID(ctx, userID)
	return len(list), nil
}

func (f *fakeBrandRepo) Update(_ context.Context, b *models.Brand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.brands[b.ID]; ok && cur.UserID == b.UserID {
		cp := *b
		f.brands[b.ID] = &cp
	}
	return nil
}

func (f *fakeBrandRepo) Remove(_ context.Context, id, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.brands[id]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(f.brands, id)
	return true, nil
}

type fakePostRepo struct {
	mu     sync.Mutex
	posts  map[int64]*models.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[int64]*models.Post{}}
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Create(_ context.Context, _ *sql.Tx, post *models.Post) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *post
	cp.ID = f.nextID
	if cp.Status == "" {
		cp.Status = models.PostStatusGenerating
	}
	cp.UpdatedAt = time.Now()
	f.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakePostRepo) filter(keep func(*models.Post) bool) []*models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Post
	for _, p := range f.posts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakePostRepo) GetByUserID(_ context.Context, userID int64) ([]*models.Post, error) {
	return f.filter(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (f *fakePostRepo) GetByBrandID(_ context.Context, brandID, userID int64) ([]*models.Post, error) {
	return f.filter(func(p *models.Post) bool { return p.UserID == userID && p.BrandID == brandID }), nil
}

func (f *fakePostRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	posts, _ := f.GetByUserID(ctx, userID)
	return len(posts), nil
}

func (f *fakePostRepo) CompleteRender(_ context.Context, postID int64, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[postID]; ok {
		p.ImageURL, p.Status, p.Error = imageURL, models.PostStatusReady, ""
	}
	return nil
}

func (f *fakePostRepo) MarkFailed(_ context.Context, postID int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[postID]; ok {
		p.Status, p.Error = models.PostStatusFailed, reason
	}
	return nil
}

func (f *fakePostRepo) FailStale(_ context.Context, olderThan time.Time, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.posts {
		if p.Status == models.PostStatusGenerating && p.UpdatedAt.Before(olderThan) {
			p.Status, p.Error = models.PostStatusFailed, reason
			n++
		}
	}
	return n, nil
}

func (f *fakePostRepo) CheckByUserID(_ context.Context, postID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	return ok && p.UserID == userID, nil
}

func (f *fakePostRepo) Remove(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.posts, id)
	return nil
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	assets []*models.MediaAsset
}

func (f *fakeAssetRepo) Create(_ context.Context, _ *sql.Tx, ma *models.MediaAsset) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ma
	cp.ID = int64(len(f.assets) + 1)
	f.assets = append(f.assets, &cp)
	return cp.ID, nil
}

func (f *fakeAssetRepo) GetByPostID(_ context.Context, postID int64) ([]*models.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MediaAsset
	for _, a := range f.assets {
		if a.PostID == postID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) GetByID(_ context.Context, id int64) (*models.MediaAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

const (
	fakeCaption     = "Fresh ice\u2014first skate.  \n\n\n\nSee you out there."
	fakeHashtags    = "#hockey #skate #gear"
	fakeDescription = "A skate blade carving fresh ice at sunrise."
)

// fakeAI answers by prompt shape so a single fake serves every call a
// generation makes.
type fakeAI struct {
	mu           sync.Mutex
	calls        []string
	imagePrompts []string
	completeErr  func(prompt string) error
	jsonOut      string
	jsonErr      error
	image        *GeneratedImage
	imageErr     error
}

func (f *fakeAI) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, prompt)
	if f.completeErr != nil {
		if err := f.completeErr(prompt); err != nil {
			return "", err
		}
	}
	switch {
	case isHashtagPrompt(prompt):
		return fakeHashtags, nil
	case isDescriptionPrompt(prompt):
		return fakeDescription, nil
	default:
		return fakeCaption, nil
	}
}

func (f *fakeAI) CompleteJSON(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, prompt)
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	if f.jsonOut == "" {
		return `{"captions": ["One", "Two", "Three"]}`, nil
	}
	return f.jsonOut, nil
}

func (f *fakeAI) GenerateImage(_ context.Context, prompt string) (*GeneratedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imagePrompts = append(f.imagePrompts, prompt)
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	if f.image != nil {
		return f.image, nil
	}
	return &GeneratedImage{Base64: base64.StdEncoding.EncodeToString(pngBytes)}, nil
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls) + len(f.imagePrompts)
}

func isHashtagPrompt(p string) bool {
	return strings.Contains(p, "generate exactly 3 short, relevant hashtags")
}

func isDescriptionPrompt(p string) bool {
	return strings.Contains(p, "matching photo")
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

type fakeEnqueuer struct {
	mu      sync.Mutex
	postIDs []int64
	err     error
}

func (f *fakeEnqueuer) EnqueueRender(_ context.Context, postID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.postIDs = append(f.postIDs, postID)
	return nil
}
