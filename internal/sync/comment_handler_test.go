package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	"github.com/nearcircle/backend/internal/models"
)

func mustRaw(t *testing.T, doc interface{}) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	return raw
}

// fakeCommentRepo implements repositories.CommentRepository
type fakeCommentRepo struct {
	existing  map[string]*models.Comment
	created   []*models.Comment
	updated   map[string]map[string]interface{}
	deleted   []string
	createErr error
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		existing: make(map[string]*models.Comment),
		updated:  make(map[string]map[string]interface{}),
	}
}

func (f *fakeCommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, comment)
	f.existing[comment.ExternalID] = comment
	return nil
}

func (f *fakeCommentRepo) GetCommentByExternalID(ctx context.Context, externalID string) (*models.Comment, error) {
	if c, ok := f.existing[externalID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) UpdateCommentFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	f.updated[externalID] = fields
	return nil
}

func (f *fakeCommentRepo) DeleteCommentByExternalID(ctx context.Context, externalID string) error {
	f.deleted = append(f.deleted, externalID)
	return nil
}

// fakePostRepo implements repositories.PostRepository
type fakePostRepo struct {
	posts map[string]*models.Post
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	f.posts[post.ExternalID] = post
	return nil
}

func (f *fakePostRepo) GetPostByExternalID(ctx context.Context, externalID string) (*models.Post, error) {
	if p, ok := f.posts[externalID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) UpdatePostFields(ctx context.Context, externalID string, fields map[string]interface{}) error {
	return nil
}

func (f *fakePostRepo) DeletePostByExternalID(ctx context.Context, externalID string) error {
	delete(f.posts, externalID)
	return nil
}

// fakeDocumentRepo implements repositories.DocumentRepository
type fakeDocumentRepo struct {
	adjustments map[string]int
	err         error
}

func (f *fakeDocumentRepo) AdjustTotalComments(ctx context.Context, postExternalID string, delta int) error {
	if f.err != nil {
		return f.err
	}
	if f.adjustments == nil {
		f.adjustments = make(map[string]int)
	}
	f.adjustments[postExternalID] += delta
	return nil
}

func TestTotalCommentsDelta(t *testing.T) {
	tests := []struct {
		name          string
		beforePresent bool
		afterPresent  bool
		expected      int
	}{
		{"absent to present increments", false, true, 1},
		{"present to absent decrements", true, false, -1},
		{"edit without emptiness toggle is no-op", true, true, 0},
		{"absent to absent is no-op", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := totalCommentsDelta(tt.beforePresent, tt.afterPresent); got != tt.expected {
				t.Errorf("totalCommentsDelta(%v, %v) = %d, want %d",
					tt.beforePresent, tt.afterPresent, got, tt.expected)
			}
		})
	}
}

func TestTotalCommentsDeltaIdempotentDecision(t *testing.T) {
	// The same (before, after) pair must always yield the same delta.
	first := totalCommentsDelta(false, true)
	second := totalCommentsDelta(false, true)
	if first != second {
		t.Errorf("delta decision not stable: %d then %d", first, second)
	}
}

func TestCommentHandlerCreated(t *testing.T) {
	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {ID: 7, ExternalID: "p1", AuthorExternalID: "author"},
	}}
	docs := &fakeDocumentRepo{}
	h := NewCommentHandler(comments, posts, docs)

	ev := ChangeEvent{
		Collection: "comments",
		Operation:  OpInsert,
		DocumentID: "c1",
		After: mustRaw(t, models.CommentDocument{
			PostID:    "p1",
			AuthorID:  "u2",
			Content:   "nice one",
			CreatedAt: time.Now(),
		}),
	}

	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(comments.created) != 1 {
		t.Fatalf("created %d comments, want 1", len(comments.created))
	}
	c := comments.created[0]
	if c.PostID != 7 {
		t.Errorf("comment PostID = %d, want resolved internal id 7", c.PostID)
	}
	if c.PostExternalID != "p1" || c.AuthorExternalID != "u2" {
		t.Errorf("comment ids not mirrored: %+v", c)
	}
	if docs.adjustments["p1"] != 1 {
		t.Errorf("totalComments adjustment = %d, want +1", docs.adjustments["p1"])
	}
}

func TestCommentHandlerCreatedPostLookupMiss(t *testing.T) {
	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[string]*models.Post{}}
	docs := &fakeDocumentRepo{}
	h := NewCommentHandler(comments, posts, docs)

	ev := ChangeEvent{
		Operation:  OpInsert,
		DocumentID: "c1",
		After:      mustRaw(t, models.CommentDocument{PostID: "missing", AuthorID: "u2", Content: "x"}),
	}

	err := h.Handle(context.Background(), ev)
	var se *SyncError
	if !errors.As(err, &se) {
		t.Fatalf("Handle() error = %v, want *SyncError", err)
	}
	if se.Action != models.ActionCreate || se.EntityType != "Comment" || se.EntityID != "c1" {
		t.Errorf("sync error = %s %s %s, want create Comment c1", se.Action, se.EntityType, se.EntityID)
	}
	if docs.adjustments["missing"] != 0 {
		t.Errorf("counter adjusted despite failed sync")
	}
}

func TestCommentHandlerCreatedReplyParentMustExist(t *testing.T) {
	comments := newFakeCommentRepo()
	posts := &fakePostRepo{posts: map[string]*models.Post{
		"p1": {ID: 1, ExternalID: "p1"},
	}}
	h := NewCommentHandler(comments, posts, &fakeDocumentRepo{})

	ev := ChangeEvent{
		Operation:  OpInsert,
		DocumentID: "c2",
		After: mustRaw(t, models.CommentDocument{
			PostID:          "p1",
			AuthorID:        "u2",
			Content:         "reply",
			ParentCommentID: "ghost",
		}),
	}

	var se *SyncError
	if err := h.Handle(context.Background(), ev); !errors.As(err, &se) {
		t.Fatalf("Handle() error = %v, want *SyncError for missing parent", err)
	}
	if len(comments.created) != 0 {
		t.Errorf("reply created despite missing parent")
	}
}

func TestCommentHandlerUpdatedTransitions(t *testing.T) {
	tests := []struct {
		name          string
		beforeContent string
		afterContent  string
		wantDelta     int
	}{
		{"emptied comment decrements", "hello", "", -1},
		{"filled comment increments", "", "hello", 1},
		{"plain edit leaves counter", "hello", "hello world", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := newFakeCommentRepo()
			docs := &fakeDocumentRepo{}
			h := NewCommentHandler(comments, &fakePostRepo{posts: map[string]*models.Post{}}, docs)

			ev := ChangeEvent{
				Operation:  OpUpdate,
				DocumentID: "c1",
				Before:     mustRaw(t, models.CommentDocument{PostID: "p1", AuthorID: "u2", Content: tt.beforeContent}),
				After:      mustRaw(t, models.CommentDocument{PostID: "p1", AuthorID: "u2", Content: tt.afterContent}),
			}

			if err := h.Handle(context.Background(), ev); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := docs.adjustments["p1"]; got != tt.wantDelta {
				t.Errorf("counter delta = %d, want %d", got, tt.wantDelta)
			}
		})
	}
}

func TestCommentHandlerDeleted(t *testing.T) {
	comments := newFakeCommentRepo()
	docs := &fakeDocumentRepo{}
	h := NewCommentHandler(comments, &fakePostRepo{posts: map[string]*models.Post{}}, docs)

	ev := ChangeEvent{
		Operation:  OpDelete,
		DocumentID: "c1",
		Before:     mustRaw(t, models.CommentDocument{PostID: "p1", AuthorID: "u2", Content: "bye"}),
	}

	if err := h.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(comments.deleted) != 1 || comments.deleted[0] != "c1" {
		t.Errorf("deleted = %v, want [c1]", comments.deleted)
	}
	if docs.adjustments["p1"] != -1 {
		t.Errorf("counter delta = %d, want -1", docs.adjustments["p1"])
	}
}

func TestCommentDiffMinimal(t *testing.T) {
	now := time.Now()
	before := &models.CommentDocument{Content: "a", UpdatedAt: now}
	after := &models.CommentDocument{Content: "a", UpdatedAt: now}

	if fields := commentDiff(before, after); len(fields) != 0 {
		t.Errorf("diff of identical documents = %v, want empty", fields)
	}

	after.Content = "b"
	fields := commentDiff(before, after)
	if len(fields) != 1 {
		t.Fatalf("diff = %v, want only content", fields)
	}
	if fields["content"] != "b" {
		t.Errorf("content field = %v, want b", fields["content"])
	}
}
