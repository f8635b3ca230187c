// internal/service/draft_service.go
package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"filter-studio/internal/kv"
	"filter-studio/internal/models"
	"filter-studio/internal/scene"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DraftsKey = "filter_studio_drafts_v4"

// PreviewScale is the multiplier used when rasterizing a gallery preview.
const PreviewScale = 0.6

// Sentinel errors, matched with errors.Is().
var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidEventType  = errors.New("unknown event type")
	ErrInvalidOwner      = errors.New("owner id is required")
	ErrEmptyCanvas       = errors.New("canvas document is required")
	ErrCorruptCollection = errors.New("stored collection is corrupt")
)

// DraftService owns the persisted draft collection. The whole collection
// lives under a single store key and is rewritten on every mutation.
//
// Mutations are serialized by mu, so a read-modify-write never interleaves
// with another inside this process. Two processes sharing a backend are
// last-write-wins.
type DraftService struct {
	Store kv.Store
	Log   *zap.Logger

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string

	mu sync.Mutex
}

func NewDraftService(store kv.Store, log *zap.Logger) *DraftService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DraftService{
		Store: store,
		Log:   log,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// SaveOrUpdate stores in for userID. If the user already owns a draft with
// exactly the same canvas document it is overwritten in place: same id,
// fresh createdAt. Otherwise a new draft is appended.
//
// This is the KEY rule of the gallery: re-publishing an unchanged
// composition never produces a duplicate row.
func (s *DraftService) SaveOrUpdate(ctx context.Context, userID string, in models.DraftInput) (models.Draft, error) {
	in, err := normalizeInput(userID, in)
	if err != nil {
		return models.Draft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return models.Draft{}, err
	}

	d, drafts := s.upsert(drafts, userID, in)
	if err := s.persist(ctx, drafts); err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

// Replace deletes the draft being edited and saves the new content in one
// step. editingID may be absent from the store; a draft owned by another
// user is left alone.
func (s *DraftService) Replace(ctx context.Context, userID, editingID string, in models.DraftInput) (models.Draft, error) {
	in, err := normalizeInput(userID, in)
	if err != nil {
		return models.Draft{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return models.Draft{}, err
	}

	drafts = removeOwned(drafts, userID, editingID)
	d, drafts := s.upsert(drafts, userID, in)
	if err := s.persist(ctx, drafts); err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

// SaveScene publishes the current state of a composer for userID.
func (s *DraftService) SaveScene(ctx context.Context, userID string, c scene.Composer, meta models.DraftInput) (models.Draft, error) {
	meta.CanvasJSON = c.Serialize().String()
	meta.PreviewURL = c.RenderPreview(PreviewScale)
	return s.SaveOrUpdate(ctx, userID, meta)
}

// LoadScene hands the stored document of draft id to the composer,
// replacing whatever it held.
func (s *DraftService) LoadScene(ctx context.Context, id string, c scene.Composer) (models.Draft, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return models.Draft{}, err
	}
	doc, err := scene.ParseDocument(d.CanvasJSON)
	if err != nil {
		return models.Draft{}, fmt.Errorf("draft %s: %w", id, err)
	}
	c.Clear()
	c.Deserialize(doc)
	return d, nil
}

// ListAll returns every draft of every user in stored order.
func (s *DraftService) ListAll(ctx context.Context) ([]models.Draft, error) {
	drafts, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if drafts == nil {
		drafts = []models.Draft{}
	}
	return drafts, nil
}

func (s *DraftService) ListByOwner(ctx context.Context, userID string) ([]models.Draft, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Draft, 0, len(all))
	for _, d := range all {
		if d.UserID == userID {
			owned = append(owned, d)
		}
	}
	return owned, nil
}

// Gallery returns all drafts, most recently saved first.
func (s *DraftService) Gallery(ctx context.Context) ([]models.Draft, error) {
	drafts, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(drafts, func(a, b models.Draft) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return drafts, nil
}

func (s *DraftService) Get(ctx context.Context, id string) (models.Draft, error) {
	drafts, err := s.load(ctx)
	if err != nil {
		return models.Draft{}, err
	}
	for _, d := range drafts {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Draft{}, ErrDraftNotFound
}

// DeleteByID removes the draft with id. Deleting a missing id is a no-op.
func (s *DraftService) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := removeByID(drafts, id)
	if len(kept) == len(drafts) {
		return nil
	}
	if err := s.persist(ctx, kept); err != nil {
		return err
	}
	s.Log.Info("draft deleted", zap.String("draft_id", id))
	return nil
}

func (s *DraftService) upsert(drafts []models.Draft, userID string, in models.DraftInput) (models.Draft, []models.Draft) {
	now := s.Now().UnixMilli()

	for i := range drafts {
		if drafts[i].UserID == userID && drafts[i].CanvasJSON == in.CanvasJSON {
			d := drafts[i]
			d.Name = in.Name
			d.EventType = in.EventType
			d.PreviewURL = in.PreviewURL
			d.Price = in.Price
			d.IsTemplate = in.IsTemplate
			d.CreatedAt = now
			drafts[i] = d
			s.Log.Info("draft updated", zap.String("draft_id", d.ID), zap.String("user_id", userID))
			return d, drafts
		}
	}

	d := models.Draft{
		ID:         s.NewID(),
		UserID:     userID,
		Name:       in.Name,
		EventType:  in.EventType,
		CanvasJSON: in.CanvasJSON,
		PreviewURL: in.PreviewURL,
		Price:      in.Price,
		CreatedAt:  now,
		IsTemplate: in.IsTemplate,
	}
	s.Log.Info("draft created", zap.String("draft_id", d.ID), zap.String("user_id", userID))
	return d, append(drafts, d)
}

func (s *DraftService) load(ctx context.Context) ([]models.Draft, error) {
	raw, ok, err := s.Store.Get(ctx, DraftsKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var drafts []models.Draft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		s.Log.Error("draft collection unreadable", zap.Error(err))
		return nil, fmt.Errorf("%w: drafts: %v", ErrCorruptCollection, err)
	}
	return drafts, nil
}

func (s *DraftService) persist(ctx context.Context, drafts []models.Draft) error {
	if drafts == nil {
		drafts = []models.Draft{}
	}
	b, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, DraftsKey, string(b)); err != nil {
		s.Log.Error("failed to persist drafts", zap.Error(err))
		return err
	}
	return nil
}

func normalizeInput(userID string, in models.DraftInput) (models.DraftInput, error) {
	if strings.TrimSpace(userID) == "" {
		return in, ErrInvalidOwner
	}
	if in.Price < 0 {
		return in, ErrInvalidPrice
	}
	if !in.EventType.Valid() {
		return in, ErrInvalidEventType
	}
	if in.CanvasJSON == "" {
		return in, ErrEmptyCanvas
	}
	if strings.TrimSpace(in.Name) == "" {
		in.Name = models.DefaultDraftName(in.EventType)
	}
	return in, nil
}

func removeOwned(drafts []models.Draft, userID, id string) []models.Draft {
	kept := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.ID != id || d.UserID != userID {
			kept = append(kept, d)
		}
	}
	return kept
}

func removeByID(drafts []models.Draft, id string) []models.Draft {
	kept := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return kept
}
