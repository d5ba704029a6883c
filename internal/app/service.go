package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"cvstudio/api/internal/assets"
	"cvstudio/api/internal/config"
	"cvstudio/api/internal/export"
	"cvstudio/api/internal/history"
	"cvstudio/api/internal/search"
	"cvstudio/api/internal/share"
	"cvstudio/api/internal/store"
)

type dataStore interface {
	Load(ctx context.Context, id string) (store.Document, error)
	Save(ctx context.Context, doc store.Document, expectedVersion int64) (store.Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]store.Document, error)
	Ping(ctx context.Context) error
}

type shareStore interface {
	Create(ctx context.Context, token, documentID string) error
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

type assetStore interface {
	PutPhoto(ctx context.Context, documentID string, r io.Reader, size int64, contentType string) error
	GetPhoto(ctx context.Context, documentID string) (io.ReadCloser, string, error)
	RemovePhoto(ctx context.Context, documentID string) error
}

// DocumentInput is the Create/Update payload.
type DocumentInput struct {
	Resume      store.Resume       `json:"resume"`
	Settings    json.RawMessage    `json:"settings"`
	Name        string             `json:"name"`
	EditHistory *store.EditHistory `json:"editHistory"`
	// Version enables optimistic concurrency on Update when non-zero: the
	// write fails with CONFLICT if the document has moved on.
	Version int64 `json:"version"`
}

type PatchInput struct {
	Action     string `json:"action"`
	SnapshotID string `json:"snapshotId"`
	Name       string `json:"name"`
}

type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service implements the document lifecycle: validation, snapshot history
// with autosave retention, patch actions, share links, search and export.
type Service struct {
	cfg      config.Config
	store    dataStore
	search   *search.Service
	shares   shareStore
	assets   assetStore
	exporter *export.Service
	loc      *time.Location
	now      func() time.Time
}

func New(cfg config.Config, dataStore dataStore, searchSvc *search.Service, shares *share.RedisStore, photos *assets.Store) *Service {
	loc := time.Local
	if cfg.Timezone != "" {
		if parsed, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = parsed
		}
	}
	s := &Service{
		cfg:    cfg,
		store:  dataStore,
		search: searchSvc,
		loc:    loc,
		now:    time.Now,
	}
	if shares != nil {
		s.shares = shares
	}
	if photos != nil {
		s.assets = photos
	}
	s.exporter = export.NewService(dataStore.Load)
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// ShareConfigured reports whether the share-link backend is available.
func (s *Service) ShareConfigured() bool { return s.shares != nil }

// AssetsConfigured reports whether photo storage is available.
func (s *Service) AssetsConfigured() bool { return s.assets != nil }

// CreateDocument validates the payload and persists a new document whose
// current snapshot is the supplied state, with empty history.
func (s *Service) CreateDocument(ctx context.Context, in DocumentInput) (store.Document, error) {
	if err := validateResume(in.Resume); err != nil {
		return store.Document{}, err
	}
	now := s.now()
	doc := store.Document{
		ID:        store.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
		Current:   s.newSnapshot(in, now),
		History:   []store.Snapshot{},
	}
	saved, err := s.store.Save(ctx, doc, 0)
	if err != nil {
		return store.Document{}, fmt.Errorf("create document: %w", err)
	}
	s.indexDocument(saved)
	return saved, nil
}

func (s *Service) GetDocument(ctx context.Context, id string) (store.Document, error) {
	doc, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Document{}, notFoundError("document not found")
	}
	if err != nil {
		return store.Document{}, err
	}
	return doc, nil
}

// ListDocuments returns summaries of every document whose current snapshot
// has a name, newest updates first. Autosave-only documents stay hidden.
func (s *Service) ListDocuments(ctx context.Context) ([]store.Summary, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]store.Summary, 0, len(docs))
	for _, doc := range docs {
		if !doc.Current.Named() {
			continue
		}
		summaries = append(summaries, store.Summary{
			ID:           doc.ID,
			Name:         doc.Current.Name,
			CreatedAt:    doc.CreatedAt,
			UpdatedAt:    doc.UpdatedAt,
			Timestamp:    doc.Current.Timestamp,
			SectionCount: len(doc.Current.Resume.Sections),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// UpdateDocument replaces the current snapshot, pushing the previous one
// into history and applying the retention policy.
func (s *Service) UpdateDocument(ctx context.Context, id string, in DocumentInput) (store.Document, error) {
	if err := validateResume(in.Resume); err != nil {
		return store.Document{}, err
	}
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return store.Document{}, err
	}
	if in.Version != 0 && in.Version != doc.Version {
		return store.Document{}, conflictError("document was modified by another writer")
	}

	now := s.now()
	doc.History = append([]store.Snapshot{doc.Current}, doc.History...)
	doc.Current = s.newSnapshot(in, now)
	doc.History = history.Prune(doc.History, now, s.loc)
	doc.UpdatedAt = now

	saved, err := s.store.Save(ctx, doc, doc.Version)
	if errors.Is(err, store.ErrVersionConflict) {
		return store.Document{}, conflictError("document was modified by another writer")
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("update document %s: %w", id, err)
	}
	s.indexDocument(saved)
	return saved, nil
}

// PatchDocument applies one of the snapshot-level actions: rename, delete,
// clear-edit-history.
func (s *Service) PatchDocument(ctx context.Context, id string, in PatchInput) (store.Document, error) {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return store.Document{}, err
	}

	switch in.Action {
	case "rename":
		if !s.renameSnapshot(&doc, in.SnapshotID, in.Name) {
			return store.Document{}, notFoundError("snapshot not found")
		}
	case "delete":
		if in.SnapshotID == doc.Current.ID {
			if len(doc.History) == 0 {
				return store.Document{}, invalidStateError("cannot delete last remaining snapshot")
			}
			doc.Current = doc.History[0]
			doc.History = doc.History[1:]
		} else {
			// Removing an id that is no longer in history is a no-op.
			doc.History = removeSnapshot(doc.History, in.SnapshotID)
		}
	case "clear-edit-history":
		doc.Current.EditHistory = &store.EditHistory{
			Past:   []store.EditStep{},
			Future: []store.EditStep{},
		}
	default:
		return store.Document{}, unsupportedActionError(in.Action)
	}

	doc.UpdatedAt = s.now()
	saved, err := s.store.Save(ctx, doc, doc.Version)
	if errors.Is(err, store.ErrVersionConflict) {
		return store.Document{}, conflictError("document was modified by another writer")
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("patch document %s: %w", id, err)
	}
	s.indexDocument(saved)
	return saved, nil
}

func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFoundError("document not found")
	}
	if err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeleteDocument(id)
	}
	if s.assets != nil {
		// Orphaned photos are harmless; removal is best effort.
		_ = s.assets.RemovePhoto(ctx, id)
	}
	return nil
}

// Search queries titles, header fields and section text.
func (s *Service) Search(ctx context.Context, q string, limit int) (search.Response, error) {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q}, nil
	}
	return s.search.Search(ctx, search.Query{Text: q, Limit: limit}), nil
}

// CreateShare mints a public read-only share token for the document.
func (s *Service) CreateShare(ctx context.Context, id string) (ShareLink, error) {
	if s.shares == nil {
		return ShareLink{}, domainError(http.StatusServiceUnavailable, "SHARE_UNAVAILABLE", "Share links are not configured", nil)
	}
	if _, err := s.GetDocument(ctx, id); err != nil {
		return ShareLink{}, err
	}
	token := randomToken()
	if err := s.shares.Create(ctx, token, id); err != nil {
		return ShareLink{}, fmt.Errorf("create share link: %w", err)
	}
	return ShareLink{
		Token:     token,
		URL:       "/share/" + token,
		ExpiresAt: s.now().Add(s.cfg.ShareTTL),
	}, nil
}

// ResolveShare returns the shared document with history and edit history
// stripped: share links expose the current state only.
func (s *Service) ResolveShare(ctx context.Context, token string) (store.Document, error) {
	if s.shares == nil {
		return store.Document{}, notFoundError("share link not found")
	}
	id, err := s.shares.Resolve(ctx, token)
	if err != nil {
		return store.Document{}, notFoundError("share link not found")
	}
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return store.Document{}, err
	}
	doc.History = []store.Snapshot{}
	doc.Current.EditHistory = nil
	return doc, nil
}

// Export renders the document's current snapshot through a visual template.
func (s *Service) Export(ctx context.Context, id string, req export.Request) (*export.Result, error) {
	req.DocumentID = id
	result, err := s.exporter.Export(ctx, req)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundError("document not found")
	}
	if errors.Is(err, export.ErrUnknownTemplate) || errors.Is(err, export.ErrUnknownFormat) {
		return nil, validationError(err.Error(), nil)
	}
	if errors.Is(err, export.ErrPDFDependencyMissing) {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF rendering is not available on this host", nil)
	}
	return result, err
}

func (s *Service) UploadPhoto(ctx context.Context, id string, r io.Reader, size int64, contentType string) error {
	if s.assets == nil {
		return domainError(http.StatusServiceUnavailable, "ASSETS_UNAVAILABLE", "Photo storage is not configured", nil)
	}
	if _, err := s.GetDocument(ctx, id); err != nil {
		return err
	}
	if err := s.assets.PutPhoto(ctx, id, r, size, contentType); err != nil {
		return fmt.Errorf("upload photo for %s: %w", id, err)
	}
	return nil
}

func (s *Service) DownloadPhoto(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if s.assets == nil {
		return nil, "", domainError(http.StatusServiceUnavailable, "ASSETS_UNAVAILABLE", "Photo storage is not configured", nil)
	}
	rc, contentType, err := s.assets.GetPhoto(ctx, id)
	if err != nil {
		return nil, "", notFoundError("photo not found")
	}
	return rc, contentType, nil
}

func (s *Service) newSnapshot(in DocumentInput, now time.Time) store.Snapshot {
	snap := store.Snapshot{
		ID:        store.NewID(),
		Timestamp: now,
		Name:      in.Name,
		Resume:    in.Resume.Clone(),
		Settings:  in.Settings,
	}
	if in.EditHistory != nil {
		h := in.EditHistory.Clone()
		history.TruncateEditHistory(&h)
		snap.EditHistory = &h
	}
	return snap
}

func (s *Service) renameSnapshot(doc *store.Document, snapshotID, name string) bool {
	if doc.Current.ID == snapshotID {
		doc.Current.Name = name
		return true
	}
	for i := range doc.History {
		if doc.History[i].ID == snapshotID {
			doc.History[i].Name = name
			return true
		}
	}
	return false
}

func removeSnapshot(snaps []store.Snapshot, id string) []store.Snapshot {
	out := snaps[:0]
	for _, snap := range snaps {
		if snap.ID != id {
			out = append(out, snap)
		}
	}
	return out
}

func (s *Service) indexDocument(doc store.Document) {
	if s.search == nil {
		return
	}
	s.search.IndexDocument(search.RecordFrom(doc))
}

func validateResume(r store.Resume) error {
	if r.Header == nil {
		return validationError("resume.header is required", nil)
	}
	if r.Sections == nil {
		return validationError("resume.sections must be a list", nil)
	}
	for i, sec := range r.Sections {
		if !sec.Type.Valid() {
			return validationError("unknown section type", map[string]any{"index": i, "type": sec.Type})
		}
		if !sec.Column.Valid() {
			return validationError("section column must be left or right", map[string]any{"index": i, "column": sec.Column})
		}
		if !sec.MatchesType() {
			return validationError("section content does not match its declared type", map[string]any{"index": i, "type": sec.Type})
		}
	}
	return nil
}

func randomToken() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
