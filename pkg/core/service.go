package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "@dreams"

const maxIDAttempts = 8

// Config holds the collaborators of the entry store.
type Config struct {
	Storage Storage
	Codec   Codec // required
	Key     string
	Logger  *slog.Logger

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// NewID generates entry ids. Defaults to random UUIDs.
	NewID func() string

	ReadOnly bool
	// Strict makes undecodable blobs fail with ErrCorrupt instead of reading as empty.
	Strict bool
	// TagPolicy, when set, is consulted before tags are written.
	TagPolicy TagPolicy
}

// Service is the entry store: durable CRUD over the dream collection.
//
// Every mutation is a full read-modify-write of the blob stored under Key.
// Mutations issued through the same Service are serialized; writers in
// other processes are not coordinated and the last write wins.
type Service struct {
	storage Storage
	codec   Codec
	key     string
	logger  *slog.Logger
	clock   func() time.Time
	newID   func() string
	policy  TagPolicy

	readOnly bool
	strict   bool

	mu        sync.RWMutex
	writes    int
	lastWrite *time.Time
}

// NewService creates a new Service.
func NewService(cfg Config) *Service {
	s := &Service{
		storage:  cfg.Storage,
		codec:    cfg.Codec,
		key:      cfg.Key,
		logger:   cfg.Logger,
		clock:    cfg.Clock,
		newID:    cfg.NewID,
		policy:   cfg.TagPolicy,
		readOnly: cfg.ReadOnly,
		strict:   cfg.Strict,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	return s
}

// Key returns the storage key used by the service.
func (s *Service) Key() string {
	return s.key
}

// List returns the full persisted collection in storage order (newest first).
// A missing blob reads as an empty collection. An undecodable blob also reads
// as empty unless the service is strict, in which case ErrCorrupt is returned.
func (s *Service) List(ctx context.Context) ([]Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

// Get returns the dream with the given id. A missing id is reported through ok, not an error.
func (s *Service) Get(ctx context.Context, id string) (Dream, bool, error) {
	dreams, err := s.List(ctx)
	if err != nil {
		return Dream{}, false, err
	}
	for _, d := range dreams {
		if d.ID == id {
			return d, true, nil
		}
	}
	return Dream{}, false, nil
}

// Create validates the draft, stamps it and prepends it to the collection.
func (s *Service) Create(ctx context.Context, draft Draft) (Dream, error) {
	if s.readOnly {
		return Dream{}, ErrReadOnly
	}

	title := strings.TrimSpace(draft.Title)
	content := strings.TrimSpace(draft.Content)
	if err := validateText(title, content); err != nil {
		return Dream{}, err
	}
	tags := normalizeTags(draft.Tags)
	if err := s.checkExtras(tags, draft.Mood); err != nil {
		return Dream{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dreams, err := s.load(ctx)
	if err != nil {
		return Dream{}, err
	}

	id, err := s.uniqueID(dreams)
	if err != nil {
		return Dream{}, err
	}

	now := NewTimestamp(s.clock())
	dream := Dream{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
		Mood:      draft.Mood,
		Location:  strings.TrimSpace(draft.Location),
	}

	next := make([]Dream, 0, len(dreams)+1)
	next = append(next, dream)
	next = append(next, dreams...)

	if err := s.store(ctx, next); err != nil {
		return Dream{}, err
	}
	s.logger.Debug("dream created", "id", dream.ID, "count", len(next))
	return dream, nil
}

// Update merges the patch into the dream with the given id and refreshes UpdatedAt.
// The id and CreatedAt are never changed.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Dream, error) {
	if s.readOnly {
		return Dream{}, ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dreams, err := s.load(ctx)
	if err != nil {
		return Dream{}, err
	}

	idx := -1
	for i, d := range dreams {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Dream{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	updated, err := s.apply(dreams[idx], patch)
	if err != nil {
		return Dream{}, err
	}

	next := make([]Dream, len(dreams))
	copy(next, dreams)
	next[idx] = updated

	if err := s.store(ctx, next); err != nil {
		return Dream{}, err
	}
	s.logger.Debug("dream updated", "id", id)
	return updated, nil
}

// Delete removes the dream with the given id. Deleting an unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dreams, err := s.load(ctx)
	if err != nil {
		return err
	}

	next := make([]Dream, 0, len(dreams))
	for _, d := range dreams {
		if d.ID != id {
			next = append(next, d)
		}
	}
	if len(next) == len(dreams) {
		return nil
	}

	if err := s.store(ctx, next); err != nil {
		return err
	}
	s.logger.Debug("dream deleted", "id", id, "count", len(next))
	return nil
}

// Reset discards the stored collection. It is the recovery path for corrupt state.
func (s *Service) Reset(ctx context.Context) error {
	if s.readOnly {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStorage, s.key, err)
	}
	s.recordWrite()
	s.logger.Info("collection reset", "key", s.key)
	return nil
}

// Watch observes external changes to the collection if the storage supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.storage.(Watchable)
	if !ok {
		return nil, ErrNotSupported
	}
	return w.Watch(ctx, s.key)
}

// Close releases the storage adapter when it holds resources (database handles, connections).
func (s *Service) Close() error {
	if c, ok := s.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) load(ctx context.Context) ([]Dream, error) {
	data, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.key, err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return []Dream{}, nil
	}

	dreams, err := s.codec.Decode(data)
	if err != nil {
		if s.strict {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		s.logger.Warn("stored collection is unreadable, treating as empty", "key", s.key, "error", err)
		return []Dream{}, nil
	}
	if dreams == nil {
		dreams = []Dream{}
	}
	for i := range dreams {
		if dreams[i].Tags == nil {
			dreams[i].Tags = []string{}
		}
	}
	return dreams, nil
}

func (s *Service) store(ctx context.Context, dreams []Dream) error {
	data, err := s.codec.Encode(dreams)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, s.key, err)
	}
	s.recordWrite()
	return nil
}

func (s *Service) apply(d Dream, p Patch) (Dream, error) {
	if p.Title != nil {
		d.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		d.Content = strings.TrimSpace(*p.Content)
	}
	if err := validateText(d.Title, d.Content); err != nil {
		return Dream{}, err
	}

	mood := d.Mood
	if p.Mood != nil {
		mood = *p.Mood
	}
	tags := d.Tags
	if p.Tags != nil {
		tags = normalizeTags(*p.Tags)
	}
	if p.Tags != nil || p.Mood != nil {
		if err := s.checkExtras(tags, mood); err != nil {
			return Dream{}, err
		}
	}
	d.Tags = tags
	d.Mood = mood

	if p.Bookmarked != nil {
		d.Bookmarked = *p.Bookmarked
	}
	if p.Location != nil {
		d.Location = strings.TrimSpace(*p.Location)
	}

	now := NewTimestamp(s.clock())
	if now.Before(d.UpdatedAt.Time) {
		now = d.UpdatedAt
	}
	d.UpdatedAt = now
	return d, nil
}

func (s *Service) checkExtras(tags []string, mood Mood) error {
	if !mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", ErrValidation, mood)
	}
	if s.policy != nil {
		if err := s.policy.CheckTags(tags); err != nil {
			if errors.Is(err, ErrValidation) {
				return err
			}
			return fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	return nil
}

func (s *Service) uniqueID(existing []Dream) (string, error) {
	taken := make(map[string]bool, len(existing))
	for _, d := range existing {
		taken[d.ID] = true
	}
	for range maxIDAttempts {
		id := s.newID()
		if id != "" && !taken[id] {
			return id, nil
		}
		s.logger.Warn("generated id collided, drawing again", "id", id)
	}
	return "", fmt.Errorf("could not generate a unique id after %d attempts", maxIDAttempts)
}

func (s *Service) recordWrite() {
	now := s.clock()
	s.writes++
	s.lastWrite = &now
}

func validateText(title, content string) error {
	switch {
	case title == "" && content == "":
		return fmt.Errorf("%w: title and content are required", ErrValidation)
	case title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case content == "":
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	return nil
}
