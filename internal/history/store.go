// Package history keeps past proposals, newest first, in local state.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/repository"
)

type Store struct {
	state  repository.StateStore
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	entries  []entity.HistoryEntry
	activeID string
}

type Option func(*Store)

// WithClock overrides the time source used for new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(state repository.StateStore, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{state: state, logger: logger, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads persisted history. It is meant to run once at startup. A corrupt
// payload empties the store and the key is removed; the error is returned for
// reporting only.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.state.Get(ctx, constants.HistoryKey)
	if err != nil {
		s.logger.Error("history.load.failed", "error", err)
		return common.NewPersistenceError("load history", err)
	}
	if !ok {
		return nil
	}

	var entries []entity.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("history.load.corrupt", "bytes", len(raw), "error", err)
		s.mu.Lock()
		s.entries, s.activeID = nil, ""
		s.mu.Unlock()
		if derr := s.state.Delete(ctx, constants.HistoryKey); derr != nil {
			s.logger.Error("history.reset.failed", "error", derr)
		}
		return common.NewPersistenceError("history was corrupt and has been reset", err)
	}

	sortNewestFirst(entries)
	s.mu.Lock()
	s.entries, s.activeID = entries, ""
	s.mu.Unlock()
	s.logger.Debug("history.load.ok", "entries", len(entries))
	return nil
}

// NewEntry builds an entry stamped with the store clock. Ids are
// "item-<unix millis>", bumped forward on collision.
func (s *Store) NewEntry(p entity.Proposal, priority constants.Priority) entity.HistoryEntry {
	created := s.now().UTC()

	s.mu.RLock()
	defer s.mu.RUnlock()
	millis := created.UnixMilli()
	id := fmt.Sprintf("item-%d", millis)
	for s.indexOf(id) >= 0 {
		millis++
		id = fmt.Sprintf("item-%d", millis)
	}
	return entity.HistoryEntry{
		ID:          id,
		ProductName: p.ProductName.String(),
		Proposal:    p,
		CreatedAt:   created,
		Priority:    priority,
	}
}

// Append inserts entry and re-sorts newest first. Among equal timestamps the
// most recently appended entry comes first.
func (s *Store) Append(ctx context.Context, entry entity.HistoryEntry) error {
	s.mu.Lock()
	s.entries = append([]entity.HistoryEntry{entry}, s.entries...)
	sortNewestFirst(s.entries)
	s.mu.Unlock()

	s.logger.Info("history.append", "id", entry.ID, "product", entry.ProductName)
	return s.persist(ctx)
}

// Select marks an entry active and returns its proposal.
func (s *Store) Select(id string) (entity.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return entity.Proposal{}, common.NewAppError("HISTORY_NOT_FOUND", fmt.Sprintf("history entry %s not found", id), common.ErrNotFound)
	}
	s.activeID = id
	return s.entries[i].Proposal, nil
}

// Delete removes one entry and clears the active selection if it pointed there.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return common.NewAppError("HISTORY_NOT_FOUND", fmt.Sprintf("history entry %s not found", id), common.ErrNotFound)
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()

	s.logger.Info("history.delete", "id", id)
	return s.persist(ctx)
}

// Clear empties the store and the active selection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries, s.activeID = nil, ""
	s.mu.Unlock()

	s.logger.Info("history.clear")
	return s.persist(ctx)
}

// List returns a copy of all entries, newest first.
func (s *Store) List() []entity.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.HistoryEntry(nil), s.entries...)
}

// Deselect clears the active selection and keeps every entry.
func (s *Store) Deselect() {
	s.mu.Lock()
	s.activeID = ""
	s.mu.Unlock()
}

// Active returns the selected entry, if any.
func (s *Store) Active() (entity.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.entries[i], true
	}
	return entity.HistoryEntry{}, false
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// persist rewrites the full list. In-memory state is kept when the write fails.
func (s *Store) persist(ctx context.Context) error {
	s.mu.RLock()
	entries := s.entries
	if entries == nil {
		entries = []entity.HistoryEntry{}
	}
	raw, err := json.Marshal(entries)
	s.mu.RUnlock()
	if err != nil {
		return common.NewPersistenceError("encode history", err)
	}
	if err := s.state.Put(ctx, constants.HistoryKey, raw); err != nil {
		s.logger.Error("history.save.failed", "error", err)
		return common.NewPersistenceError("save history", err)
	}
	return nil
}

func sortNewestFirst(entries []entity.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
