// Package images owns the working set of product photos: batch validation,
// ordering, the primary pick and the encoded list handed to the analyzer.
package images

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
)

// Slot is one accepted image together with everything derived from it.
// Reorders and removals move the whole slot, so the pieces never drift apart.
type Slot struct {
	ID      string
	Image   entity.UploadedImage
	Quality entity.QualityResult
	Encoded *entity.EncodedImage // nil until encoding finishes
}

// Publisher receives the ordered encoded list, primary first.
// It is called with the manager lock held and must not call back into the Manager.
type Publisher interface {
	Publish(encoded []entity.EncodedImage)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func([]entity.EncodedImage)

func (f PublisherFunc) Publish(encoded []entity.EncodedImage) { f(encoded) }

// AddResult reports what a batch did.
type AddResult struct {
	Accepted []Slot
	Skipped  int    // silent duplicates
	Notice   string // first violation, empty when the batch was clean
}

type Limits struct {
	MaxCount  int
	MaxBytes  int64
	NoticeTTL time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.MaxCount <= 0 {
		l.MaxCount = constants.MaxImages
	}
	if l.MaxBytes <= 0 {
		l.MaxBytes = constants.MaxImageBytes
	}
	if l.NoticeTTL <= 0 {
		l.NoticeTTL = 5 * time.Second
	}
	return l
}

type Manager struct {
	limits    Limits
	publisher Publisher
	logger    *slog.Logger
	notice    *Notice

	mu      sync.Mutex
	slots   []Slot
	primary int
}

type Option func(*Manager)

func WithLimits(l Limits) Option {
	return func(m *Manager) { m.limits = l.withDefaults() }
}

func WithPublisher(p Publisher) Option {
	return func(m *Manager) {
		if p != nil {
			m.publisher = p
		}
	}
}

func NewManager(logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		limits:    Limits{}.withDefaults(),
		publisher: PublisherFunc(func([]entity.EncodedImage) {}),
		logger:    logger,
	}
	for _, o := range opts {
		o(m)
	}
	m.notice = NewNotice(m.limits.NoticeTTL)
	return m
}

// Add validates a batch, appends the accepted files and encodes them.
// Checks run per file in order: count, duplicate, media type, size.
// The count check ends the batch; only the first violation becomes the notice.
func (m *Manager) Add(ctx context.Context, files []entity.UploadedImage) (AddResult, error) {
	var res AddResult
	m.notice.Clear()

	m.mu.Lock()
	existing := len(m.slots)
	seen := make(map[dupKey]struct{}, existing+len(files))
	for _, s := range m.slots {
		seen[keyOf(s.Image)] = struct{}{}
	}

	var accepted []Slot
	for _, f := range files {
		if existing+len(accepted) >= m.limits.MaxCount {
			res.note(fmt.Sprintf("Cannot exceed %d images. Some files were not added.", m.limits.MaxCount))
			break
		}
		k := keyOf(f)
		if _, dup := seen[k]; dup {
			res.Skipped++
			continue
		}
		if !constants.IsImageMIME(f.MIMEType) {
			res.note(fmt.Sprintf("File \"%s\" is not a valid image. Please use formats like PNG or JPG.", f.Name))
			continue
		}
		if f.SizeBytes > m.limits.MaxBytes {
			res.note(fmt.Sprintf("File \"%s\" is too large. Maximum size is %dMB.", f.Name, m.limits.MaxBytes/(1024*1024)))
			continue
		}
		seen[k] = struct{}{}
		accepted = append(accepted, Slot{
			ID:      uuid.New().String(),
			Image:   f,
			Quality: entity.PendingQuality(),
		})
	}
	m.slots = append(m.slots, accepted...)
	m.mu.Unlock()

	if res.Notice != "" {
		m.notice.Set(res.Notice)
		m.logger.Info("images.add.rejected", "notice", res.Notice)
	}
	if len(accepted) == 0 {
		return res, nil
	}

	encoded, err := EncodeAll(ctx, accepted)
	if err != nil {
		m.logger.Error("images.encode.failed", "error", err)
		return res, err
	}

	m.mu.Lock()
	for i := range accepted {
		accepted[i].Encoded = &encoded[i]
		if idx := m.indexOf(accepted[i].ID); idx >= 0 {
			m.slots[idx].Encoded = &encoded[i]
		}
	}
	m.publishLocked()
	m.mu.Unlock()

	res.Accepted = accepted
	m.logger.Info("images.add.ok", "accepted", len(accepted), "skipped", res.Skipped, "total", existing+len(accepted))
	return res, nil
}

// Move drags the slot at from to position to, as a drag-and-drop would.
func (m *Manager) Move(from, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inRange(from) || !m.inRange(to) {
		return common.NewValidationError(fmt.Sprintf("move %d to %d: index out of range", from, to))
	}
	if from == to {
		return nil
	}
	s := m.slots[from]
	m.slots = append(m.slots[:from], m.slots[from+1:]...)
	m.slots = append(m.slots[:to], append([]Slot{s}, m.slots[to:]...)...)
	m.primary = shiftPrimaryOnMove(m.primary, from, to)
	m.publishLocked()
	return nil
}

func shiftPrimaryOnMove(primary, from, to int) int {
	switch {
	case primary == from:
		return to
	case from < primary && to >= primary:
		return primary - 1
	case from > primary && to <= primary:
		return primary + 1
	}
	return primary
}

// Remove drops the slot at index. A scoring result still in flight for it is
// discarded on arrival.
func (m *Manager) Remove(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inRange(index) {
		return common.NewValidationError(fmt.Sprintf("remove %d: index out of range", index))
	}
	id := m.slots[index].ID
	m.slots = append(m.slots[:index], m.slots[index+1:]...)
	switch {
	case m.primary == index:
		m.primary = 0
	case m.primary > index:
		m.primary--
	}
	m.logger.Debug("images.remove", "slot_id", id, "remaining", len(m.slots))
	m.publishLocked()
	return nil
}

func (m *Manager) SetPrimary(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inRange(index) {
		return common.NewValidationError(fmt.Sprintf("primary %d: index out of range", index))
	}
	if m.primary == index {
		return nil
	}
	m.primary = index
	m.publishLocked()
	return nil
}

func (m *Manager) Primary() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.primary
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// Snapshot returns a copy of the slots in display order.
func (m *Manager) Snapshot() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Slot, len(m.slots))
	copy(out, m.slots)
	return out
}

// Encoded returns what the last publish carried.
func (m *Manager) Encoded() []entity.EncodedImage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.encodedLocked()
}

// Notice returns the live batch notice, if it has not expired.
func (m *Manager) Notice() (string, bool) {
	return m.notice.Get()
}

// ApplyQuality records a scoring result for the slot it was submitted for.
// Results for slots that no longer exist are dropped.
func (m *Manager) ApplyQuality(slotID string, q entity.QualityResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := m.indexOf(slotID)
	if idx < 0 {
		m.logger.Debug("images.quality.stale", "slot_id", slotID)
		return
	}
	m.slots[idx].Quality = q
	if best, ok := m.autoPrimaryLocked(); ok && best != m.primary {
		m.logger.Info("images.primary.auto", "from", m.primary, "to", best, "slot_id", m.slots[best].ID)
		m.primary = best
		m.publishLocked()
	}
}

// autoPrimaryLocked picks the strictly highest score once every slot has
// resolved and there are at least two. Ties keep the current primary.
func (m *Manager) autoPrimaryLocked() (int, bool) {
	if len(m.slots) < 2 {
		return 0, false
	}
	for _, s := range m.slots {
		if s.Quality.Pending {
			return 0, false
		}
	}
	best, bestScore := m.primary, -1
	if q := m.slots[m.primary].Quality; q.Scored() {
		bestScore = *q.Score
	}
	for i, s := range m.slots {
		if !s.Quality.Scored() {
			continue
		}
		if *s.Quality.Score > bestScore {
			best, bestScore = i, *s.Quality.Score
		}
	}
	return best, true
}

func (m *Manager) publishLocked() {
	m.publisher.Publish(m.encodedLocked())
}

// encodedLocked orders primary first; slots still encoding are left out.
func (m *Manager) encodedLocked() []entity.EncodedImage {
	out := make([]entity.EncodedImage, 0, len(m.slots))
	if m.inRange(m.primary) && m.slots[m.primary].Encoded != nil {
		out = append(out, *m.slots[m.primary].Encoded)
	}
	for i, s := range m.slots {
		if i == m.primary || s.Encoded == nil {
			continue
		}
		out = append(out, *s.Encoded)
	}
	return out
}

func (m *Manager) indexOf(slotID string) int {
	for i, s := range m.slots {
		if s.ID == slotID {
			return i
		}
	}
	return -1
}

func (m *Manager) inRange(i int) bool {
	return i >= 0 && i < len(m.slots)
}

type dupKey struct {
	name string
	size int64
}

func keyOf(f entity.UploadedImage) dupKey {
	return dupKey{name: f.Name, size: f.SizeBytes}
}

func (r *AddResult) note(msg string) {
	if r.Notice == "" {
		r.Notice = msg
	}
}
