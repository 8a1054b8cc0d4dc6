package progress

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/p-n-ai/cogni/internal/curriculum"
)

// Map is a sparse completion set: an absent key means incomplete.
type Map map[Key]bool

// Clone returns an independent copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		if v {
			out[k] = true
		}
	}
	return out
}

// FromWire converts a persisted progress field, dropping false entries.
func FromWire(p map[string]bool) Map {
	out := make(Map, len(p))
	for k, v := range p {
		if v {
			out[Key(k)] = true
		}
	}
	return out
}

// Wire converts m to the shape the API persists.
func (m Map) Wire() map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		if v {
			out[string(k)] = true
		}
	}
	return out
}

// Equal reports whether both maps mark the same keys complete.
func (m Map) Equal(other Map) bool {
	a, b := m.Clone(), other.Clone()
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// Persister stores a whole progress map, replacing what the server had.
type Persister interface {
	PersistProgress(ctx context.Context, curriculumID string, m Map) error
}

// SyncGateway is the persistence API the store depends on.
type SyncGateway interface {
	Persister
	FetchCurriculum(ctx context.Context, id string) (*curriculum.Curriculum, error)
}

// Revert describes a toggle that was rolled back after a failed persist.
type Revert struct {
	Key      Key
	Seq      uint64
	Restored Map
	Err      error
}

// Stats summarizes completion against the loaded shape.
type Stats struct {
	Completed int
	Total     int
	Percent   int
}

// ModuleStats summarizes one module.
type ModuleStats struct {
	Done        bool
	LessonsDone int
	Lessons     int
}

// Option configures a Store.
type Option func(*Store)

// WithScheme replaces the positional key scheme.
func WithScheme(scheme KeyScheme) Option {
	return func(s *Store) { s.scheme = scheme }
}

// WithEventLogger journals toggles, persists and reverts.
func WithEventLogger(l EventLogger) Option {
	return func(s *Store) { s.events = l }
}

// WithBaseContext sets the context persist calls run under.
func WithBaseContext(ctx context.Context) Option {
	return func(s *Store) { s.baseCtx = ctx }
}

// OnRevert registers a callback fired after a rollback, outside the store lock.
func OnRevert(fn func(Revert)) Option {
	return func(s *Store) { s.onRevert = fn }
}

// WithStaleRollbackGuard skips the rollback of a failed toggle when a later
// toggle has already been confirmed by the server. Without it a late failure
// restores its snapshot and discards the newer, persisted toggle.
func WithStaleRollbackGuard() Option {
	return func(s *Store) { s.guardStale = true }
}

// Store owns the progress map for a single loaded curriculum.
type Store struct {
	gateway    Persister
	scheme     KeyScheme
	events     EventLogger
	baseCtx    context.Context
	onRevert   func(Revert)
	guardStale bool

	mu           sync.Mutex
	loaded       bool
	curriculumID string
	shape        curriculum.Shape
	current      Map
	generation   uint64
	seq          uint64
	confirmed    uint64

	inflight sync.WaitGroup
}

// NewStore creates an empty store. Load must be called before Toggle.
func NewStore(gateway Persister, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		scheme:  DefaultScheme,
		events:  NopEventLogger{},
		baseCtx: context.Background(),
		current: Map{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open fetches a curriculum and returns a store loaded with it.
func Open(ctx context.Context, gateway SyncGateway, id string, opts ...Option) (*Store, *curriculum.Curriculum, error) {
	c, err := gateway.FetchCurriculum(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch curriculum %s: %w", id, err)
	}
	s := NewStore(gateway, opts...)
	s.Load(c)
	return s, c, nil
}

// Load replaces the map with c's persisted progress and caches its shape.
// Results of persists started before the reload are ignored.
func (s *Store) Load(c *curriculum.Curriculum) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.loaded = true
	s.shape = c.Shape()
	if c != nil {
		s.curriculumID = c.ID
		s.current = FromWire(c.Progress)
	} else {
		s.curriculumID = ""
		s.current = Map{}
	}
}

// Scheme returns the key scheme in use.
func (s *Store) Scheme() KeyScheme { return s.scheme }

// CurriculumID returns the id of the loaded curriculum.
func (s *Store) CurriculumID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curriculumID
}

// ToggleModule toggles the module at index m.
func (s *Store) ToggleModule(m int) Map {
	return s.Toggle(s.scheme.ModuleKey(m))
}

// ToggleLesson toggles lesson l of module m.
func (s *Store) ToggleLesson(m, l int) Map {
	return s.Toggle(s.scheme.LessonKey(m, l))
}

// Toggle flips key and returns the new map without waiting for the network.
// The full map is persisted in the background; if that fails, the map is
// restored to its state just before this toggle. Toggles are not queued, so
// overlapping calls race on the server.
func (s *Store) Toggle(key Key) Map {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		slog.Warn("progress toggle before load ignored", "key", key)
		return nil
	}

	snapshot := s.current.Clone()
	next := s.current.Clone()
	if next[key] {
		delete(next, key)
	} else {
		next[key] = true
	}
	s.current = next

	s.seq++
	seq := s.seq
	gen := s.generation
	id := s.curriculumID
	payload := next.Clone()
	result := next.Clone()
	s.inflight.Add(1)
	s.mu.Unlock()

	s.logEvent(Event{
		CurriculumID: id,
		Type:         EventToggled,
		Key:          key,
		Seq:          seq,
		Data:         map[string]any{"completed": payload[key]},
	})

	go s.persist(id, gen, seq, key, snapshot, payload)

	return result
}

func (s *Store) persist(id string, gen, seq uint64, key Key, snapshot, payload Map) {
	defer s.inflight.Done()

	err := s.gateway.PersistProgress(s.baseCtx, id, payload)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		slog.Debug("progress persist result dropped after reload", "curriculum_id", id, "seq", seq)
		return
	}

	if err == nil {
		if seq > s.confirmed {
			s.confirmed = seq
		}
		s.mu.Unlock()
		s.logEvent(Event{CurriculumID: id, Type: EventPersisted, Key: key, Seq: seq})
		return
	}

	if s.guardStale && s.confirmed > seq {
		confirmed := s.confirmed
		s.mu.Unlock()
		slog.Warn("stale progress persist failed, newer state already saved",
			"curriculum_id", id,
			"seq", seq,
			"confirmed_seq", confirmed,
			"error", err,
		)
		s.logEvent(Event{
			CurriculumID: id,
			Type:         EventStaleFailure,
			Key:          key,
			Seq:          seq,
			Data:         map[string]any{"error": err.Error(), "confirmed_seq": confirmed},
		})
		return
	}

	s.current = snapshot
	restored := snapshot.Clone()
	s.mu.Unlock()

	slog.Warn("progress persist failed, toggle reverted",
		"curriculum_id", id,
		"key", key,
		"seq", seq,
		"error", err,
	)
	s.logEvent(Event{
		CurriculumID: id,
		Type:         EventReverted,
		Key:          key,
		Seq:          seq,
		Data:         map[string]any{"error": err.Error()},
	})

	if s.onRevert != nil {
		s.onRevert(Revert{Key: key, Seq: seq, Restored: restored, Err: err})
	}
}

// Wait blocks until every persist started so far has resolved.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Snapshot returns a copy of the current map.
func (s *Store) Snapshot() Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// IsComplete reports whether key is marked complete.
func (s *Store) IsComplete(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current[key]
}

// CompletionPercentage returns the overall completion, 0-100.
func (s *Store) CompletionPercentage() int {
	return s.Stats().Percent
}

// Stats counts completed items against the loaded shape.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Compute(s.scheme, s.shape, s.current)
}

// ModuleStats reports completion for module m. Out-of-range modules are zero.
func (s *Store) ModuleStats(m int) ModuleStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shape.HasModule(m) {
		return ModuleStats{}
	}
	ms := ModuleStats{
		Done:    s.current[s.scheme.ModuleKey(m)],
		Lessons: s.shape[m],
	}
	for l := 0; l < s.shape[m]; l++ {
		if s.current[s.scheme.LessonKey(m, l)] {
			ms.LessonsDone++
		}
	}
	return ms
}

// Compute counts the complete keys of m that exist in shape. Keys left over
// from a longer version of the curriculum, and keys the scheme cannot
// resolve, are ignored.
func Compute(scheme KeyScheme, shape curriculum.Shape, m Map) Stats {
	st := Stats{Total: shape.TotalItems()}
	for k, done := range m {
		if !done {
			continue
		}
		ref, ok := scheme.Resolve(k)
		if !ok || !ref.Within(shape) {
			continue
		}
		st.Completed++
	}
	if st.Total > 0 {
		st.Percent = int(math.Round(100 * float64(st.Completed) / float64(st.Total)))
	}
	return st
}

// Percentage computes the completion of c's persisted progress.
func Percentage(c *curriculum.Curriculum) int {
	if c == nil {
		return 0
	}
	return Compute(DefaultScheme, c.Shape(), FromWire(c.Progress)).Percent
}

func (s *Store) logEvent(e Event) {
	if err := s.events.LogEvent(e); err != nil {
		slog.Warn("failed to journal progress event", "type", e.Type, "error", err)
	}
}
