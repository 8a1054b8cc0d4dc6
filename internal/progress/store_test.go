package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/p-n-ai/cogni/internal/curriculum"
	"github.com/p-n-ai/cogni/internal/progress"
)

var errOffline = errors.New("network down")

// gateway is a scripted SyncGateway. Each persist call blocks until the test
// releases it, unless auto is set.
type gateway struct {
	mu       sync.Mutex
	auto     error
	autoSet  bool
	calls    []progress.Map
	releases []chan error
	fetched  *curriculum.Curriculum
	fetchErr error
}

func succeeding() *gateway { return &gateway{autoSet: true} }

func failing(err error) *gateway { return &gateway{auto: err, autoSet: true} }

func blocking() *gateway { return &gateway{} }

func (g *gateway) FetchCurriculum(_ context.Context, _ string) (*curriculum.Curriculum, error) {
	return g.fetched, g.fetchErr
}

func (g *gateway) PersistProgress(_ context.Context, _ string, m progress.Map) error {
	g.mu.Lock()
	g.calls = append(g.calls, m.Clone())
	if g.autoSet {
		err := g.auto
		g.mu.Unlock()
		return err
	}
	ch := make(chan error, 1)
	g.releases = append(g.releases, ch)
	g.mu.Unlock()
	return <-ch
}

func (g *gateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// waitCalls blocks until n persist calls have arrived.
func (g *gateway) waitCalls(t *testing.T, n int) {
	t.Helper()
	waitFor(t, func() bool { return g.callCount() >= n })
}

func (g *gateway) release(i int, err error) {
	g.mu.Lock()
	ch := g.releases[i]
	g.mu.Unlock()
	ch <- err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func twoModuleCurriculum() *curriculum.Curriculum {
	return &curriculum.Curriculum{
		ID:    "cur-1",
		Title: "Algebra",
		Modules: []curriculum.Module{
			{Title: "Variables", Lessons: []curriculum.Lesson{{Title: "Letters"}, {Title: "Expressions"}}},
			{Title: "Equations", Lessons: []curriculum.Lesson{{Title: "Balancing"}}},
		},
	}
}

func TestStore_Scenario(t *testing.T) {
	gw := succeeding()
	s := progress.NewStore(gw)
	s.Load(twoModuleCurriculum())
	scheme := s.Scheme()

	steps := []struct {
		key  progress.Key
		want int
	}{
		{scheme.ModuleKey(0), 20},
		{scheme.LessonKey(0, 0), 40},
		{scheme.ModuleKey(0), 20},
	}

	for _, step := range steps {
		s.Toggle(step.key)
		s.Wait()
		if got := s.CompletionPercentage(); got != step.want {
			t.Fatalf("after toggling %s: CompletionPercentage() = %d, want %d", step.key, got, step.want)
		}
	}
}

func TestStore_ToggleReturnsImmediately(t *testing.T) {
	gw := blocking()
	s := progress.NewStore(gw)
	s.Load(twoModuleCurriculum())

	got := s.ToggleLesson(1, 0)
	if !got["module-1-lesson-0"] {
		t.Fatalf("Toggle() = %v, want lesson marked complete", got)
	}
	if !s.IsComplete("module-1-lesson-0") {
		t.Error("store should reflect the optimistic toggle before persistence resolves")
	}

	gw.waitCalls(t, 1)
	gw.release(0, nil)
	s.Wait()
}

func TestStore_PersistsWholeMap(t *testing.T) {
	gw := succeeding()
	c := twoModuleCurriculum()
	c.Progress = map[string]bool{"module-0": true, "module-0-lesson-1": false}

	s := progress.NewStore(gw)
	s.Load(c)
	s.ToggleLesson(0, 0)
	s.Wait()

	if gw.callCount() != 1 {
		t.Fatalf("persist calls = %d, want 1", gw.callCount())
	}
	want := progress.Map{"module-0": true, "module-0-lesson-0": true}
	if !gw.calls[0].Equal(want) {
		t.Errorf("persisted %v, want %v", gw.calls[0], want)
	}
}

func TestStore_DoubleToggleIsIdempotent(t *testing.T) {
	gw := succeeding()
	c := twoModuleCurriculum()
	c.Progress = map[string]bool{"module-1": true}

	s := progress.NewStore(gw)
	s.Load(c)
	before := s.Snapshot()

	s.ToggleLesson(0, 1)
	s.Wait()
	s.ToggleLesson(0, 1)
	s.Wait()

	if !s.Snapshot().Equal(before) {
		t.Errorf("map after double toggle = %v, want %v", s.Snapshot(), before)
	}
}

func TestStore_RollbackOnFailure(t *testing.T) {
	var reverts []progress.Revert
	var mu sync.Mutex
	events := progress.NewMemoryEventLogger()

	gw := failing(errOffline)
	c := twoModuleCurriculum()
	c.Progress = map[string]bool{"module-0-lesson-0": true}

	s := progress.NewStore(gw,
		progress.WithEventLogger(events),
		progress.OnRevert(func(r progress.Revert) {
			mu.Lock()
			reverts = append(reverts, r)
			mu.Unlock()
		}),
	)
	s.Load(c)
	before := s.Snapshot()

	optimistic := s.ToggleModule(0)
	if !optimistic["module-0"] {
		t.Fatal("optimistic map should include the toggle")
	}
	s.Wait()

	if !s.Snapshot().Equal(before) {
		t.Errorf("map after failed persist = %v, want %v", s.Snapshot(), before)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reverts) != 1 {
		t.Fatalf("reverts = %d, want 1", len(reverts))
	}
	if reverts[0].Key != "module-0" || !errors.Is(reverts[0].Err, errOffline) {
		t.Errorf("revert = %+v", reverts[0])
	}
	if !reverts[0].Restored.Equal(before) {
		t.Errorf("revert restored %v, want %v", reverts[0].Restored, before)
	}
	if len(events.OfType(progress.EventReverted)) != 1 {
		t.Errorf("reverted events = %d, want 1", len(events.OfType(progress.EventReverted)))
	}
	if len(events.OfType(progress.EventToggled)) != 1 {
		t.Errorf("toggled events = %d, want 1", len(events.OfType(progress.EventToggled)))
	}
}

// A late failure rolls back to its own snapshot, discarding a newer toggle
// that the server already accepted.
func TestStore_LateFailureDiscardsNewerToggle(t *testing.T) {
	gw := blocking()
	events := progress.NewMemoryEventLogger()
	s := progress.NewStore(gw, progress.WithEventLogger(events))
	s.Load(twoModuleCurriculum())

	s.ToggleModule(0)
	gw.waitCalls(t, 1)
	s.ToggleModule(1)
	gw.waitCalls(t, 2)

	gw.release(1, nil)
	waitFor(t, func() bool { return len(events.OfType(progress.EventPersisted)) == 1 })
	gw.release(0, errOffline)
	s.Wait()

	if got := s.Snapshot(); len(got) != 0 {
		t.Errorf("map = %v, want the pre-first-toggle snapshot (empty)", got)
	}
}

func TestStore_StaleRollbackGuard(t *testing.T) {
	gw := blocking()
	events := progress.NewMemoryEventLogger()
	s := progress.NewStore(gw, progress.WithEventLogger(events), progress.WithStaleRollbackGuard())
	s.Load(twoModuleCurriculum())

	s.ToggleModule(0)
	gw.waitCalls(t, 1)
	s.ToggleModule(1)
	gw.waitCalls(t, 2)

	gw.release(1, nil)
	waitFor(t, func() bool { return len(events.OfType(progress.EventPersisted)) == 1 })
	gw.release(0, errOffline)
	s.Wait()

	want := progress.Map{"module-0": true, "module-1": true}
	if !s.Snapshot().Equal(want) {
		t.Errorf("map = %v, want %v", s.Snapshot(), want)
	}
	if len(events.OfType(progress.EventStaleFailure)) != 1 {
		t.Error("expected a stale failure event")
	}
	if len(events.OfType(progress.EventReverted)) != 0 {
		t.Error("guarded store should not revert")
	}
}

func TestStore_OverlappingTogglesEachPersistFullMap(t *testing.T) {
	gw := blocking()
	s := progress.NewStore(gw)
	s.Load(twoModuleCurriculum())

	s.ToggleModule(0)
	gw.waitCalls(t, 1)
	s.ToggleLesson(1, 0)
	gw.waitCalls(t, 2)

	if !gw.calls[0].Equal(progress.Map{"module-0": true}) {
		t.Errorf("first payload = %v", gw.calls[0])
	}
	if !gw.calls[1].Equal(progress.Map{"module-0": true, "module-1-lesson-0": true}) {
		t.Errorf("second payload = %v", gw.calls[1])
	}

	gw.release(0, nil)
	gw.release(1, nil)
	s.Wait()
}

func TestStore_ReloadDropsPendingResults(t *testing.T) {
	gw := blocking()
	reverted := false
	s := progress.NewStore(gw, progress.OnRevert(func(progress.Revert) { reverted = true }))
	s.Load(twoModuleCurriculum())

	s.ToggleModule(0)
	gw.waitCalls(t, 1)

	fresh := twoModuleCurriculum()
	fresh.Progress = map[string]bool{"module-1": true}
	s.Load(fresh)

	gw.release(0, errOffline)
	s.Wait()

	if reverted {
		t.Error("a persist from before the reload should not revert")
	}
	if !s.Snapshot().Equal(progress.Map{"module-1": true}) {
		t.Errorf("map = %v, want the reloaded progress", s.Snapshot())
	}
}

func TestStore_ToggleBeforeLoad(t *testing.T) {
	gw := succeeding()
	s := progress.NewStore(gw)

	if got := s.ToggleModule(0); got != nil {
		t.Errorf("Toggle() before Load = %v, want nil", got)
	}
	s.Wait()
	if gw.callCount() != 0 {
		t.Error("nothing should be persisted before Load")
	}
}

func TestStore_StaleKeysExcluded(t *testing.T) {
	c := &curriculum.Curriculum{
		ID: "cur-3",
		Modules: []curriculum.Module{
			{Title: "A"}, {Title: "B"}, {Title: "C"},
		},
		Progress: map[string]bool{
			"module-0":          true,
			"module-5":          true,
			"module-0-lesson-0": true,
			"garbage":           true,
		},
	}

	s := progress.NewStore(succeeding())
	s.Load(c)

	st := s.Stats()
	if st.Completed != 1 || st.Total != 3 {
		t.Errorf("Stats() = %+v, want 1 of 3", st)
	}
	if st.Percent != 33 {
		t.Errorf("Percent = %d, want 33", st.Percent)
	}
}

func TestStore_EmptyCurriculum(t *testing.T) {
	s := progress.NewStore(succeeding())
	s.Load(&curriculum.Curriculum{ID: "empty", Modules: []curriculum.Module{}})

	if got := s.CompletionPercentage(); got != 0 {
		t.Errorf("CompletionPercentage() = %d, want 0", got)
	}

	s.Load(nil)
	if got := s.CompletionPercentage(); got != 0 {
		t.Errorf("CompletionPercentage() for nil curriculum = %d, want 0", got)
	}
}

func TestCompute_EmptyAndFull(t *testing.T) {
	shapes := []curriculum.Shape{
		{},
		{0},
		{1},
		{3, 0, 2},
		{5, 5, 5, 5},
		{1, 2, 3, 4, 5, 6, 7},
	}
	scheme := progress.Positional{}

	for _, shape := range shapes {
		if got := progress.Compute(scheme, shape, progress.Map{}).Percent; got != 0 {
			t.Errorf("shape %v empty map: Percent = %d, want 0", shape, got)
		}

		full := progress.Map{}
		for m, lessons := range shape {
			full[scheme.ModuleKey(m)] = true
			for l := 0; l < lessons; l++ {
				full[scheme.LessonKey(m, l)] = true
			}
		}
		want := 100
		if shape.TotalItems() == 0 {
			want = 0
		}
		if got := progress.Compute(scheme, shape, full).Percent; got != want {
			t.Errorf("shape %v full map: Percent = %d, want %d", shape, got, want)
		}
	}
}

func TestModuleStats(t *testing.T) {
	c := twoModuleCurriculum()
	c.Progress = map[string]bool{"module-0": true, "module-0-lesson-1": true}

	s := progress.NewStore(succeeding())
	s.Load(c)

	got := s.ModuleStats(0)
	if !got.Done || got.LessonsDone != 1 || got.Lessons != 2 {
		t.Errorf("ModuleStats(0) = %+v", got)
	}
	if got := s.ModuleStats(9); got != (progress.ModuleStats{}) {
		t.Errorf("ModuleStats(9) = %+v, want zero", got)
	}
}

func TestPercentage(t *testing.T) {
	c := twoModuleCurriculum()
	c.Progress = map[string]bool{"module-0": true, "module-1": true, "module-1-lesson-0": true}

	if got := progress.Percentage(c); got != 60 {
		t.Errorf("Percentage() = %d, want 60", got)
	}
	if got := progress.Percentage(nil); got != 0 {
		t.Errorf("Percentage(nil) = %d, want 0", got)
	}
}

func TestOpen(t *testing.T) {
	gw := succeeding()
	gw.fetched = twoModuleCurriculum()
	gw.fetched.Progress = map[string]bool{"module-0": true}

	s, c, err := progress.Open(t.Context(), gw, "cur-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if c.ID != "cur-1" || s.CurriculumID() != "cur-1" {
		t.Errorf("Open() loaded %q", s.CurriculumID())
	}
	if s.CompletionPercentage() != 20 {
		t.Errorf("CompletionPercentage() = %d, want 20", s.CompletionPercentage())
	}

	missing := succeeding()
	missing.fetchErr = errors.New("not found")
	if _, _, err := progress.Open(t.Context(), missing, "nope"); err == nil {
		t.Error("Open() should fail when the fetch fails")
	}
}
