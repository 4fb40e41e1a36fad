package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_KillSpike(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), ForcedDeaths: 4})
	}

	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 1500, ForcedDeaths: 8}), BookmarkKillSpike) {
		t.Error("exactly 2x the average should not trigger")
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 1800, ForcedDeaths: 20}), BookmarkKillSpike) {
		t.Error("expected kill_spike bookmark")
	}
}

func TestBookmarkDetector_SpeedSurge(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 300), SpeedP90: 3})
	}
	if !hasBookmark(bd.Check(WindowStats{WindowEndTick: 1200, SpeedP90: 9}), BookmarkSpeedSurge) {
		t.Error("expected speed_surge bookmark")
	}
}

func TestBookmarkDetector_CapacityReached(t *testing.T) {
	bd := NewBookmarkDetector(10, 100)

	steps := []struct {
		alive int
		want  bool
	}{
		{50, false},
		{100, true},
		{100, false}, // still full
		{80, false},
		{120, true}, // full again
	}
	for i, s := range steps {
		got := hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i), Alive: s.alive}), BookmarkCapacityReached)
		if got != s.want {
			t.Errorf("window %d (alive %d): capacity bookmark = %v, want %v", i, s.alive, got, s.want)
		}
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	fired := -1
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: int32(i * 300), Alive: 500 + i%2})
		if hasBookmark(bookmarks, BookmarkSteadyState) {
			if fired >= 0 {
				t.Fatalf("steady_state fired twice (windows %d and %d)", fired, i)
			}
			fired = i
		}
	}
	// Four windows of history, then five steady checks.
	if fired != 8 {
		t.Errorf("steady_state fired at window %d, want 8", fired)
	}
}

func TestBookmarkDetector_SteadyStateNeedsParticles(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)
	for i := 0; i < 12; i++ {
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int32(i), Alive: 3}), BookmarkSteadyState) {
			t.Fatal("steady_state should need a populated layer")
		}
	}
}
