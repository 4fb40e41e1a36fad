package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillSpike       BookmarkType = "kill_spike"
	BookmarkSpeedSurge      BookmarkType = "speed_surge"
	BookmarkCapacityReached BookmarkType = "capacity_reached"
	BookmarkSteadyState     BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable windows in the particle layer.
type BookmarkDetector struct {
	maxParticles int

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	atCapacity    bool // alive count is at the cap
	steadyWindows int  // consecutive windows with a steady alive count
}

// NewBookmarkDetector creates a detector with the given history size.
// maxParticles is the emitter cap; 0 disables capacity bookmarks.
func NewBookmarkDetector(historySize, maxParticles int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady state detection
	}
	return &BookmarkDetector{
		maxParticles: maxParticles,
		history:      make([]WindowStats, historySize),
		historySize:  historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkKillSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSpeedSurge(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkCapacity(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkKillSpike fires when forced deaths exceed twice the rolling average.
func (bd *BookmarkDetector) checkKillSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.ForcedDeaths
	}
	avg := float64(total) / float64(len(history))

	if float64(stats.ForcedDeaths) > avg*2 && stats.ForcedDeaths >= 10 {
		return &Bookmark{
			Type:        BookmarkKillSpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d forced deaths vs %.1f average", stats.ForcedDeaths, avg),
		}
	}
	return nil
}

// checkSpeedSurge fires when p90 speed exceeds twice the rolling average.
func (bd *BookmarkDetector) checkSpeedSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedP90
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.SpeedP90 > avg*2 {
		return &Bookmark{
			Type:        BookmarkSpeedSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("p90 speed %.2f is %.1fx average (%.2f)", stats.SpeedP90, stats.SpeedP90/avg, avg),
		}
	}
	return nil
}

// checkCapacity fires each time the alive count reaches the cap.
func (bd *BookmarkDetector) checkCapacity(stats WindowStats) *Bookmark {
	if bd.maxParticles <= 0 {
		return nil
	}
	full := stats.Alive >= bd.maxParticles
	defer func() { bd.atCapacity = full }()
	if !full || bd.atCapacity {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCapacityReached,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Alive count reached cap of %d", bd.maxParticles),
	}
}

// checkSteadyState fires once the alive count has held steady for five windows.
func (bd *BookmarkDetector) checkSteadyState(stats WindowStats) *Bookmark {
	if stats.Alive < 10 {
		bd.steadyWindows = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Alive)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Alive) - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.01 means the alive count varies by less than 10%
	if mean > 0 && variance/(mean*mean) < 0.01 {
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}

	if bd.steadyWindows == 5 {
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Alive count steady near %d over 5+ windows", stats.Alive),
		}
	}
	return nil
}
