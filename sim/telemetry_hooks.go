package sim

import (
	"log/slog"

	"github.com/pthm-cable/forcefield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Sim) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	stats := s.collector.Flush(s.tick, s.alive, s.emitter.LayerOverLife(), s.sampleSpeeds())
	perfStats := s.perfCollector.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarkDetector.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.outputManager != nil {
			if err := s.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// sampleSpeeds collects particle speeds into a reused buffer.
func (s *Sim) sampleSpeeds() []float64 {
	s.speeds = s.speeds[:0]
	query := s.velFilter.Query()
	for query.Next() {
		s.speeds = append(s.speeds, query.Get().Speed())
	}
	return s.speeds
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Sim) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.createSnapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}

// createSnapshot builds a snapshot from the current layer.
func (s *Sim) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      s.seed,
		Tick:      s.tick,
		LayerTime: s.emitter.LayerTime(),
		Particles: make([]telemetry.ParticleState, 0, s.alive),
		Bookmark:  bookmark,
	}

	query := s.allFilter.Query()
	for query.Next() {
		pos, vel, p := query.Get()
		snapshot.Particles = append(snapshot.Particles, telemetry.ParticleState{
			ID:       p.ID,
			Life:     p.Life,
			LifeTime: p.LifeTime,
			Position: pos.Value,
			Prev:     pos.Prev,
			Velocity: vel.Value,
		})
	}
	return snapshot
}
