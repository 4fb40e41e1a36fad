// Package telemetry provides particle-layer statistics, performance timing,
// bookmarks and experiment output.
package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	// Event counters for current window
	spawns        int
	naturalDeaths int
	forcedDeaths  int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// StartAt begins the current window at tick, as after a resume.
func (c *Collector) StartAt(tick int32) {
	c.windowStartTick = tick
}

// RecordSpawns records n emitted particles.
func (c *Collector) RecordSpawns(n int) {
	c.spawns += n
}

// RecordDeaths records removed particles. forced is the share killed by a
// force; the rest ran out of life.
func (c *Collector) RecordDeaths(removed, forced int) {
	forced = min(forced, removed)
	c.forcedDeaths += forced
	c.naturalDeaths += removed - forced
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// speeds is sorted in place.
func (c *Collector) Flush(currentTick int32, alive int, layerOverLife float64, speeds []float64) WindowStats {
	mean, p50, p90, peak := ComputeSpeedStats(speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Alive:           alive,
		LayerOverLife:   layerOverLife,
		Spawns:          c.spawns,
		NaturalDeaths:   c.naturalDeaths,
		ForcedDeaths:    c.forcedDeaths,
		SpeedMean:       mean,
		SpeedP50:        p50,
		SpeedP90:        p90,
		SpeedMax:        peak,
	}

	c.windowStartTick = currentTick
	c.spawns = 0
	c.naturalDeaths = 0
	c.forcedDeaths = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
