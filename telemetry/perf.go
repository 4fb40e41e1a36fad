package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one stage of a simulation step.
type Phase uint8

// Phases in step order.
const (
	PhaseSpawn Phase = iota
	PhaseForces
	PhaseMotion
	PhaseCleanup
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"spawn", "forces", "motion", "cleanup", "telemetry"}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseTimes holds one duration per phase.
type phaseTimes [numPhases]time.Duration

// tickSample is the timing of one step.
type tickSample struct {
	total     time.Duration
	phases    phaseTimes
	particles int
}

// PerfCollector times step phases over a ring of recent ticks.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Frame timing (for graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the tick. particles is the layer size the tick processed.
func (p *PerfCollector) EndTick(particles int) {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)
	p.cur.particles = particles

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Phase breakdown: average duration and share of tick time
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	// Cost of the forces phase per particle, averaged over the window
	AvgParticles        float64
	ForcesPerParticleNS float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var sum phaseTimes
	var particles int
	for i, t := range p.ring[:p.count] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for ph, d := range t.phases {
			sum[ph] += d
		}
		particles += t.particles
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	for ph := range sum {
		s.PhaseAvg[ph] = sum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = 100 * float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	s.AvgParticles = float64(particles) / float64(p.count)
	if particles > 0 {
		s.ForcesPerParticleNS = float64(sum[PhaseForces].Nanoseconds()) / float64(particles)
	}
	return s
}

// LogStats logs a one-line perf summary.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Float64("forces_ns_per_particle", s.ForcesPerParticleNS),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for ph := range numPhases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd           int32   `csv:"window_end"`
	AvgTickUS           int64   `csv:"avg_tick_us"`
	MinTickUS           int64   `csv:"min_tick_us"`
	MaxTickUS           int64   `csv:"max_tick_us"`
	TicksPerSec         float64 `csv:"ticks_per_sec"`
	FPS                 float64 `csv:"fps"`
	AvgParticles        float64 `csv:"avg_particles"`
	ForcesPerParticleNS float64 `csv:"forces_ns_per_particle"`
	SpawnPct            float64 `csv:"spawn_pct"`
	ForcesPct           float64 `csv:"forces_pct"`
	MotionPct           float64 `csv:"motion_pct"`
	CleanupPct          float64 `csv:"cleanup_pct"`
	TelemetryPct        float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:           windowEnd,
		AvgTickUS:           s.AvgTickDuration.Microseconds(),
		MinTickUS:           s.MinTickDuration.Microseconds(),
		MaxTickUS:           s.MaxTickDuration.Microseconds(),
		TicksPerSec:         s.TicksPerSecond,
		FPS:                 s.FPS,
		AvgParticles:        s.AvgParticles,
		ForcesPerParticleNS: s.ForcesPerParticleNS,
		SpawnPct:            s.PhasePct[PhaseSpawn],
		ForcesPct:           s.PhasePct[PhaseForces],
		MotionPct:           s.PhasePct[PhaseMotion],
		CleanupPct:          s.PhasePct[PhaseCleanup],
		TelemetryPct:        s.PhasePct[PhaseTelemetry],
	}
}
