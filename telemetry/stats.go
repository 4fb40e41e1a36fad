package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated particle-layer statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Layer state at window end
	Alive         int     `csv:"alive"`
	LayerOverLife float64 `csv:"layer_over_life"`

	// Events during window
	Spawns        int `csv:"spawns"`
	NaturalDeaths int `csv:"natural_deaths"`
	ForcedDeaths  int `csv:"forced_deaths"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`
}

// Quantile returns the empirical p-quantile of sorted, or 0 if it is empty.
func Quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.Empirical, sorted, nil)
}

// ComputeSpeedStats calculates mean, median, p90 and max of speeds.
// values is sorted in place.
func ComputeSpeedStats(values []float64) (mean, p50, p90, peak float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	slices.Sort(values)
	mean = stat.Mean(values, nil)
	p50 = Quantile(values, 0.5)
	p90 = Quantile(values, 0.9)
	peak = values[len(values)-1]
	return mean, p50, p90, peak
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("alive", s.Alive),
		slog.Float64("layer_over_life", s.LayerOverLife),
		slog.Int("spawns", s.Spawns),
		slog.Int("natural_deaths", s.NaturalDeaths),
		slog.Int("forced_deaths", s.ForcedDeaths),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
