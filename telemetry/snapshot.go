package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// SnapshotVersion is the on-disk format written by SaveSnapshot.
const SnapshotVersion = 1

// Snapshot holds the particle layer at one tick.
type Snapshot struct {
	Version int    `json:"version"`
	Seed    uint64 `json:"seed"`
	Tick    int32  `json:"tick"`

	LayerTime float64         `json:"layer_time"` // seconds into the layer loop
	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState is everything needed to recreate one particle entity.
type ParticleState struct {
	ID       uint32  `json:"id"`
	Life     float64 `json:"life"`
	LifeTime float64 `json:"lifetime"`
	Position r3.Vec  `json:"position"`
	Prev     r3.Vec  `json:"prev"`
	Velocity r3.Vec  `json:"velocity"`
}

// fileName is snapshot_<tick>[_<bookmark>].json.
func (s *Snapshot) fileName() string {
	name := fmt.Sprintf("snapshot_%d", s.Tick)
	if s.Bookmark != nil {
		name += "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	}
	return name + ".json"
}

// SaveSnapshot writes snap as indented JSON under dir and returns its path.
func SaveSnapshot(snap *Snapshot, dir string) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(dir, snap.fileName())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Other format
// versions are rejected.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot %s: version %d, want %d", path, snap.Version, SnapshotVersion)
	}
	return snap, nil
}
