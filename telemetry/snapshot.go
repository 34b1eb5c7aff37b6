package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/murmur/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the engine's animation state at one instant, for
// debugging dumps. It deliberately omits the bulk per-particle arrays;
// the channel means plus the deterministic derivation constants are enough
// to reason about a frame after the fact.
type Snapshot struct {
	Version int `json:"version"`

	TimeSec       float64 `json:"time_sec"`
	Frame         int     `json:"frame"`
	ParticleCount int     `json:"particle_count"`

	Pattern        string `json:"pattern"`
	ActiveSequence string `json:"active_sequence"`

	ScrollY  float64 `json:"scroll_y"`
	Section  string  `json:"section"`
	ScrollT  float64 `json:"scroll_t"`
	FadeMean float64 `json:"fade_mean"`
	MoveMean float64 `json:"move_mean"`

	Preset systems.Preset `json:"preset"`
}

// SaveSnapshot writes a snapshot to dir, named by frame number.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%06d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return &s, nil
}
