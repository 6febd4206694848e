// Package descriptor reads the torrent descriptor file: a trivial two-field
// record naming the file size and tracker address for one swarm. The
// format is explicitly out of scope of the core protocol (spec.md §1); it
// is read here as plain JSON, matching the original implementation's own
// choice of serde_json for the identical record (original_source/src/torrent.rs).
package descriptor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Descriptor is the immutable record created once at peer startup.
type Descriptor struct {
	FileSize    uint64 `json:"file_size"`
	TrackerAddr string `json:"tracker_addr"`
}

// Load reads and parses the descriptor file at path. Any error here is
// startup-fatal (spec.md §7).
func Load(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: reading %s: %w", path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: parsing %s: %w", path, err)
	}

	if d.FileSize == 0 {
		return Descriptor{}, fmt.Errorf("descriptor: %s: file_size must be nonzero", path)
	}

	if d.TrackerAddr == "" {
		return Descriptor{}, fmt.Errorf("descriptor: %s: tracker_addr must be set", path)
	}

	return d, nil
}
