// Package peerstate holds the mutable state a peer's control loops share:
// its neighbor table, its downloaded-chunk set, and its local file. All
// three are safe for concurrent use under the locking discipline described
// in spec.md §5.
package peerstate

import (
	"sync"

	"github.com/lvbealr/swarmfile/internal/chunkstore"
	"github.com/lvbealr/swarmfile/internal/descriptor"
)

// State is a single peer's shared, concurrently-accessed state.
type State struct {
	ListeningAddr string
	Descriptor    descriptor.Descriptor
	Store         *chunkstore.Store

	neighborMu sync.Mutex
	neighbors  map[string][]uint64

	chunksMu sync.Mutex
	chunks   map[uint64]struct{}
}

// New builds an empty peer state for a leecher.
func New(listeningAddr string, d descriptor.Descriptor, store *chunkstore.Store) *State {
	return &State{
		ListeningAddr: listeningAddr,
		Descriptor:    d,
		Store:         store,
		neighbors:     make(map[string][]uint64),
		chunks:        make(map[uint64]struct{}),
	}
}

// NewSeeder builds a peer state pre-populated with every chunk ID, for a
// peer that starts with the complete file already on disk.
func NewSeeder(listeningAddr string, d descriptor.Descriptor, store *chunkstore.Store) *State {
	s := New(listeningAddr, d, store)
	for _, id := range chunkstore.AllChunkIDs(d.FileSize) {
		s.chunks[id] = struct{}{}
	}

	return s
}
