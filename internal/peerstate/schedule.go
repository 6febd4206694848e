package peerstate

import "math/rand/v2"

// Target identifies a (neighbor, chunk) pair chosen by SelectFetch.
type Target struct {
	Neighbor string
	ChunkID  uint64
}

// SelectFetch implements the fetch scheduling algorithm of spec.md §4.7:
// shuffle the neighbor addresses, then for each in turn scan its advertised
// (already server-shuffled) chunk list for the first chunk not yet
// downloaded. The neighbor-table lock and the downloaded-chunks lock are
// both held for the duration of the scan so the snapshot is consistent;
// no other code path acquires them in the reverse order. Returns ok=false
// if no neighbor currently offers anything missing.
func (s *State) SelectFetch() (target Target, ok bool) {
	s.neighborMu.Lock()
	defer s.neighborMu.Unlock()

	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()

	addrs := make([]string, 0, len(s.neighbors))
	for addr := range s.neighbors {
		addrs = append(addrs, addr)
	}

	rand.Shuffle(len(addrs), func(i, j int) { addrs[i], addrs[j] = addrs[j], addrs[i] })

	for _, addr := range addrs {
		for _, chunkID := range s.neighborChunksLocked(addr) {
			if _, have := s.chunks[chunkID]; !have {
				return Target{Neighbor: addr, ChunkID: chunkID}, true
			}
		}
	}

	return Target{}, false
}
