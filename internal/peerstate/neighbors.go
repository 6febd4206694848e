package peerstate

// NeighborAddrs returns a snapshot of the currently-known neighbor
// addresses, in map iteration order (i.e. unordered).
func (s *State) NeighborAddrs() []string {
	s.neighborMu.Lock()
	addrs := make([]string, 0, len(s.neighbors))
	for addr := range s.neighbors {
		addrs = append(addrs, addr)
	}
	s.neighborMu.Unlock()

	return addrs
}

// ReconcileNeighbors applies the neighbor-refresh reconciliation rule
// (spec.md §4.6(3)): drop every neighbor not present in live, then add
// every address in live that isn't already a neighbor and isn't self.
func (s *State) ReconcileNeighbors(live []string) {
	liveSet := make(map[string]struct{}, len(live))
	for _, addr := range live {
		liveSet[addr] = struct{}{}
	}

	s.neighborMu.Lock()
	defer s.neighborMu.Unlock()

	for addr := range s.neighbors {
		if _, ok := liveSet[addr]; !ok {
			delete(s.neighbors, addr)
		}
	}

	for addr := range liveSet {
		if addr == s.ListeningAddr {
			continue
		}

		if _, ok := s.neighbors[addr]; !ok {
			s.neighbors[addr] = nil
		}
	}
}

// SetNeighborChunks conditionally replaces neighbor's advertised chunk
// list. It is a no-op if the neighbor has since been removed from the
// table (spec.md §4.6(4)), so a concurrent removal always wins.
func (s *State) SetNeighborChunks(neighbor string, chunkIDs []uint64) {
	s.neighborMu.Lock()
	if _, ok := s.neighbors[neighbor]; ok {
		s.neighbors[neighbor] = chunkIDs
	}
	s.neighborMu.Unlock()
}

// RemoveNeighbor drops neighbor from the table, e.g. after an I/O or
// protocol failure talking to it.
func (s *State) RemoveNeighbor(neighbor string) {
	s.neighborMu.Lock()
	delete(s.neighbors, neighbor)
	s.neighborMu.Unlock()
}

// neighborChunksLocked returns neighbor's advertised chunk list. Callers
// must hold neighborMu (used only by the fetch scheduler's snapshot).
func (s *State) neighborChunksLocked(neighbor string) []uint64 {
	return s.neighbors[neighbor]
}
