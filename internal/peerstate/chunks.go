package peerstate

import "math/rand/v2"

// ShuffledChunkIDs returns a snapshot of the downloaded-chunk set in a
// freshly randomized order. The ChunksQuery serving handler (spec.md
// §4.6(1)) uses this so that a fetching neighbor's "first missing chunk"
// scan samples a different chunk on every refresh cycle.
func (s *State) ShuffledChunkIDs() []uint64 {
	ids := s.ChunkIDs()
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	return ids
}

// ChunkIDs returns a snapshot of the downloaded-chunk set, in map iteration
// order. Callers that need a randomized order (the ChunksQuery server
// handler, spec.md §4.6(1)) use ShuffledChunkIDs instead.
func (s *State) ChunkIDs() []uint64 {
	s.chunksMu.Lock()
	ids := make([]uint64, 0, len(s.chunks))
	for id := range s.chunks {
		ids = append(ids, id)
	}
	s.chunksMu.Unlock()

	return ids
}

// HasChunk reports whether chunkID is already downloaded.
func (s *State) HasChunk(chunkID uint64) bool {
	s.chunksMu.Lock()
	_, ok := s.chunks[chunkID]
	s.chunksMu.Unlock()

	return ok
}

// Count returns the number of downloaded chunks.
func (s *State) Count() int {
	s.chunksMu.Lock()
	n := len(s.chunks)
	s.chunksMu.Unlock()

	return n
}

// CompleteFetch records chunkID as downloaded and writes data to the local
// file, unless chunkID is already present — in which case data is
// discarded as the result of a race between two fetch workers (spec.md
// §4.7, §7.4). Both the presence check, the insert, and the file write
// happen under the same lock so a chunk is never visible as downloaded
// before its bytes are on disk.
func (s *State) CompleteFetch(chunkID uint64, data []byte) error {
	s.chunksMu.Lock()
	defer s.chunksMu.Unlock()

	if _, already := s.chunks[chunkID]; already {
		return nil
	}

	if err := s.Store.Write(chunkID, data); err != nil {
		return err
	}

	s.chunks[chunkID] = struct{}{}

	return nil
}
