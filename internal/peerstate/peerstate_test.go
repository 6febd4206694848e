package peerstate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvbealr/swarmfile/internal/chunkstore"
	"github.com/lvbealr/swarmfile/internal/descriptor"
)

func newTestState(t *testing.T, selfAddr string) *State {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.bin")
	store, err := chunkstore.OpenForLeech(path, 1000)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return New(selfAddr, descriptor.Descriptor{FileSize: 1000, TrackerAddr: "127.0.0.1:9000"}, store)
}

func TestReconcileNeighborsExcludesSelf(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")

	s.ReconcileNeighbors([]string{"127.0.0.1:9001", "127.0.0.1:9002", "127.0.0.1:9003"})

	addrs := s.NeighborAddrs()
	require.ElementsMatch(t, []string{"127.0.0.1:9002", "127.0.0.1:9003"}, addrs)
}

func TestReconcileNeighborsDropsStale(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")

	s.ReconcileNeighbors([]string{"127.0.0.1:9002", "127.0.0.1:9003"})
	s.ReconcileNeighbors([]string{"127.0.0.1:9002"})

	require.Equal(t, []string{"127.0.0.1:9002"}, s.NeighborAddrs())
}

func TestSetNeighborChunksNoopAfterRemoval(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")

	s.ReconcileNeighbors([]string{"127.0.0.1:9002"})
	s.RemoveNeighbor("127.0.0.1:9002")
	s.SetNeighborChunks("127.0.0.1:9002", []uint64{0})

	require.Empty(t, s.NeighborAddrs())
}

func TestCompleteFetchRejectsDuplicate(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")

	data := make([]byte, 1000)
	require.NoError(t, s.CompleteFetch(0, data))
	require.True(t, s.HasChunk(0))
	require.Equal(t, 1, s.Count())

	// A second, racing write of the same chunk is silently discarded.
	require.NoError(t, s.CompleteFetch(0, data))
	require.Equal(t, 1, s.Count())
}

func TestSelectFetchFindsMissingChunk(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")
	s.ReconcileNeighbors([]string{"127.0.0.1:9002"})
	s.SetNeighborChunks("127.0.0.1:9002", []uint64{0})

	target, ok := s.SelectFetch()
	require.True(t, ok)
	require.Equal(t, "127.0.0.1:9002", target.Neighbor)
	require.Equal(t, uint64(0), target.ChunkID)
}

func TestSelectFetchNoneAvailable(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")

	_, ok := s.SelectFetch()
	require.False(t, ok)
}

func TestSelectFetchSkipsAlreadyDownloaded(t *testing.T) {
	s := newTestState(t, "127.0.0.1:9001")
	s.ReconcileNeighbors([]string{"127.0.0.1:9002"})
	s.SetNeighborChunks("127.0.0.1:9002", []uint64{0})
	require.NoError(t, s.CompleteFetch(0, make([]byte, 1000)))

	_, ok := s.SelectFetch()
	require.False(t, ok)
}

func TestSeederStartsWithAllChunks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")
	store, err := chunkstore.OpenForLeech(path, 300000)
	require.NoError(t, err)
	defer store.Close()

	s := NewSeeder("127.0.0.1:9001", descriptor.Descriptor{FileSize: 300000, TrackerAddr: "x"}, store)

	require.ElementsMatch(t, []uint64{0, chunkstore.ChunkSize}, s.ChunkIDs())
}
