package peersvc

import (
	"net"
	"time"

	"github.com/lvbealr/swarmfile/internal/wire"
)

// fetchWorker is one of the FetchWorkerCount workers repeating the
// select-then-fetch cycle of spec.md §4.6(5)/§4.7. It sleeps FetchIdleSleep
// whenever no target is currently available, so an isolated peer with no
// neighbors never busy-spins.
func (p *Peer) fetchWorker() {
	for {
		target, ok := p.State.SelectFetch()
		if !ok {
			time.Sleep(FetchIdleSleep)
			continue
		}

		p.fetchChunk(target.Neighbor, target.ChunkID)
	}
}

func (p *Peer) fetchChunk(neighbor string, chunkID uint64) {
	conn, err := net.DialTimeout("tcp", neighbor, dialTimeout)
	if err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: dial failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.FetchChunkRequest(chunkID)); err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: request failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}

	resp, err := wire.ReadResponse(conn, wire.TypeChunk)
	if err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: response failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}

	if err := p.State.CompleteFetch(chunkID, resp.Bytes); err != nil {
		p.Log.WithField("chunk_id", chunkID).WithError(err).Error("writing fetched chunk")
		return
	}

	p.Log.WithField("neighbor", neighbor).WithField("chunk_id", chunkID).Debug("fetched chunk")
}
