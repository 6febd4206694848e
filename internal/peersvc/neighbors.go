package peersvc

import (
	"net"
	"time"

	"github.com/lvbealr/swarmfile/internal/wire"
)

// neighborRefreshLoop pulls the tracker's peer list every
// NeighborRefreshInterval and reconciles it against the local neighbor
// table (spec.md §4.6(3)).
func (p *Peer) neighborRefreshLoop() {
	ticker := time.NewTicker(NeighborRefreshInterval)
	defer ticker.Stop()

	for range ticker.C {
		p.refreshNeighbors()
	}
}

func (p *Peer) refreshNeighbors() {
	conn, err := net.DialTimeout("tcp", p.TrackerAddr, dialTimeout)
	if err != nil {
		p.Log.WithError(err).Warn("neighbor refresh: dialing tracker")
		return
	}
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.PeerListRequest()); err != nil {
		p.Log.WithError(err).Warn("neighbor refresh: sending request")
		return
	}

	resp, err := wire.ReadResponse(conn, wire.TypePeerList)
	if err != nil {
		p.Log.WithError(err).Warn("neighbor refresh: reading response")
		return
	}

	p.State.ReconcileNeighbors(resp.Addresses)
}

// neighborChunksLoop asks every known neighbor what chunks it holds every
// NeighborChunksInterval, replacing or dropping that neighbor's entry in
// the table (spec.md §4.6(4)). The address list is snapshotted once per
// cycle, under its own brief lock acquisition, so the network round trips
// to each neighbor never hold the neighbor-table lock.
func (p *Peer) neighborChunksLoop() {
	ticker := time.NewTicker(NeighborChunksInterval)
	defer ticker.Stop()

	for range ticker.C {
		for _, neighbor := range p.State.NeighborAddrs() {
			p.refreshNeighborChunks(neighbor)
		}
	}
}

func (p *Peer) refreshNeighborChunks(neighbor string) {
	conn, err := net.DialTimeout("tcp", neighbor, dialTimeout)
	if err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: dial failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.ChunksQueryRequest()); err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: request failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}

	resp, err := wire.ReadResponse(conn, wire.TypeChunksQuery)
	if err != nil {
		p.Log.WithField("neighbor", neighbor).WithError(err).Debug("dropping neighbor: response failed")
		p.State.RemoveNeighbor(neighbor)
		return
	}

	p.State.SetNeighborChunks(neighbor, resp.ChunkIDs)
}
