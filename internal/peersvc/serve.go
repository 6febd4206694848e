package peersvc

import (
	"net"

	"github.com/lvbealr/swarmfile/internal/wire"
)

// serveLoop accepts incoming connections and handles each on its own
// goroutine (spec.md §4.6(1)). It never returns unless the listener itself
// fails or is closed.
func (p *Peer) serveLoop(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}

		go p.handleConn(conn)
	}
}

func (p *Peer) handleConn(conn net.Conn) {
	defer conn.Close()

	req, err := wire.ReadRequest(conn)
	if err != nil {
		p.Log.WithError(err).Debug("serve: bad request")
		return
	}

	switch req.Type {
	case wire.TypeChunksQuery:
		resp := wire.ChunksQueryResponse(p.State.ShuffledChunkIDs())
		if err := wire.WriteResponse(conn, resp); err != nil {
			p.Log.WithError(err).Debug("serve: writing chunks query response")
		}

	case wire.TypeFetchChunk:
		// The chunk is returned without checking that it's actually in the
		// downloaded-chunks set — preserved observed behavior (spec.md §9);
		// a buggy or malicious FetchChunk(c) can read any in-range offset.
		data, err := p.State.Store.Read(req.ChunkID)
		if err != nil {
			p.Log.WithField("chunk_id", req.ChunkID).WithError(err).Warn("serve: reading chunk")
			return
		}

		if err := wire.WriteResponse(conn, wire.ChunkResponse(data)); err != nil {
			p.Log.WithError(err).Debug("serve: writing chunk response")
		}

	default:
		// Only Join/ActiveProof/PeerList reach here (wire.ReadRequest already
		// rejects unrecognized types); they are tracker-only and simply closed.
	}
}
