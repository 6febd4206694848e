package peersvc

import (
	"net"
	"time"

	"github.com/lvbealr/swarmfile/internal/wire"
)

// activeProofLoop sends a heartbeat to the tracker every ActiveProofInterval
// and does not wait for or read the reply (spec.md §4.6(2), §9 — this is
// the documented benign quirk: the tracker may log a read timeout on its
// side because this loop never consumes the Ok it sends back).
func (p *Peer) activeProofLoop() {
	ticker := time.NewTicker(ActiveProofInterval)
	defer ticker.Stop()

	for range ticker.C {
		p.sendActiveProof()
	}
}

func (p *Peer) sendActiveProof() {
	conn, err := net.DialTimeout("tcp", p.TrackerAddr, dialTimeout)
	if err != nil {
		p.Log.WithError(err).Warn("active proof: dialing tracker")
		return
	}
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.ActiveProofRequest(p.State.ListeningAddr)); err != nil {
		p.Log.WithError(err).Warn("active proof: sending request")
	}
}
