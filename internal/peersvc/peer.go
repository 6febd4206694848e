// Package peersvc runs the six concurrent control loops a peer needs:
// swarm-join, liveness heartbeat, neighbor discovery, neighbor-chunk
// gossip, chunk-fetch scheduling, and the serving accept loop.
package peersvc

import (
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lvbealr/swarmfile/internal/peerstate"
	"github.com/lvbealr/swarmfile/internal/wire"
)

// FetchWorkerCount is the fixed size of the fetch worker pool (spec.md §4.6(5)).
const FetchWorkerCount = 8

// ActiveProofInterval is the heartbeat period.
const ActiveProofInterval = 2500 * time.Millisecond

// NeighborRefreshInterval is how often the tracker's peer list is re-pulled.
const NeighborRefreshInterval = 2500 * time.Millisecond

// NeighborChunksInterval is how often neighbors are asked what they hold.
const NeighborChunksInterval = 1000 * time.Millisecond

// FetchIdleSleep is how long an idle fetch worker sleeps before retrying.
const FetchIdleSleep = 100 * time.Millisecond

// dialTimeout bounds outbound connection attempts to the tracker or a
// neighbor. The original implementation leaves these connects unbounded;
// spec.md §5 notes peer connections have no explicit timeout beyond
// whatever the OS/connect path imposes, so this exists only to keep a
// genuinely unreachable neighbor from stalling a control loop indefinitely.
const dialTimeout = 5 * time.Second

// Peer ties together a peer's shared state and the tracker it reports to.
type Peer struct {
	State       *peerstate.State
	TrackerAddr string
	Log         *logrus.Entry
}

// New builds a Peer. log may be nil, in which case the standard logger is used.
func New(state *peerstate.State, trackerAddr string, log *logrus.Entry) *Peer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Peer{State: state, TrackerAddr: trackerAddr, Log: log}
}

// Start performs the fixed startup sequence of spec.md §4.6: bind the
// listener, synchronously join the swarm, spawn the three background
// loops and the fetch workers, then run the serving accept loop. It blocks
// until the listener is closed or errors.
func (p *Peer) Start() error {
	listener, err := net.Listen("tcp", p.State.ListeningAddr)
	if err != nil {
		return fmt.Errorf("peer: binding %s: %w", p.State.ListeningAddr, err)
	}

	if err := p.join(); err != nil {
		listener.Close()
		return fmt.Errorf("peer: joining tracker %s: %w", p.TrackerAddr, err)
	}

	go p.activeProofLoop()
	go p.neighborRefreshLoop()
	go p.neighborChunksLoop()

	for i := 0; i < FetchWorkerCount; i++ {
		go p.fetchWorker()
	}

	return p.serveLoop(listener)
}

// join sends a Join request to the tracker and waits for Ok. A failure here
// is startup-fatal (spec.md §7).
func (p *Peer) join() error {
	conn, err := net.DialTimeout("tcp", p.TrackerAddr, dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := wire.WriteRequest(conn, wire.JoinRequest(p.State.ListeningAddr)); err != nil {
		return err
	}

	_, err = wire.ReadResponse(conn, wire.TypeOk)
	return err
}
