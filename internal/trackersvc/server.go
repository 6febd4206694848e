package trackersvc

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lvbealr/swarmfile/internal/wire"
)

// MaxWorkers bounds concurrent request handlers; additional connections
// queue at the accept layer (spec.md §5).
const MaxWorkers = 32

// ReadTimeout is the per-connection read deadline. A handler whose read
// times out closes the connection and returns without responding.
const ReadTimeout = 1 * time.Second

// SweepInterval is how often the expiry sweeper runs.
const SweepInterval = 500 * time.Millisecond

// Server accepts connections on a listener and dispatches each one, drawn
// from a bounded worker pool, against a Registry.
type Server struct {
	listener net.Listener
	registry *Registry
	log      *logrus.Entry
	sem      chan struct{}
}

// NewServer wraps an already-bound listener. Binding itself is the caller's
// responsibility (cmd/tracker), since a bind failure is startup-fatal and
// the caller decides how to report it.
func NewServer(listener net.Listener, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Server{
		listener: listener,
		registry: NewRegistry(),
		log:      log,
		sem:      make(chan struct{}, MaxWorkers),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Run starts the expiry sweeper and then accepts connections until the
// listener is closed. It blocks; callers typically run it in the main
// goroutine of cmd/tracker.
func (s *Server) Run() error {
	go s.sweepLoop()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}

		s.sem <- struct{}{}
		go func() {
			defer func() { <-s.sem }()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) sweepLoop() {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for now := range ticker.C {
		for _, addr := range s.registry.Sweep(now) {
			s.log.WithField("peer", addr).Info("peer expired")
		}
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(ReadTimeout)); err != nil {
		s.log.WithError(err).Warn("setting read deadline")
		return
	}

	req, err := wire.ReadRequest(conn)
	if err != nil {
		s.log.WithError(err).Debug("dropping connection: bad request")
		return
	}

	switch req.Type {
	case wire.TypeJoin, wire.TypeActiveProof:
		s.registry.Upsert(req.ListeningAddr, time.Now())
		if err := wire.WriteResponse(conn, wire.OkResponse()); err != nil {
			s.log.WithError(err).Debug("writing ok response")
		}

	case wire.TypePeerList:
		addrs := s.registry.Snapshot()
		if err := wire.WriteResponse(conn, wire.PeerListResponse(addrs)); err != nil {
			s.log.WithError(err).Debug("writing peer list response")
		}

	default:
		// Only the peer-to-peer ChunksQuery/FetchChunk requests reach here
		// (wire.ReadRequest already rejects unrecognized types); the
		// connection is closed without a response.
		s.log.WithField("type", req.Type).Warn("unhandled request type")
	}
}
