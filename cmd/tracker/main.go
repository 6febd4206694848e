// Command tracker runs the swarm membership registry: bind one TCP
// endpoint and serve Join/ActiveProof/PeerList requests until killed.
package main

import (
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/lvbealr/swarmfile/internal/trackersvc"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <ip:port>", os.Args[0])
	}

	host := os.Args[1]

	listener, err := net.Listen("tcp", host)
	if err != nil {
		log.WithError(err).Fatalf("binding %s", host)
	}

	log.WithField("addr", host).Info("tracker listening")

	server := trackersvc.NewServer(listener, logrus.NewEntry(log))
	if err := server.Run(); err != nil {
		log.WithError(err).Fatal("tracker stopped")
	}
}
