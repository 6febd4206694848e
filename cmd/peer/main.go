// Command peer runs one swarm member: it binds a listening endpoint, joins
// the tracker named in its torrent descriptor, and then concurrently
// serves and fetches fixed-size chunks of the descriptor's file until
// killed.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/lvbealr/swarmfile/internal/chunkstore"
	"github.com/lvbealr/swarmfile/internal/descriptor"
	"github.com/lvbealr/swarmfile/internal/peersvc"
	"github.com/lvbealr/swarmfile/internal/peerstate"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) != 5 {
		log.Fatalf("usage: %s <ip:port> <torrent> <file_name> <peer|seeder>", os.Args[0])
	}

	host, torrentPath, fileName, role := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	d, err := descriptor.Load(torrentPath)
	if err != nil {
		log.WithError(err).Fatal("loading torrent descriptor")
	}

	var (
		store   *chunkstore.Store
		state   *peerstate.State
		seeding bool
	)

	switch role {
	case "seeder":
		store, err = chunkstore.OpenForSeed(fileName, d.FileSize)
		if err != nil {
			log.WithError(err).Fatal("opening local file as seeder")
		}
		state = peerstate.NewSeeder(host, d, store)
		seeding = true

	case "peer":
		store, err = chunkstore.OpenForLeech(fileName, d.FileSize)
		if err != nil {
			log.WithError(err).Fatal("opening local file as leecher")
		}
		state = peerstate.New(host, d, store)

	default:
		log.Fatalf("role must be %q or %q, got %q", "peer", "seeder", role)
	}
	defer store.Close()

	colorstring.Println(fmt.Sprintf("[green]starting %s[reset] %s, tracker %s, file %s (%d bytes)",
		role, host, d.TrackerAddr, fileName, d.FileSize))

	p := peersvc.New(state, d.TrackerAddr, logrus.NewEntry(log))

	if !seeding {
		go reportProgress(state, d.FileSize)
	}

	if err := p.Start(); err != nil {
		log.WithError(err).Fatal("peer stopped")
	}
}

// reportProgress renders a progress bar over the downloaded-chunk count
// until the file is complete, mirroring the teacher's own download progress
// reporting in StartDownload.
func reportProgress(state *peerstate.State, fileSize uint64) {
	total := int64((fileSize + chunkstore.ChunkSize - 1) / chunkstore.ChunkSize)
	bar := progressbar.Default(total, "downloading")

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		n := int64(state.Count())
		bar.Set64(n)

		if n >= total {
			bar.Finish()
			return
		}
	}
}
