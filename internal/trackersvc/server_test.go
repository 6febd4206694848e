package trackersvc

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lvbealr/swarmfile/internal/wire"
)

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewServer(listener, nil)
	go server.Run()
	t.Cleanup(func() { listener.Close() })

	return server, listener.Addr().String()
}

func TestJoinThenPeerList(t *testing.T) {
	_, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, wire.WriteRequest(conn, wire.JoinRequest("127.0.0.1:9001")))

	resp, err := wire.ReadResponse(conn, wire.TypeOk)
	require.NoError(t, err)
	require.Equal(t, wire.TypeOk, resp.Type)
	conn.Close()

	conn, err = net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, wire.WriteRequest(conn, wire.PeerListRequest()))

	listResp, err := wire.ReadResponse(conn, wire.TypePeerList)
	require.NoError(t, err)
	require.Contains(t, listResp.Addresses, "127.0.0.1:9001")
	conn.Close()
}

func TestMalformedRequestClosesSilently(t *testing.T) {
	_, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	// A length prefix claiming more bytes than actually follow; once its
	// read deadline passes, the server closes the connection without
	// writing a response.
	_, err = conn.Write([]byte{0, 0, 0, 0, 0, 0, 0, 10, 'x'})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(ReadTimeout+2*time.Second)))
	n, err := conn.Read(make([]byte, 1))
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, conn.Close())
}

func TestPeerExpiresFromSweep(t *testing.T) {
	server, addr := startTestServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, wire.WriteRequest(conn, wire.JoinRequest("127.0.0.1:9001")))
	_, err = wire.ReadResponse(conn, wire.TypeOk)
	require.NoError(t, err)
	conn.Close()

	require.Contains(t, server.Registry().Snapshot(), "127.0.0.1:9001")

	require.Eventually(t, func() bool {
		return len(server.Registry().Snapshot()) == 0
	}, ExpireSeconds*time.Second+2*SweepInterval, SweepInterval)
}
