package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := []Request{
		JoinRequest("127.0.0.1:9001"),
		ActiveProofRequest("127.0.0.1:9001"),
		PeerListRequest(),
		ChunksQueryRequest(),
		FetchChunkRequest(262144),
	}

	for _, req := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteRequest(&buf, req))

		got, err := ReadRequest(&buf)
		require.NoError(t, err)
		require.Equal(t, req, got)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	cases := []Response{
		OkResponse(),
		PeerListResponse([]string{"127.0.0.1:9001", "127.0.0.1:9002"}),
		ChunksQueryResponse([]uint64{0, 262144}),
		ChunkResponse([]byte("some chunk bytes")),
	}

	for _, resp := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteResponse(&buf, resp))

		got, err := ReadResponse(&buf, resp.Type)
		require.NoError(t, err)
		require.Equal(t, resp, got)
	}
}

func TestReadResponseMismatchedVariant(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResponse(&buf, OkResponse()))

	_, err := ReadResponse(&buf, TypePeerList)
	require.Error(t, err)

	var protoErr *ErrProtocol
	require.ErrorAs(t, err, &protoErr)
}

func TestReadRequestUnrecognizedType(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, Request{Type: "not_a_real_type"}))

	_, err := ReadRequest(&buf)
	require.Error(t, err)
}

func TestReadFrameShortConnectionCloses(t *testing.T) {
	// Fewer bytes than the 8-byte length prefix requires.
	buf := bytes.NewReader([]byte{0, 0, 0})

	_, err := ReadRequest(buf)
	require.Error(t, err)
}
