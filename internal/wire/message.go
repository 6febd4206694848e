// Package wire implements the length-prefixed, bencoded request/response
// protocol shared by the tracker and the peer. Every message, in both
// directions, travels as an 8-byte big-endian length followed by exactly
// that many bytes of a bencoded dictionary.
package wire

import "fmt"

// Request and Response tag values. These are the bencode "type" discriminator
// carried inside the dictionary; unrecognized values are a protocol error.
const (
	TypeJoin        = "join"
	TypeActiveProof = "active_proof"
	TypePeerList    = "peer_list"
	TypeChunksQuery = "chunks_query"
	TypeFetchChunk  = "fetch_chunk"
	TypeOk          = "ok"
	TypeBad         = "bad"
	TypeChunk       = "chunk"
)

// Request is the tagged union of client→server messages. Only the fields
// relevant to Type are populated; ListeningAddr is used by Join and
// ActiveProof, ChunkID by FetchChunk.
type Request struct {
	Type          string `bencode:"type"`
	ListeningAddr string `bencode:"listening_addr"`
	ChunkID       uint64 `bencode:"chunk_id"`
}

// Response is the tagged union of server→client messages.
type Response struct {
	Type      string   `bencode:"type"`
	Addresses []string `bencode:"addresses"`
	ChunkIDs  []uint64 `bencode:"chunk_ids"`
	Bytes     []byte   `bencode:"bytes"`
}

// JoinRequest builds a Join request for the given listening address.
func JoinRequest(listeningAddr string) Request {
	return Request{Type: TypeJoin, ListeningAddr: listeningAddr}
}

// ActiveProofRequest builds an ActiveProof heartbeat request.
func ActiveProofRequest(listeningAddr string) Request {
	return Request{Type: TypeActiveProof, ListeningAddr: listeningAddr}
}

// PeerListRequest builds a PeerList request.
func PeerListRequest() Request {
	return Request{Type: TypePeerList}
}

// ChunksQueryRequest builds a ChunksQuery request.
func ChunksQueryRequest() Request {
	return Request{Type: TypeChunksQuery}
}

// FetchChunkRequest builds a FetchChunk request for chunkID.
func FetchChunkRequest(chunkID uint64) Request {
	return Request{Type: TypeFetchChunk, ChunkID: chunkID}
}

// OkResponse builds a generic acknowledgement.
func OkResponse() Response {
	return Response{Type: TypeOk}
}

// BadResponse builds a generic negative acknowledgement. The tracker never
// sends this (§4.4); it exists for symmetry with the schema in spec.md §4.2.
func BadResponse() Response {
	return Response{Type: TypeBad}
}

// PeerListResponse builds a tracker PeerList reply.
func PeerListResponse(addresses []string) Response {
	return Response{Type: TypePeerList, Addresses: addresses}
}

// ChunksQueryResponse builds a peer ChunksQuery reply.
func ChunksQueryResponse(chunkIDs []uint64) Response {
	return Response{Type: TypeChunksQuery, ChunkIDs: chunkIDs}
}

// ChunkResponse builds a FetchChunk reply carrying the chunk's bytes.
func ChunkResponse(data []byte) Response {
	return Response{Type: TypeChunk, Bytes: data}
}

// ErrProtocol is returned when a message fails to decode, carries an
// unrecognized type tag, or a response's type doesn't match what the
// request expected. Callers treat it identically to a transient I/O error:
// drop the neighbor / close the connection (spec.md §7).
type ErrProtocol struct {
	Reason string
}

func (e *ErrProtocol) Error() string {
	return fmt.Sprintf("wire: protocol error: %s", e.Reason)
}
