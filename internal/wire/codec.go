package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jackpal/bencode-go"
)

// MaxMessageLength bounds the frame length an honest peer can produce: one
// chunk's worth of bytes plus a small dictionary overhead. Anything larger
// is treated as a protocol error rather than an attempt to allocate an
// unbounded buffer.
const MaxMessageLength = 1 << 20 // 1 MiB, comfortably above CHUNK_SIZE

// writeFrame writes the 8-byte big-endian length prefix followed by payload.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("wire: writing frame length: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: writing frame payload: %w", err)
	}

	return nil
}

// readFrame reads the 8-byte length prefix and exactly that many payload
// bytes. A short read or oversized length surfaces as an error; the caller
// is expected to close the connection without responding.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("wire: reading frame length: %w", err)
	}

	length := binary.BigEndian.Uint64(lenBuf[:])
	if length > MaxMessageLength {
		return nil, &ErrProtocol{Reason: fmt.Sprintf("frame length %d exceeds maximum %d", length, MaxMessageLength)}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: reading frame payload: %w", err)
	}

	return payload, nil
}

// WriteRequest encodes and frames a Request onto w.
func WriteRequest(w io.Writer, req Request) error {
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, req); err != nil {
		return fmt.Errorf("wire: encoding request: %w", err)
	}

	return writeFrame(w, buf.Bytes())
}

// WriteResponse encodes and frames a Response onto w.
func WriteResponse(w io.Writer, resp Response) error {
	var buf bytes.Buffer
	if err := bencode.Marshal(&buf, resp); err != nil {
		return fmt.Errorf("wire: encoding response: %w", err)
	}

	return writeFrame(w, buf.Bytes())
}

// ReadRequest reads and decodes one framed Request from r.
func ReadRequest(r io.Reader) (Request, error) {
	payload, err := readFrame(r)
	if err != nil {
		return Request{}, err
	}

	var req Request
	if err := bencode.Unmarshal(bytes.NewReader(payload), &req); err != nil {
		return Request{}, &ErrProtocol{Reason: fmt.Sprintf("decoding request: %v", err)}
	}

	switch req.Type {
	case TypeJoin, TypeActiveProof, TypePeerList, TypeChunksQuery, TypeFetchChunk:
		return req, nil
	default:
		return Request{}, &ErrProtocol{Reason: fmt.Sprintf("unrecognized request type %q", req.Type)}
	}
}

// ReadResponse reads and decodes one framed Response from r, verifying its
// type tag matches wantType. A mismatched variant is a protocol error
// (spec.md §4.2): the offending peer is treated the same as a decode
// failure by the caller.
func ReadResponse(r io.Reader, wantType string) (Response, error) {
	payload, err := readFrame(r)
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := bencode.Unmarshal(bytes.NewReader(payload), &resp); err != nil {
		return Response{}, &ErrProtocol{Reason: fmt.Sprintf("decoding response: %v", err)}
	}

	switch resp.Type {
	case TypeOk, TypeBad, TypePeerList, TypeChunksQuery, TypeChunk:
	default:
		return Response{}, &ErrProtocol{Reason: fmt.Sprintf("unrecognized response type %q", resp.Type)}
	}

	if resp.Type != wantType {
		return Response{}, &ErrProtocol{Reason: fmt.Sprintf("expected response type %q, got %q", wantType, resp.Type)}
	}

	return resp, nil
}
