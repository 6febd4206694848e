package trackersvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpsertAndSnapshot(t *testing.T) {
	r := NewRegistry()
	now := time.Now()

	r.Upsert("127.0.0.1:9001", now)
	r.Upsert("127.0.0.1:9002", now)

	snap := r.Snapshot()
	require.ElementsMatch(t, []string{"127.0.0.1:9001", "127.0.0.1:9002"}, snap)
}

func TestSweepExpiresOldEntries(t *testing.T) {
	r := NewRegistry()
	base := time.Now()

	r.Upsert("127.0.0.1:9001", base)

	// Not yet expired at 4.9s.
	expired := r.Sweep(base.Add(4900 * time.Millisecond))
	require.Empty(t, expired)
	require.ElementsMatch(t, []string{"127.0.0.1:9001"}, r.Snapshot())

	// Expired at 5.6s.
	expired = r.Sweep(base.Add(5600 * time.Millisecond))
	require.ElementsMatch(t, []string{"127.0.0.1:9001"}, expired)
	require.Empty(t, r.Snapshot())
}

func TestUpsertRefreshesExpiry(t *testing.T) {
	r := NewRegistry()
	base := time.Now()

	r.Upsert("127.0.0.1:9001", base)
	r.Upsert("127.0.0.1:9001", base.Add(3*time.Second))

	// Original expiry (5s after base) would have fired by now, but the
	// second upsert refreshed last-seen, so the entry survives.
	expired := r.Sweep(base.Add(6 * time.Second))
	require.Empty(t, expired)
	require.ElementsMatch(t, []string{"127.0.0.1:9001"}, r.Snapshot())
}
