package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	now          = "2021-09-13T15:00:00Z"
	validTime, _ = time.Parse(time.RFC3339, now)
)

func mockNow() time.Time {
	return validTime
}

func TestSourceIPAllowed(t *testing.T) {
	tcs := map[string]struct {
		sourceIPLimit     float64
		sourceIPBurstSize int
		reqNum            int
	}{
		"one_request_per_second": {
			sourceIPLimit:     1,
			sourceIPBurstSize: 1,
			reqNum:            2,
		},
		"one_request_per_second_but_big_bucket": {
			sourceIPLimit:     1,
			sourceIPBurstSize: 10,
			reqNum:            11,
		},
		"three_req_per_second_bucket_size_one": {
			sourceIPLimit:     3,
			sourceIPBurstSize: 1, // max burst 1 means 1 at a time
			reqNum:            3,
		},
	}

	for tn, tc := range tcs {
		t.Run(tn, func(t *testing.T) {
			rl := New(
				tc.sourceIPLimit,
				WithNow(mockNow),
				WithSourceIPBurstSize(tc.sourceIPBurstSize),
			)

			for i := 0; i < tc.reqNum; i++ {
				got := rl.SourceIPAllowed("172.16.123.1")
				if i < tc.sourceIPBurstSize {
					require.Truef(t, got, "expected true for request no. %d", i)
				} else {
					// requests should fail after reaching tc.sourceIPBurstSize because mockNow
					// always returns the same time
					require.False(t, got, "expected false for request no. %d", i)
				}
			}
		})
	}
}

func TestSourceIPAllowedIsPerAddress(t *testing.T) {
	rl := New(1, WithNow(mockNow), WithSourceIPBurstSize(1))

	require.True(t, rl.SourceIPAllowed("10.0.0.1"))
	require.False(t, rl.SourceIPAllowed("10.0.0.1"))
	require.True(t, rl.SourceIPAllowed("10.0.0.2"))
}
