package ratelimiter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const remoteAddr = "192.168.1.1:34567"

var next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestSourceIPLimiterDenyRequestsAfterBurst(t *testing.T) {
	burst := 3
	rl := New(1, WithNow(mockNow), WithSourceIPBurstSize(burst))
	handler := rl.SourceIPLimiter(next)

	for i := 0; i < burst+2; i++ {
		ww := httptest.NewRecorder()
		rr := httptest.NewRequest(http.MethodGet, "/index.html", nil)
		rr.RemoteAddr = remoteAddr

		handler.ServeHTTP(ww, rr)
		res := ww.Result()

		if i < burst {
			require.Equal(t, http.StatusNoContent, res.StatusCode, "req: %d failed", i)
			continue
		}

		require.Equal(t, http.StatusTooManyRequests, res.StatusCode, "req: %d failed", i)
		b, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		res.Body.Close()

		require.Contains(t, string(b), "Too many requests.")
	}
}
