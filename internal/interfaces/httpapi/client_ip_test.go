package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "fly header wins",
			headers:    map[string]string{"Fly-Client-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "192.0.2.1:5000",
			want:       "203.0.113.7",
		},
		{
			name:       "first forwarded hop",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
			remoteAddr: "192.0.2.1:5000",
			want:       "198.51.100.1",
		},
		{
			name:       "real ip fallback",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			remoteAddr: "192.0.2.1:5000",
			want:       "198.51.100.9",
		},
		{
			name:       "remote addr strips port",
			remoteAddr: "192.0.2.1:5000",
			want:       "192.0.2.1",
		},
		{
			name:       "garbage headers skipped",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "192.0.2.1:5000",
			want:       "192.0.2.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:5000",
			want:       "2001:db8::1",
		},
		{
			name:       "nothing usable",
			remoteAddr: "garbage",
			want:       "unknown",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/leaderboard", nil)
			req.RemoteAddr = tc.remoteAddr
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}

			if got := resolveClientIP(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
