package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordingLimiter struct {
	keys  []string
	allow bool
}

func (l *recordingLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "remote addr", remote: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "ipv6 zone", remote: "[fe80::1%lo0]:80", want: "fe80::1"},
		{name: "forwarded first hop", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, want: "1.2.3.4"},
		{name: "real ip wins", remote: "127.0.0.1:1", headers: map[string]string{"X-Real-IP": "9.9.9.9", "X-Forwarded-For": "1.2.3.4"}, want: "9.9.9.9"},
		{name: "no port", remote: "unix", want: "unix"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/actions/feed", nil)
		req.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		if got := clientIP(req); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestAllowRequestScopesKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/actions/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	if !allowRequest(nil, req, scopeAuth) {
		t.Fatalf("expected nil limiter to allow")
	}

	limiter := &recordingLimiter{}
	if allowRequest(limiter, req, scopeAuth) {
		t.Fatalf("expected limiter decision to be returned")
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "auth:10.0.0.1" {
		t.Fatalf("expected scoped key got %v", limiter.keys)
	}
}
