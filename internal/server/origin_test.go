package server

import (
	"net/http/httptest"
	"testing"
)

func TestOriginPolicy(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"wildcard allows browser origin", []string{"*"}, "http://evil.example", true},
		{"wildcard allows missing origin", []string{"*"}, "", true},
		{"exact match", []string{"http://localhost:8080"}, "http://localhost:8080", true},
		{"case insensitive", []string{"HTTP://LocalHost:8080"}, "http://localhost:8080", true},
		{"path ignored", []string{"http://localhost:8080/app"}, "http://localhost:8080", true},
		{"different port", []string{"http://localhost:8080"}, "http://localhost:9090", false},
		{"missing origin when restricted", []string{"http://localhost:8080"}, "", false},
		{"invalid configured origins ignored", []string{"not-an-origin", " "}, "http://localhost:8080", false},
		{"empty policy", nil, "http://localhost:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := newOriginPolicy(tt.origins)
			req := httptest.NewRequest("GET", "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := policy.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
