package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestVersionFetcher(t *testing.T, handler http.HandlerFunc) *VersionFetcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	vf := NewVersionFetcher(nil)
	vf.baseURL = server.URL
	vf.token = ""
	return vf
}

func TestVersionFetcher_ResolveLatestVersion(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		headers map[string]string
		want    string
		wantErr string
	}{
		{
			name:   "strips leading v",
			status: http.StatusOK,
			body:   `{"tag_name":"v1.15.6","name":"bundletool 1.15.6"}`,
			want:   "1.15.6",
		},
		{
			name:   "tag without prefix",
			status: http.StatusOK,
			body:   `{"tag_name":"1.17.2"}`,
			want:   "1.17.2",
		},
		{
			name:    "draft release",
			status:  http.StatusOK,
			body:    `{"tag_name":"v2.0.0","draft":true}`,
			wantErr: "draft",
		},
		{
			name:    "empty tag",
			status:  http.StatusOK,
			body:    `{"tag_name":""}`,
			wantErr: "no tag",
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"message":"Not Found"}`,
			wantErr: "GitHub API error 404",
		},
		{
			name:    "rate limited",
			status:  http.StatusForbidden,
			body:    `{}`,
			headers: map[string]string{"X-RateLimit-Remaining": "0", "X-RateLimit-Reset": "1700000000"},
			wantErr: "rate limit exceeded",
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vf := newTestVersionFetcher(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/repos/google/bundletool/releases/latest" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := vf.ResolveLatestVersion(context.Background())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ResolveLatestVersion() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveLatestVersion() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveLatestVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersionFetcher_SendsToken(t *testing.T) {
	vf := newTestVersionFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer abc" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer abc")
		}
		_, _ = w.Write([]byte(`{"tag_name":"v1.0.0"}`))
	})
	vf.token = "abc"

	if _, err := vf.ResolveLatestVersion(context.Background()); err != nil {
		t.Fatalf("ResolveLatestVersion() error = %v", err)
	}
}
