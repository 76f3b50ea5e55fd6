package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestBundletoolDownloadURL(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"1.15.6", "https://github.com/google/bundletool/releases/download/1.15.6/bundletool-all-1.15.6.jar"},
		{"1.17.2", "https://github.com/google/bundletool/releases/download/1.17.2/bundletool-all-1.17.2.jar"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := BundletoolDownloadURL(tt.version); got != tt.want {
				t.Errorf("BundletoolDownloadURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDownloader_DownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), userAgent)
		}
		_, _ = w.Write([]byte("apk-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "nested", "app.apk")
	d := NewDownloader(nil)
	if err := d.DownloadFile(context.Background(), server.URL+"/app.apk", dest); err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read download: %v", err)
	}
	if string(data) != "apk-bytes" {
		t.Errorf("downloaded content = %q, want %q", data, "apk-bytes")
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(dest), ".app.apk.part-*"))
	if len(leftovers) != 0 {
		t.Errorf("partial files left behind: %v", leftovers)
	}
}

func TestDownloader_DownloadFile_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "app.apk")
	d := NewDownloader(nil)
	if err := d.DownloadFile(context.Background(), server.URL, dest); err == nil {
		t.Fatal("DownloadFile() should fail on HTTP 404")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination should not exist after a failed download")
	}
}
