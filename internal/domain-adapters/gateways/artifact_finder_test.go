package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestArtifactFinder_FindSigned(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app-ac-signed.apk"))
	touch(t, filepath.Join(dir, "nested", "deep", "lib-ac-signed.apk"))
	touch(t, filepath.Join(dir, "bundle-ac-signed.aab"))
	touch(t, filepath.Join(dir, "app.apk"))
	touch(t, filepath.Join(dir, "app-ac-signed.apk.idsig"))

	apks, aabs, err := NewArtifactFinder().FindSigned(dir)
	if err != nil {
		t.Fatalf("FindSigned() error = %v", err)
	}

	wantAPKs := []string{
		filepath.Join(dir, "app-ac-signed.apk"),
		filepath.Join(dir, "nested", "deep", "lib-ac-signed.apk"),
	}
	if len(apks) != len(wantAPKs) {
		t.Fatalf("FindSigned() apks = %v, want %v", apks, wantAPKs)
	}
	for i := range apks {
		if apks[i] != wantAPKs[i] {
			t.Errorf("apks[%d] = %s, want %s", i, apks[i], wantAPKs[i])
		}
	}
	if len(aabs) != 1 || aabs[0] != filepath.Join(dir, "bundle-ac-signed.aab") {
		t.Errorf("FindSigned() aabs = %v", aabs)
	}
}

func TestArtifactFinder_FindSigned_MissingDir(t *testing.T) {
	apks, aabs, err := NewArtifactFinder().FindSigned(filepath.Join(t.TempDir(), "missing"))
	if err != nil || len(apks) != 0 || len(aabs) != 0 {
		t.Errorf("FindSigned() = %v, %v, %v; want empty", apks, aabs, err)
	}
}

func TestArtifactFinder_RemoveIdsig(t *testing.T) {
	dir := t.TempDir()
	top := filepath.Join(dir, "app-ac-signed.apk.idsig")
	nested := filepath.Join(dir, "nested", "other.idsig")
	touch(t, top)
	touch(t, nested)

	removed, err := NewArtifactFinder().RemoveIdsig(dir)
	if err != nil {
		t.Fatalf("RemoveIdsig() error = %v", err)
	}
	if len(removed) != 1 || removed[0] != top {
		t.Errorf("RemoveIdsig() = %v, want [%s]", removed, top)
	}
	if _, err := os.Stat(top); !os.IsNotExist(err) {
		t.Error("top-level idsig should be removed")
	}
	if _, err := os.Stat(nested); err != nil {
		t.Error("nested idsig should be kept")
	}
}
