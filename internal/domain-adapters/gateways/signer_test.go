package gateways

import (
	"context"
	"errors"
	"testing"

	"github.com/ochairo/android-resign/internal/domain/interfaces/gateways"
	resignerrors "github.com/ochairo/android-resign/internal/errors"
)

func TestApkSigner_Sign(t *testing.T) {
	runner := &recordingRunner{}
	if err := NewApkSigner(runner, "apksigner", nil).Sign(context.Background(), "/out/app.apk", testCreds); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	want := "apksigner sign --in /out/app.apk --out /out/app.apk --ks /keys/release.jks " +
		"--ks-pass pass:storepw --ks-key-alias upload --key-pass pass:keypw"
	if got := runner.argv(0); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestJarSigner_Sign(t *testing.T) {
	runner := &recordingRunner{}
	if err := NewJarSigner(runner, "", nil).Sign(context.Background(), "/tmp/app.aab", testCreds); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	want := "jarsigner -verbose -sigalg SHA1withRSA -digestalg SHA1 -keystore /keys/release.jks " +
		"-storepass storepw -keypass keypw /tmp/app.aab upload"
	if got := runner.argv(0); got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestSigner_Failure(t *testing.T) {
	runner := &recordingRunner{handler: func(gateways.Command) (string, error) {
		return "", toolFailure("signer")
	}}

	if err := NewApkSigner(runner, "", nil).Sign(context.Background(), "a.apk", testCreds); !errors.Is(err, resignerrors.ErrExternalTool) {
		t.Errorf("ApkSigner.Sign() error = %v", err)
	}
	if err := NewJarSigner(runner, "", nil).Sign(context.Background(), "a.aab", testCreds); !errors.Is(err, resignerrors.ErrExternalTool) {
		t.Errorf("JarSigner.Sign() error = %v", err)
	}
}

func TestZipalign_Align(t *testing.T) {
	runner := &recordingRunner{}
	if err := NewZipalign(runner, "").Align(context.Background(), "/tmp/app.apk", "/out/app-ac-signed.apk"); err != nil {
		t.Fatalf("Align() error = %v", err)
	}
	if got := runner.argv(0); got != "zipalign -f 4 /tmp/app.apk /out/app-ac-signed.apk" {
		t.Errorf("command = %q", got)
	}
}
