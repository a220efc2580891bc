package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
)

func TestStoreAndLoadKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	ks := NewKeyStore(t.TempDir())
	path, err := ks.StoreKey("satoshi", priv, "hunter2")
	if err != nil {
		t.Fatalf("StoreKey: %v", err)
	}

	loaded, err := ks.LoadKey(path, "hunter2")
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if !priv.Equal(loaded) {
		t.Error("loaded key differs from stored key")
	}
}

func TestLoadKey_wrongPassword(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	ks := NewKeyStore(t.TempDir())
	path, err := ks.StoreKey("satoshi", priv, "correct")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ks.LoadKey(path, "wrong"); err == nil {
		t.Error("LoadKey succeeded with the wrong password")
	}
}

func TestLoadKey_missingFile(t *testing.T) {
	ks := NewKeyStore(t.TempDir())
	if _, err := ks.LoadKey("does-not-exist", ""); err == nil {
		t.Error("LoadKey succeeded on a missing file")
	}
}
