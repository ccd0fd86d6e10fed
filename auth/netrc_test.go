package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNetrcStoreRoundTrip(t *testing.T) {
	store := &NetrcStore{
		Path: filepath.Join(t.TempDir(), ".netrc"),
		Host: "urs.earthdata.nasa.gov",
	}

	creds := Credentials{Host: "urs.earthdata.nasa.gov", Username: "jovyan", Password: "hunter2"}
	if err := store.Save(creds); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	want := "machine urs.earthdata.nasa.gov login jovyan password hunter2\n"
	if string(data) != want {
		t.Errorf("unexpected netrc line %q", data)
	}
	info, err := os.Stat(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded != creds {
		t.Errorf("expected %+v, got %+v", creds, loaded)
	}
}

func TestNetrcStoreOverwrite(t *testing.T) {
	store := &NetrcStore{
		Path: filepath.Join(t.TempDir(), ".netrc"),
		Host: "urs.earthdata.nasa.gov",
	}
	if err := store.Save(Credentials{Username: "old", Password: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(Credentials{Username: "new", Password: "new"}); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Username != "new" || loaded.Password != "new" {
		t.Errorf("expected overwrite, got %+v", loaded)
	}
}

func TestNetrcStoreMissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".netrc")
	if err := os.WriteFile(path, []byte("machine example.com login a password b\n"), 0600); err != nil {
		t.Fatal(err)
	}
	store := &NetrcStore{Path: path, Host: "urs.earthdata.nasa.gov"}
	if _, err := store.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
