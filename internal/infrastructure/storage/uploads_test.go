package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploadStore_SaveProfilePhoto(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(dir)

	path, err := store.SaveProfilePhoto("alice", "headshot.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != "/static/uploads/profile_photos/alice.png" {
		t.Fatalf("unexpected public path: %q", path)
	}

	data, err := os.ReadFile(filepath.Join(dir, "profile_photos", "alice.png"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestUploadStore_SaveProfilePhoto_OverwritesPrevious(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(dir)

	if _, err := store.SaveProfilePhoto("alice", "one.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.SaveProfilePhoto("alice", "two.jpg", strings.NewReader("second")); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "profile_photos", "alice.jpg"))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}

func TestUploadStore_SaveProfilePhoto_SanitizesName(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(dir)

	if _, err := store.SaveProfilePhoto("../../etc/passwd", "x.jpg;rm", strings.NewReader("data")); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "profile_photos"))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file, got %d", len(entries))
	}
	name := entries[0].Name()
	if strings.ContainsAny(name, "/;") {
		t.Fatalf("unsafe file name on disk: %q", name)
	}
}

func TestUploadStore_SaveProfilePhoto_EmptyPrefixAndExt(t *testing.T) {
	dir := t.TempDir()
	store := NewUploadStore(dir)

	path, err := store.SaveProfilePhoto("", "noextension", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != "/static/uploads/profile_photos/user.jpg" {
		t.Fatalf("expected defaults, got %q", path)
	}
}
