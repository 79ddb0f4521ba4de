package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/woby/internal/config"
	"github.com/vango-dev/woby/internal/errors"
)

func TestWriteSnapshots(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := writeSnapshots(ctx, scenarios["list"], 3, dirStore{dir: dir}, "ci/", false)
	if err != nil {
		t.Fatalf("writeSnapshots() error = %v", err)
	}
	if n != 4 {
		t.Errorf("writeSnapshots() = %d, want 4", n)
	}

	data, err := os.ReadFile(filepath.Join(dir, "ci", "list", "001.html"))
	if err != nil {
		t.Fatal(err)
	}
	want := "<li>item 2</li><li>item 3</li><li>item 4</li><li>item 5</li><li>item 1</li>"
	if string(data) != want {
		t.Errorf("001.html = %q, want %q", data, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "ci", "list", "003.html")); err != nil {
		t.Errorf("003.html missing: %v", err)
	}
}

func TestWriteSnapshotsSuspenseSettles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := writeSnapshots(ctx, scenarios["suspense"], 0, dirStore{dir: dir}, "", false); err != nil {
		t.Fatalf("writeSnapshots() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "suspense", "000.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<p>payload #1</p>" {
		t.Errorf("000.html = %q, want settled content", data)
	}
}

func TestDirStoreFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := dirStore{dir: file}.put(context.Background(), "a/b.html", []byte("x"))
	if errors.Code(err) != "W301" {
		t.Errorf("put() code = %q, want W301", errors.Code(err))
	}
}

func TestNewSnapshotStore(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot.Dir = t.TempDir()
	store, err := newSnapshotStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(dirStore); !ok {
		t.Errorf("store = %T, want dirStore", store)
	}

	cfg.Snapshot.Bucket = "bucket"
	cfg.Snapshot.Region = "eu-west-1"
	cfg.Snapshot.Prefix = "ci/"
	store, err = newSnapshotStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := store.location("ci/list/000.html"); got != "s3://bucket/ci/list/000.html" {
		t.Errorf("location() = %q", got)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); errors.Code(err) != "W301" {
		t.Errorf("envCredentials() code = %q, want W301", errors.Code(err))
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatalf("envCredentials() error = %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", creds)
	}
}
