package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "zhihu.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func TestRepository_LoadSettings_EmptyDatabase(t *testing.T) {
	repo := newTestRepository(t)

	settings, err := repo.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if settings != (Settings{}) {
		t.Fatalf("expected zero settings, got %+v", settings)
	}
}

func TestRepository_SaveAndLoadSettings(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := Settings{RenderMode: "plain", Cookie: "z_c0=abc", HasCookie: true}
	if err := repo.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}

	got, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected settings: got %+v want %+v", got, want)
	}
}

func TestRepository_SaveSettings_Upserts(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.SaveSettings(ctx, Settings{RenderMode: "rich", Cookie: "old", HasCookie: true}); err != nil {
		t.Fatalf("first SaveSettings returned error: %v", err)
	}
	if err := repo.SaveSettings(ctx, Settings{RenderMode: "plain", Cookie: "new", HasCookie: true}); err != nil {
		t.Fatalf("second SaveSettings returned error: %v", err)
	}

	got, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if got.RenderMode != "plain" || got.Cookie != "new" {
		t.Fatalf("expected latest values, got %+v", got)
	}
}

func TestRepository_SaveSettings_ClearsCookie(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.SaveSettings(ctx, Settings{RenderMode: "rich", Cookie: "z_c0=abc", HasCookie: true}); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}
	if err := repo.SaveSettings(ctx, Settings{RenderMode: "rich"}); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}

	got, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if got.HasCookie || got.Cookie != "" {
		t.Fatalf("expected cookie cleared, got %+v", got)
	}
	if got.RenderMode != "rich" {
		t.Fatalf("expected render mode kept, got %q", got.RenderMode)
	}
}

func TestRepository_SettingUpdatedAt(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, ok, err := repo.SettingUpdatedAt(ctx, KeyCookie); err != nil || ok {
		t.Fatalf("expected no timestamp before save, ok=%v err=%v", ok, err)
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := repo.SaveSettings(ctx, Settings{RenderMode: "rich", Cookie: "c", HasCookie: true}); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}
	ts, ok, err := repo.SettingUpdatedAt(ctx, KeyCookie)
	if err != nil || !ok {
		t.Fatalf("expected timestamp, ok=%v err=%v", ok, err)
	}
	if ts.Before(before) {
		t.Fatalf("timestamp too old: %s", ts)
	}
}

func TestRepository_CheckWritable(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CheckWritable(ctx); err != nil {
		t.Fatalf("CheckWritable returned error: %v", err)
	}
	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings returned error: %v", err)
	}
	if settings != (Settings{}) {
		t.Fatalf("probe row leaked into settings: %+v", settings)
	}
}

func TestRepository_CheckWritable_ReadOnlyFile(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "zhihu.db")

	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	_ = repo.Close()

	if err := os.Chmod(dbPath, 0o444); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	repo, err = NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.CheckWritable(context.Background()); err == nil {
		t.Fatal("expected write check to fail on read-only database")
	}
}
