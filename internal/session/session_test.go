package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Load()

	if len(s.Favorites()) != 0 {
		t.Errorf("Favorites = %v, want empty", s.Favorites())
	}
	if len(s.Volumes()) != 0 {
		t.Errorf("Volumes = %v, want empty", s.Volumes())
	}
	if s.LastStationUUID() != "" {
		t.Errorf("LastStationUUID = %q, want empty", s.LastStationUUID())
	}
	if !s.ShowHistory() {
		t.Error("ShowHistory should default to true")
	}
}

func TestLoadCorruptFavoritesResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FavoritesName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	s.Load()

	if got := s.Favorites(); len(got) != 0 {
		t.Errorf("Favorites = %v, want empty after corrupt file", got)
	}
}

func TestVolumeRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.Load()
	s.SetVolume("uuid-a", 35)
	s.SetVolume("uuid-b", 120) // clamped

	reloaded := NewStore(dir)
	reloaded.Load()

	if v, ok := reloaded.Volume("uuid-a"); !ok || v != 35 {
		t.Errorf("Volume(uuid-a) = %d,%v, want 35,true", v, ok)
	}
	if v, ok := reloaded.Volume("uuid-b"); !ok || v != 100 {
		t.Errorf("Volume(uuid-b) = %d,%v, want 100,true", v, ok)
	}
	if _, ok := reloaded.Volume("unknown"); ok {
		t.Error("unknown station should have no persisted volume")
	}
}

func TestFavoriteSlotOverwrite(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Load()

	s.SetFavorite("3", "first-uuid")
	s.SetFavorite("3", "second-uuid")

	if uuid, ok := s.FavoriteUUID("3"); !ok || uuid != "second-uuid" {
		t.Errorf("FavoriteUUID(3) = %q,%v, want second-uuid,true", uuid, ok)
	}
	if s.IsFavorite("first-uuid") {
		t.Error("first-uuid should no longer be a favorite")
	}
	if !s.IsFavorite("second-uuid") {
		t.Error("second-uuid should be a favorite")
	}
}

func TestLastSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.Load()
	s.SetLastStationUUID("abc")
	s.SetShowHistory(false)

	reloaded := NewStore(dir)
	reloaded.Load()

	if got := reloaded.LastStationUUID(); got != "abc" {
		t.Errorf("LastStationUUID = %q, want abc", got)
	}
	if reloaded.ShowHistory() {
		t.Error("ShowHistory should persist as false")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.Load()
	s.SetVolume("uuid-a", 50)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind after save", e.Name())
		}
	}
}

func TestEnsureDirsCreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	s := NewStore(dir)
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}

	for _, name := range []string{FavoritesName, VolumesName, StateName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	// A second call must not clobber existing data.
	s.Load()
	s.SetFavorite("1", "keep-me")
	if err := s.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs second call: %v", err)
	}
	reloaded := NewStore(dir)
	reloaded.Load()
	if uuid, _ := reloaded.FavoriteUUID("1"); uuid != "keep-me" {
		t.Errorf("EnsureDirs overwrote favorites, got %q", uuid)
	}
}
