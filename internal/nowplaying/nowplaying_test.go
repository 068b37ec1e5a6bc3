package nowplaying

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestUpdateLineDeduplicatesConsecutive(t *testing.T) {
	s := NewState("")

	s.UpdateLine("A — B")
	s.UpdateLine("A — B")

	snap := s.Snapshot()
	if snap.Line != "A — B" {
		t.Errorf("Line = %q, want %q", snap.Line, "A — B")
	}
	if len(snap.History) != 1 {
		t.Fatalf("History = %v, want a single entry", snap.History)
	}
}

func TestUpdateLineIgnoresBlank(t *testing.T) {
	s := NewState("")

	s.UpdateLine("")
	s.UpdateLine("   \t ")

	snap := s.Snapshot()
	if len(snap.History) != 0 {
		t.Errorf("History = %v, want empty", snap.History)
	}
	if snap.Line != Placeholder {
		t.Errorf("Line = %q, want placeholder", snap.Line)
	}
}

func TestHistoryBoundAndOrder(t *testing.T) {
	s := NewState("")

	for i := 0; i < 250; i++ {
		s.UpdateLine(fmt.Sprintf("track %d", i))
	}

	snap := s.Snapshot()
	if len(snap.History) != maxHistory {
		t.Fatalf("len(History) = %d, want %d", len(snap.History), maxHistory)
	}
	if snap.History[0] != "track 249" {
		t.Errorf("History[0] = %q, want newest entry first", snap.History[0])
	}
	if snap.Line != snap.History[0] {
		t.Errorf("Line %q should equal History[0] %q", snap.Line, snap.History[0])
	}
	for i := 1; i < len(snap.History); i++ {
		if snap.History[i] == snap.History[i-1] {
			t.Fatalf("consecutive duplicate at %d: %q", i, snap.History[i])
		}
	}
}

func TestSetStationKeepsLineAndHistory(t *testing.T) {
	s := NewState("")

	s.UpdateLine("old track")
	s.SetStation("New FM", "uuid-1")

	snap := s.Snapshot()
	if snap.StationName != "New FM" {
		t.Errorf("StationName = %q, want New FM", snap.StationName)
	}
	if snap.Line != "old track" {
		t.Errorf("Line = %q, should survive a station switch", snap.Line)
	}
	if len(snap.History) != 1 {
		t.Errorf("History = %v, should survive a station switch", snap.History)
	}
}

func TestSetStationEmptyNameFallsBack(t *testing.T) {
	s := NewState("")
	s.SetStation("  ", "uuid-1")
	if snap := s.Snapshot(); snap.StationName != "Unknown" {
		t.Errorf("StationName = %q, want Unknown", snap.StationName)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState("")
	s.UpdateLine("one")

	snap := s.Snapshot()
	snap.History[0] = "mutated"
	s.UpdateLine("two")

	if got := s.Snapshot(); got.History[len(got.History)-1] != "one" {
		t.Errorf("mutating a snapshot leaked into shared state: %v", got.History)
	}
}

func TestConcurrentUpdatesAndSnapshots(t *testing.T) {
	s := NewState("")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.UpdateLine(fmt.Sprintf("w%d line %d", w, i))
				snap := s.Snapshot()
				if snap.Line == "" {
					t.Error("snapshot observed empty line")
					return
				}
			}
		}(w)
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.History) > maxHistory {
		t.Errorf("history grew past bound: %d", len(snap.History))
	}
	for i := 1; i < len(snap.History); i++ {
		if snap.History[i] == snap.History[i-1] {
			t.Fatalf("consecutive duplicate at %d: %q", i, snap.History[i])
		}
	}
}

func TestCacheFileCarriesLatestStateUnderContention(t *testing.T) {
	t.Setenv("TMUX", "")
	dir := t.TempDir()
	s := NewState(dir)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.SetStation(fmt.Sprintf("Station %d", w), fmt.Sprintf("uuid-%d", w))
				s.UpdateLine(fmt.Sprintf("w%d line %d", w, i))
			}
		}(w)
	}
	wg.Wait()

	snap := s.Snapshot()
	b, err := os.ReadFile(filepath.Join(dir, CacheFileName))
	if err != nil {
		t.Fatalf("cache file: %v", err)
	}
	want := snap.StationName + " :: " + snap.Line
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("cache file = %q, want the final state %q", got, want)
	}
}

func TestCacheFileWritten(t *testing.T) {
	dir := t.TempDir()
	s := NewState(dir)

	s.SetStation("Jazz24", "uuid-1")
	s.UpdateLine("Artist — Title")

	b, err := os.ReadFile(filepath.Join(dir, CacheFileName))
	if err != nil {
		t.Fatalf("cache file: %v", err)
	}
	if got := strings.TrimSpace(string(b)); got != "Jazz24 :: Artist — Title" {
		t.Errorf("cache file = %q, want %q", got, "Jazz24 :: Artist — Title")
	}
}
