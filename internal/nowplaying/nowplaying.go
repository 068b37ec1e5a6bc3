// Package nowplaying maintains the shared record of what is currently on air:
// station identity, the latest metadata line, and a bounded history of
// distinct lines. It is the only structure shared between the interactive
// loop and the background metadata poller.
package nowplaying

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	// maxHistory bounds the metadata history kept per process.
	maxHistory = 200

	// Placeholder is shown for the station and line before anything plays.
	Placeholder = "—"

	// CacheFileName is the plain-text now-playing file kept for external
	// consumers (status bars, tmux).
	CacheFileName = "now_playing.txt"

	// tmuxOption is the tmux user option updated on every change; render it
	// in a status line with #{@radiodigger_now_playing}.
	tmuxOption = "@radiodigger_now_playing"
)

// Snapshot is an immutable copy of the shared state, safe to read without
// further synchronization.
type Snapshot struct {
	StationName string
	Line        string
	History     []string // newest first
}

// State is the mutex-guarded now-playing record. All mutation and the
// snapshot copy happen under a single lock; the cache-file and tmux writes
// happen after the lock is released.
type State struct {
	mu          sync.Mutex
	stationName string
	stationUUID string
	line        string
	history     []string

	// pubMu serializes the external writes so a slow publish cannot be
	// overtaken by a newer one and leave stale text behind.
	pubMu sync.Mutex

	cachePath string // "" disables the cache file
	tmux      bool
}

// NewState builds a State with placeholder values. cacheDir is where the
// now-playing text file is written; pass "" to disable it.
func NewState(cacheDir string) *State {
	s := &State{
		stationName: Placeholder,
		line:        Placeholder,
	}
	if cacheDir != "" {
		s.cachePath = filepath.Join(cacheDir, CacheFileName)
	}
	if os.Getenv("TMUX") != "" {
		if _, err := exec.LookPath("tmux"); err == nil {
			s.tmux = true
		}
	}
	return s
}

// SetStation replaces the station identity. The current line and history are
// kept on purpose: the new station may take a while to announce metadata, and
// stale text beats a blank panel until it does.
func (s *State) SetStation(name, uuid string) {
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	s.mu.Lock()
	s.stationName = name
	s.stationUUID = uuid
	s.mu.Unlock()

	s.publish()
}

// UpdateLine records a new metadata line. Blank lines and lines equal to the
// current head are dropped; anything else becomes the new head of history,
// truncated to the bound.
func (s *State) UpdateLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	s.mu.Lock()
	if line == s.line {
		s.mu.Unlock()
		return
	}
	s.line = line
	s.history = append([]string{line}, s.history...)
	if len(s.history) > maxHistory {
		s.history = s.history[:maxHistory]
	}
	s.mu.Unlock()

	s.publish()
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	hist := make([]string, len(s.history))
	copy(hist, s.history)
	return Snapshot{
		StationName: s.stationName,
		Line:        s.line,
		History:     hist,
	}
}

// publish mirrors the current line to the cache file and, when running inside
// tmux, to a tmux user option. Both are best effort. The text is read under
// the state lock only after pubMu is held, so the last publish to run always
// carries the latest state.
func (s *State) publish() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	out := s.stationName + " :: " + s.line
	s.mu.Unlock()

	if s.cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err == nil {
			if err := os.WriteFile(s.cachePath, []byte(out+"\n"), 0o644); err != nil {
				log.Debug().Err(err).Msg("now-playing cache write failed")
			}
		}
	}
	if s.tmux {
		r := []rune(out)
		if len(r) > 200 {
			r = r[:200]
		}
		if err := exec.Command("tmux", "set", "-gq", tmuxOption, string(r)).Run(); err != nil {
			log.Debug().Err(err).Msg("tmux option update failed")
		}
	}
}
