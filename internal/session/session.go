// Package session persists favorites, per-station volumes, and last-session
// preferences as small JSON documents under the user config directory.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	// AppDirName is the subdirectory used under the OS config and cache roots.
	AppDirName = "radiodigger"

	// FavoritesName holds the slot ("1".."9") to station UUID mapping.
	FavoritesName = "favorites.json"
	// VolumesName holds the station UUID to volume (0-100) mapping.
	VolumesName = "volumes.json"
	// StateName holds the last played station and UI preferences.
	StateName = "state.json"
)

// LastSession captures where the previous run left off.
type LastSession struct {
	LastStationUUID string `json:"last_stationuuid"`
	ShowHistory     bool   `json:"show_history"`
}

// Store owns the three persisted maps and is the only component that touches
// their files. Mutators write through synchronously; a failed write is logged
// and otherwise ignored so user actions never error out on disk trouble.
type Store struct {
	dir string

	favorites map[string]string
	volumes   map[string]int
	state     LastSession
}

// DefaultDir resolves the per-user config directory for the app.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDirName), nil
}

// NewStore builds a Store rooted at dir with in-memory defaults. Call Load to
// pick up persisted data.
func NewStore(dir string) *Store {
	return &Store{
		dir:       dir,
		favorites: map[string]string{},
		volumes:   map[string]int{},
		state:     defaultLastSession(),
	}
}

func defaultLastSession() LastSession {
	return LastSession{ShowHistory: true}
}

// Load reads every persisted file, substituting defaults for anything missing
// or unparsable. It never returns an error: a corrupt file simply resets that
// one structure.
func (s *Store) Load() {
	favs := map[string]string{}
	if err := s.loadJSON(FavoritesName, &favs); err != nil {
		log.Debug().Err(err).Msg("favorites reset to defaults")
		favs = map[string]string{}
	}
	s.favorites = favs

	vols := map[string]int{}
	if err := s.loadJSON(VolumesName, &vols); err != nil {
		log.Debug().Err(err).Msg("volumes reset to defaults")
		vols = map[string]int{}
	}
	s.volumes = vols

	st := defaultLastSession()
	if err := s.loadJSON(StateName, &st); err != nil {
		log.Debug().Err(err).Msg("session state reset to defaults")
		st = defaultLastSession()
	}
	s.state = st
}

// EnsureDirs creates the store directory and writes default files for any that
// do not exist yet, so a first run starts from valid JSON.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	defaults := []struct {
		name string
		data any
	}{
		{FavoritesName, map[string]string{}},
		{VolumesName, map[string]int{}},
		{StateName, defaultLastSession()},
	}
	for _, d := range defaults {
		path := filepath.Join(s.dir, d.name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := s.saveJSON(d.name, d.data); err != nil {
				return err
			}
		}
	}
	return nil
}

// Favorites returns a copy of the slot to station UUID mapping.
func (s *Store) Favorites() map[string]string {
	out := make(map[string]string, len(s.favorites))
	for k, v := range s.favorites {
		out[k] = v
	}
	return out
}

// FavoriteUUID returns the station bound to slot, if any.
func (s *Store) FavoriteUUID(slot string) (string, bool) {
	uuid, ok := s.favorites[slot]
	return uuid, ok
}

// IsFavorite reports whether uuid is bound to any slot.
func (s *Store) IsFavorite(uuid string) bool {
	if uuid == "" {
		return false
	}
	for _, v := range s.favorites {
		if v == uuid {
			return true
		}
	}
	return false
}

// SetFavorite binds slot to uuid, overwriting any previous binding, and
// persists the favorites file. Empty slots or UUIDs are ignored.
func (s *Store) SetFavorite(slot, uuid string) {
	if slot == "" || uuid == "" {
		return
	}
	s.favorites[slot] = uuid
	s.persist(FavoritesName, s.favorites)
}

// Volume returns the persisted volume for uuid, if one exists.
func (s *Store) Volume(uuid string) (int, bool) {
	v, ok := s.volumes[uuid]
	return v, ok
}

// Volumes returns a copy of the station UUID to volume mapping.
func (s *Store) Volumes() map[string]int {
	out := make(map[string]int, len(s.volumes))
	for k, v := range s.volumes {
		out[k] = v
	}
	return out
}

// SetVolume stores a clamped volume for uuid and persists the volumes file.
func (s *Store) SetVolume(uuid string, v int) {
	if uuid == "" {
		return
	}
	s.volumes[uuid] = clamp(v, 0, 100)
	s.persist(VolumesName, s.volumes)
}

// LastStationUUID returns the station played when the app last exited.
func (s *Store) LastStationUUID() string {
	return s.state.LastStationUUID
}

// SetLastStationUUID records uuid as the most recently played station.
func (s *Store) SetLastStationUUID(uuid string) {
	s.state.LastStationUUID = uuid
	s.persist(StateName, s.state)
}

// ShowHistory reports the persisted history-panel preference.
func (s *Store) ShowHistory() bool {
	return s.state.ShowHistory
}

// SetShowHistory records the history-panel preference.
func (s *Store) SetShowHistory(show bool) {
	s.state.ShowHistory = show
	s.persist(StateName, s.state)
}

func (s *Store) persist(name string, data any) {
	if err := s.saveJSON(name, data); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("session save failed")
	}
}

func (s *Store) loadJSON(name string, out any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// saveJSON writes data to a temp file in the store directory and renames it
// over the target, so readers and crashes never observe a partial file.
func (s *Store) saveJSON(name string, data any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
