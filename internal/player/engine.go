package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	vlc "github.com/adrg/libvlc-go/v3"
)

// Metadata carries whatever the engine knows about the current media. Any
// field may be empty; streams differ wildly in what they announce.
type Metadata struct {
	Artist      string
	Title       string
	NowPlaying  string
	Description string
}

// Engine is the playback capability consumed by the Controller. Implementations
// must be safe for use from the interactive loop and the metadata poller
// concurrently.
type Engine interface {
	Load(url string) error
	Play() error
	Stop() error
	IsPlaying() (bool, error)
	Volume() (int, error)
	SetVolume(v int) error
	ToggleMute() error
	Meta() (Metadata, error)
}

var errNoMedia = errors.New("no media loaded")

// VLCEngine implements Engine over libVLC. A single mutex serializes every
// call into the C library.
type VLCEngine struct {
	mu    sync.Mutex
	p     *vlc.Player
	media *vlc.Media

	parseTimeout int // ms
}

// NewVLCEngine constructs an engine with sane defaults but does not touch
// libVLC. Call Init before use.
func NewVLCEngine() *VLCEngine {
	return &VLCEngine{parseTimeout: 4000}
}

// Init configures libVLC (plugin path, caching arguments) and creates the
// underlying player.
func (e *VLCEngine) Init() error {
	// Provide plugin path via ENV so a bundled plugins dir next to the binary
	// is picked up.
	if exe, err := os.Executable(); err == nil {
		plugins := filepath.Join(filepath.Dir(exe), "plugins")
		if st, err := os.Stat(plugins); err == nil && st.IsDir() {
			_ = os.Setenv("VLC_PLUGIN_PATH", plugins)
		}
	}

	args := []string{
		"--no-video",
		"--no-color",
		"--network-caching=1500",
		"--live-caching=1500",
		"--http-reconnect",
	}
	if traceLogEnabled.Load() {
		args = append(args,
			"--verbose=2",
			"--file-logging",
			"--log-verbose=2",
			"--logfile=vlc.log",
		)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := vlc.Init(args...); err != nil {
		return fmt.Errorf("libvlc init failed: %w", err)
	}
	p, err := vlc.NewPlayer()
	if err != nil {
		vlc.Release()
		return fmt.Errorf("new vlc player failed: %w", err)
	}
	e.p = p
	return nil
}

// Release stops playback and frees all libVLC resources.
func (e *VLCEngine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p != nil {
		_ = e.p.Stop()
		e.p.Release()
		e.p = nil
	}
	if e.media != nil {
		e.media.Release()
		e.media = nil
	}
	vlc.Release()
}

// Load prepares media for the given URL without starting playback, then kicks
// off a background network parse so metadata reads are safe later.
func (e *VLCEngine) Load(url string) error {
	u := strings.TrimSpace(url)

	e.mu.Lock()
	if e.p == nil {
		e.mu.Unlock()
		return errors.New("vlc player not initialized")
	}
	if e.media != nil {
		e.media.Release()
		e.media = nil
	}

	m, err := vlc.NewMediaFromURL(u)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("new media from url failed: %w", err)
	}
	_ = m.AddOptions(
		":metadata-network-access=1",
		":icy-metadata=1",
		":network-caching=1500",
		":live-caching=1500",
		":http-reconnect",
	)
	if err := e.p.SetMedia(m); err != nil {
		m.Release()
		e.mu.Unlock()
		return fmt.Errorf("set media failed: %w", err)
	}
	e.media = m
	e.mu.Unlock()

	// Parsing must finish before Meta reads return stable pointers; do it off
	// the caller's goroutine.
	go func(mm *vlc.Media, timeout int) {
		_ = mm.ParseWithOptions(timeout, vlc.MediaParseNetwork, vlc.MediaFetchNetwork)
	}(m, e.parseTimeout)

	return nil
}

// Play starts playback of the loaded media.
func (e *VLCEngine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return errors.New("vlc player not initialized")
	}
	if err := e.p.Play(); err != nil {
		return fmt.Errorf("play failed: %w", err)
	}
	return nil
}

// Stop halts playback. Stopping an already stopped player is fine.
func (e *VLCEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return nil
	}
	return e.p.Stop()
}

// IsPlaying reports whether libVLC is currently playing.
func (e *VLCEngine) IsPlaying() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return false, errors.New("vlc player not initialized")
	}
	return e.p.IsPlaying(), nil
}

// Volume returns the current playback volume.
func (e *VLCEngine) Volume() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return 0, errors.New("vlc player not initialized")
	}
	return e.p.Volume()
}

// SetVolume applies an absolute volume level.
func (e *VLCEngine) SetVolume(v int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return errors.New("vlc player not initialized")
	}
	return e.p.SetVolume(v)
}

// ToggleMute flips the mute state.
func (e *VLCEngine) ToggleMute() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.p == nil {
		return errors.New("vlc player not initialized")
	}
	return e.p.ToggleMute()
}

// Meta reads the current media metadata. It returns errNoMedia until media is
// loaded and only reads Meta fields once parsing is done, which keeps the
// underlying C strings valid.
func (e *VLCEngine) Meta() (Metadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.media == nil {
		return Metadata{}, errNoMedia
	}
	status, err := e.media.ParseStatus()
	if err != nil {
		return Metadata{}, err
	}
	if status != vlc.MediaParseDone {
		return Metadata{}, errors.New("media parse pending")
	}

	var md Metadata
	md.Artist, _ = e.media.Meta(vlc.MediaArtist)
	md.Title, _ = e.media.Meta(vlc.MediaTitle)
	md.NowPlaying, _ = e.media.Meta(vlc.MediaNowPlaying)
	md.Description, _ = e.media.Meta(vlc.MediaDescription)
	return md, nil
}
