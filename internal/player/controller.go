// Package player orchestrates the playback engine, the shared now-playing
// state, and durable session data. The Controller is the single mutation
// point for "what is playing"; it also owns the background metadata poller.
package player

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edward-ap/radiodigger/internal/nowplaying"
	"github.com/edward-ap/radiodigger/internal/search"
	"github.com/edward-ap/radiodigger/internal/session"
)

const (
	// DefaultVolume is applied when a station starts with no persisted volume
	// and the engine sits at zero, so a fresh stream is never silently muted.
	DefaultVolume = 70

	// pollInterval is the metadata sampling cadence. ICY metadata updates on
	// the order of seconds; polling faster just burns cycles.
	pollInterval = 1500 * time.Millisecond

	// noMetadataLine is shown for streams that announce nothing at all.
	noMetadataLine = "Stream (no metadata)"
)

// Controller drives the Engine and is the only writer to session playback
// state. Engine failures degrade to no-ops or zero values; nothing here
// panics on a broken backend.
type Controller struct {
	engine Engine
	store  *session.Store
	now    *nowplaying.State

	pollCancel context.CancelFunc
	pollWG     sync.WaitGroup
}

// NewController wires the engine, store, and now-playing state together and
// starts the metadata poller. Callers must Shutdown when done.
func NewController(engine Engine, store *session.Store, now *nowplaying.State) *Controller {
	c := &Controller{
		engine: engine,
		store:  store,
		now:    now,
	}
	c.startPoller()
	return c
}

// PlayStation switches playback to the given station. It reports false when
// the station has no resolved URL or the engine refuses it; the caller decides
// whether to surface that. On success the per-station (or default) volume is
// applied and the station is recorded as last played.
func (c *Controller) PlayStation(st search.Station) bool {
	url := strings.TrimSpace(st.URLResolved)
	if url == "" {
		return false
	}

	c.Stop()
	c.now.SetStation(st.Name, st.UUID)

	if err := c.engine.Load(url); err != nil {
		log.Warn().Err(err).Str("station", st.Name).Msg("load failed")
		return false
	}
	if err := c.engine.Play(); err != nil {
		log.Warn().Err(err).Str("station", st.Name).Msg("play failed")
		return false
	}

	if v, ok := c.store.Volume(st.UUID); ok {
		c.SetVolume(v)
	} else if c.Volume() <= 0 {
		c.SetVolume(DefaultVolume)
	}

	c.store.SetLastStationUUID(st.UUID)
	return true
}

// Stop halts playback. Safe to call when nothing is playing.
func (c *Controller) Stop() {
	if err := c.engine.Stop(); err != nil {
		log.Debug().Err(err).Msg("stop failed")
	}
}

// IsPlaying reports playback state, defaulting to false when the engine
// cannot be queried.
func (c *Controller) IsPlaying() bool {
	playing, err := c.engine.IsPlaying()
	if err != nil {
		return false
	}
	return playing
}

// Volume returns the engine volume, or 0 when the query fails.
func (c *Controller) Volume() int {
	v, err := c.engine.Volume()
	if err != nil {
		return 0
	}
	return v
}

// SetVolume clamps v to 0-100 and applies it to the engine.
func (c *Controller) SetVolume(v int) {
	if err := c.engine.SetVolume(clamp(v, 0, 100)); err != nil {
		log.Debug().Err(err).Msg("set volume failed")
	}
}

// Vol adjusts the volume by delta and returns the resulting level.
func (c *Controller) Vol(delta int) int {
	v := clamp(c.Volume()+delta, 0, 100)
	c.SetVolume(v)
	return v
}

// SaveVolumeForStation persists the current engine volume for uuid. A missing
// uuid is a no-op.
func (c *Controller) SaveVolumeForStation(uuid string) {
	if uuid == "" {
		return
	}
	c.store.SetVolume(uuid, c.Volume())
}

// ToggleMute flips the engine mute state, tolerating backend failure.
func (c *Controller) ToggleMute() {
	if err := c.engine.ToggleMute(); err != nil {
		log.Debug().Err(err).Msg("toggle mute failed")
	}
}

// Shutdown stops the metadata poller, waits for it to terminate, then stops
// playback. It is idempotent; once it returns no further now-playing writes
// will occur from this component.
func (c *Controller) Shutdown() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollWG.Wait()
		c.pollCancel = nil
	}
	c.Stop()
}

// startPoller launches the metadata sampling loop. Each tick reads engine
// metadata and feeds the resolved line into the shared state; any failure
// skips the tick and is retried on the next one.
func (c *Controller) startPoller() {
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCancel = cancel
	c.pollWG.Add(1)

	go func() {
		defer c.pollWG.Done()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.pollOnce()
			}
		}
	}()
}

func (c *Controller) pollOnce() {
	md, err := c.engine.Meta()
	if err != nil {
		log.Debug().Err(err).Msg("metadata tick skipped")
		return
	}
	c.now.UpdateLine(resolveLine(md))
}

// resolveLine picks the most specific non-empty representation of the current
// track: artist and title, title alone, then the station-provided now-playing
// or description tags.
func resolveLine(md Metadata) string {
	artist := strings.TrimSpace(md.Artist)
	title := strings.TrimSpace(md.Title)
	switch {
	case artist != "" && title != "":
		return artist + " — " + title
	case title != "":
		return title
	}
	if np := strings.TrimSpace(md.NowPlaying); np != "" {
		return np
	}
	if desc := strings.TrimSpace(md.Description); desc != "" {
		return desc
	}
	return noMetadataLine
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
