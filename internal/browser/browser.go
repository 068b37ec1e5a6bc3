// Package browser implements the interactive terminal loop: a search prompt,
// the station list with now-playing, VU, and history panels, and the key
// dispatch driving playback and session persistence. It is single threaded
// and only ever reads snapshots of shared state.
package browser

import (
	"context"
	"strings"
	"time"

	"github.com/edward-ap/radiodigger/internal/nowplaying"
	"github.com/edward-ap/radiodigger/internal/search"
	"github.com/edward-ap/radiodigger/internal/session"
)

// Playback is the slice of the playback controller the browser drives.
type Playback interface {
	PlayStation(st search.Station) bool
	Stop()
	IsPlaying() bool
	Volume() int
	Vol(delta int) int
	SaveVolumeForStation(uuid string)
	ToggleMute()
}

// Searcher resolves a query to a station list.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Station, error)
}

// Leveler produces the VU bar length for the current frame.
type Leveler interface {
	Level(width, volume int, playing bool) int
}

const (
	volumeStep      = 5
	historyPageStep = 5
	searchTimeout   = 15 * time.Second
)

// Browser runs the interactive loop over a Screen.
type Browser struct {
	screen   Screen
	searcher Searcher
	playback Playback
	store    *session.Store
	now      *nowplaying.State
	vu       Leveler

	stations []search.Station
	selected int
	offset   int

	showHistory bool
	histSel     int
	histScroll  int

	// autostart holds the last-played station UUID; consumed on the first
	// search whose results contain it.
	autostart string
}

// New builds a Browser. The history-panel preference and the autostart
// candidate come from the session store.
func New(screen Screen, searcher Searcher, playback Playback, store *session.Store, now *nowplaying.State, vu Leveler) *Browser {
	return &Browser{
		screen:      screen,
		searcher:    searcher,
		playback:    playback,
		store:       store,
		now:         now,
		vu:          vu,
		showHistory: store.ShowHistory(),
		autostart:   store.LastStationUUID(),
	}
}

// Run drives the search/browse cycle until the user quits.
func (b *Browser) Run() {
	defaultQuery := ""
	for {
		q, ok := b.promptQuery(defaultQuery)
		if !ok {
			return
		}
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		stations, err := b.searcher.Search(ctx, q)
		cancel()
		if err != nil {
			b.messageScreen("Search error: " + err.Error())
			continue
		}
		if len(stations) == 0 {
			b.messageScreen("No stations found.")
			continue
		}

		b.stations = stations
		b.selected, b.offset = 0, 0
		b.histSel, b.histScroll = 0, 0
		b.maybeAutostart()

		if b.browse() {
			return
		}
		defaultQuery = q
	}
}

// maybeAutostart resumes the previous session's station if it appears in the
// current result list. Attempted once per process run.
func (b *Browser) maybeAutostart() {
	if b.autostart == "" {
		return
	}
	for _, st := range b.stations {
		if st.UUID == b.autostart {
			b.playback.PlayStation(st)
			break
		}
	}
	b.autostart = ""
}

// promptQuery renders the search screen and edits a query line. The second
// return value is false when the user quits from the prompt.
func (b *Browser) promptQuery(def string) (string, bool) {
	buf := []rune(def)
	for {
		b.screen.Clear()
		b.drawBanner()
		b.screen.DrawText(2, len(banner)+2, StyleHeading, "Search stations:")
		b.screen.DrawText(2, len(banner)+3, StyleDefault, string(buf)+"_")
		b.statusBar("type a station name | ENTER search | ESC quit")
		b.screen.Show()

		switch ev := b.screen.ReadKey(); ev.Kind {
		case KeyRune:
			buf = append(buf, ev.Rune)
		case KeyBackspace:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
			}
		case KeyEnter:
			return string(buf), true
		case KeyEscape, KeyQuit:
			return "", false
		}
	}
}

// messageScreen shows a transient message and waits for a keypress.
func (b *Browser) messageScreen(msg string) {
	for {
		b.screen.Clear()
		b.drawBanner()
		b.screen.DrawText(2, len(banner)+2, StyleAlert, msg)
		b.screen.DrawText(2, len(banner)+4, StyleDefault, "Press any key…")
		b.screen.Show()
		if ev := b.screen.ReadKey(); ev.Kind != KeyResize {
			return
		}
	}
}

// browse runs the station list until the user goes back (false) or quits
// (true). Every iteration renders one frame from fresh snapshots and then
// blocks on the next key.
func (b *Browser) browse() bool {
	for {
		b.renderBrowse()

		switch ev := b.screen.ReadKey(); {
		case ev.Kind == KeyQuit:
			return true
		case ev.Kind == KeyUp:
			if b.selected > 0 {
				b.selected--
			}
		case ev.Kind == KeyDown:
			if b.selected < len(b.stations)-1 {
				b.selected++
			}
		case ev.Kind == KeyEnter:
			b.playback.PlayStation(b.stations[b.selected])
		case ev.Kind == KeyPageUp:
			if b.showHistory {
				b.histSel += historyPageStep
				b.histScroll += historyPageStep
			}
		case ev.Kind == KeyPageDown:
			if b.showHistory {
				b.histSel -= historyPageStep
				b.histScroll -= historyPageStep
			}
		case ev.Kind != KeyRune:
			// resize or other special key: just re-render
		case ev.Rune == 's' || ev.Rune == 'S':
			b.playback.Stop()
		case ev.Rune == 'm' || ev.Rune == 'M':
			b.playback.ToggleMute()
		case ev.Rune == '+' || ev.Rune == '=':
			b.playback.Vol(volumeStep)
			b.playback.SaveVolumeForStation(b.stations[b.selected].UUID)
		case ev.Rune == '-' || ev.Rune == '_':
			b.playback.Vol(-volumeStep)
			b.playback.SaveVolumeForStation(b.stations[b.selected].UUID)
		case ev.Rune == 'h' || ev.Rune == 'H':
			b.showHistory = !b.showHistory
			b.store.SetShowHistory(b.showHistory)
		case ev.Rune >= '1' && ev.Rune <= '9':
			b.store.SetFavorite(string(ev.Rune), b.stations[b.selected].UUID)
		case ev.Rune == 'g' || ev.Rune == 'G':
			b.gotoFavorite()
		case ev.Rune == 'b' || ev.Rune == 'B':
			b.playback.Stop()
			return false
		case ev.Rune == 'q' || ev.Rune == 'Q':
			return true
		}
	}
}

// gotoFavorite consumes exactly one keypress; a digit jumps the selection to
// that favorite's row if it is in the current list, anything else cancels.
func (b *Browser) gotoFavorite() {
	b.statusBar("Goto favorite: press 1-9 (or any other key to cancel)")
	b.screen.Show()

	ev := b.screen.ReadKey()
	for ev.Kind == KeyResize {
		ev = b.screen.ReadKey()
	}
	if ev.Kind != KeyRune || ev.Rune < '1' || ev.Rune > '9' {
		return
	}
	uuid, ok := b.store.FavoriteUUID(string(ev.Rune))
	if !ok {
		return
	}
	for i, st := range b.stations {
		if st.UUID == uuid {
			b.selected = i
			b.offset = maxInt(0, i-3)
			break
		}
	}
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
