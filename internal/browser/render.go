package browser

import (
	"fmt"
	"strings"
)

var banner = []string{
	"██████╗  █████╗ ██████╗ ██╗ ██████╗ ",
	"██╔══██╗██╔══██╗██╔══██╗██║██╔════╝ ",
	"██████╔╝███████║██║  ██║██║██║  ███╗",
	"██╔══██╗██╔══██║██║  ██║██║██║   ██║",
	"██║  ██║██║  ██║██████╔╝██║╚██████╔╝",
	"╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝ ╚═╝ ╚═════╝ ",
	"        R A D I O   D I G G E R      ",
}

const helpLine = "↑↓ navigate | ENTER play | +/- vol | m mute | s stop | h history | 1-9 save fav | g goto fav | b back | q quit"

const defaultHistoryHeight = 10

// layout holds the per-frame panel geometry, recomputed from the current
// terminal size so a resize between frames never leaves stale coordinates.
type layout struct {
	width, height int
	top           int
	listH         int
	historyH      int
	vuWidth       int
	boxY          int
	boxW          int
	boxH          int
}

func computeLayout(width, height int, showHistory bool) layout {
	lay := layout{width: width, height: height, top: len(banner) + 1}

	if showHistory {
		lay.historyH = defaultHistoryHeight
	}
	lay.listH = height - lay.top - 6 - lay.historyH
	if lay.listH < 5 {
		lay.listH = 5
	}

	lay.vuWidth = clamp(width-20, 10, 30)

	lay.boxW = width - 4
	if lay.boxW > 80 {
		lay.boxW = 80
	}
	lay.boxH = lay.historyH
	if lay.boxH > height-2 {
		lay.boxH = height - 2
	}
	lay.boxY = height - lay.historyH - 2
	return lay
}

// renderBrowse draws one frame of the browsing screen from a single snapshot
// of each shared input and returns the geometry used.
func (b *Browser) renderBrowse() layout {
	b.screen.Clear()
	b.drawBanner()

	w, h := b.screen.Size()
	lay := computeLayout(w, h, b.showHistory)

	snap := b.now.Snapshot()
	volume := b.playback.Volume()
	playing := b.playback.IsPlaying()

	// Selection and viewport are re-clamped every frame; the list is fixed
	// per session but nothing else is.
	if len(b.stations) > 0 {
		b.selected = clamp(b.selected, 0, len(b.stations)-1)
	}
	if b.selected < b.offset {
		b.offset = b.selected
	}
	if b.selected >= b.offset+lay.listH {
		b.offset = b.selected - lay.listH + 1
	}
	b.offset = clamp(b.offset, 0, maxInt(0, len(b.stations)-1))

	for i, st := range b.stations[b.offset:minInt(b.offset+lay.listH, len(b.stations))] {
		idx := b.offset + i
		mark := " "
		if b.store.IsFavorite(st.UUID) {
			mark = "★"
		}
		volmark := ""
		if v, ok := b.store.Volume(st.UUID); ok {
			volmark = fmt.Sprintf(" (vol %d%%)", v)
		}
		line := fmt.Sprintf("%s %s [%s]%s", mark, st.Name, st.Country, volmark)
		style := StyleDefault
		if idx == b.selected {
			style = StyleSelect
		}
		b.screen.DrawText(2, lay.top+i, style, truncate(line, w-4))
	}

	b.screen.DrawText(2, h-5-lay.historyH, StyleHeading, truncate("Station: "+snap.StationName, w-4))
	b.screen.DrawText(2, h-4-lay.historyH, StyleHeading, truncate("Now: "+snap.Line, w-4))

	level := b.vu.Level(lay.vuWidth, volume, playing)
	barStyle := StyleAlert
	if playing {
		barStyle = StyleGood
	}
	b.screen.DrawText(2, h-3-lay.historyH, StyleGood, "VU: ")
	b.screen.DrawText(6, h-3-lay.historyH, barStyle, pad(strings.Repeat("█", clamp(level, 0, lay.vuWidth)), lay.vuWidth))
	b.screen.DrawText(7+lay.vuWidth, h-3-lay.historyH, StyleHeading, fmt.Sprintf(" Vol %3d%%", volume))

	if b.showHistory && lay.boxH >= 3 && lay.boxW >= 4 && lay.boxY >= 0 {
		b.histSel = clamp(b.histSel, 0, maxInt(0, len(snap.History)-1))
		b.histScroll = clamp(b.histScroll, 0, maxInt(0, len(snap.History)-(lay.boxH-2)))
		b.drawHistoryBox(snap.History, lay)
	}

	b.statusBar(helpLine)
	b.screen.Show()
	return lay
}

// drawHistoryBox renders the bordered metadata history panel with the current
// scroll window and selection highlight.
func (b *Browser) drawHistoryBox(history []string, lay layout) {
	inner := lay.boxW - 2
	b.screen.DrawText(2, lay.boxY, StyleHistory, "┌"+strings.Repeat("─", inner)+"┐")
	for i := 1; i < lay.boxH-1; i++ {
		b.screen.DrawText(2, lay.boxY+i, StyleHistory, "│"+strings.Repeat(" ", inner)+"│")
	}
	b.screen.DrawText(2, lay.boxY+lay.boxH-1, StyleHistory, "└"+strings.Repeat("─", inner)+"┘")
	b.screen.DrawText(4, lay.boxY, StyleHistory, "Metadata History")

	innerH := lay.boxH - 2
	view := history[minInt(b.histScroll, len(history)):]
	if len(view) > innerH {
		view = view[:innerH]
	}
	for i, line := range view {
		style := StyleHistory
		if b.histScroll+i == b.histSel {
			style = StyleHistorySelect
		}
		b.screen.DrawText(4, lay.boxY+1+i, style, pad(truncate(line, lay.boxW-4), lay.boxW-4))
	}
}

func (b *Browser) drawBanner() {
	for i, line := range banner {
		b.screen.DrawText(2, i, StyleBanner, line)
	}
}

// statusBar draws a reverse-video line on the bottom row, skipped entirely
// when the terminal is too small to hold it.
func (b *Browser) statusBar(text string) {
	w, h := b.screen.Size()
	if h < 1 || w < 2 {
		return
	}
	b.screen.DrawText(0, h-1, StyleStatus, pad(truncate(text, w-1), w-1))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func pad(s string, n int) string {
	if d := n - len([]rune(s)); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
