package browser

import (
	"github.com/gdamore/tcell/v2"
)

// KeyKind classifies input events delivered by a Screen.
type KeyKind int

const (
	// KeyRune is a printable character; the Rune field holds it.
	KeyRune KeyKind = iota
	// KeyUp and friends are the special keys the browser reacts to.
	KeyUp
	KeyDown
	KeyEnter
	KeyBackspace
	KeyPageUp
	KeyPageDown
	KeyEscape
	// KeyResize signals a terminal size change; re-render and move on.
	KeyResize
	// KeyQuit is an out-of-band interrupt (Ctrl-C).
	KeyQuit
)

// KeyEvent is one keyboard or resize event.
type KeyEvent struct {
	Kind KeyKind
	Rune rune
}

// Style names the handful of visual treatments the browser uses. The Screen
// implementation decides what they look like.
type Style int

const (
	StyleDefault Style = iota
	StyleBanner
	StyleHeading
	StyleGood
	StyleAlert
	StyleSelect
	StyleHistory
	StyleHistorySelect
	StyleStatus
)

// Screen is the terminal the browser draws on. Draw calls outside the current
// bounds are silently dropped; ReadKey blocks until the next event.
type Screen interface {
	Size() (width, height int)
	Clear()
	Show()
	DrawText(x, y int, style Style, text string)
	ReadKey() KeyEvent
	Close()
}

// tcellScreen adapts a tcell.Screen to the Screen interface.
type tcellScreen struct {
	s tcell.Screen
}

// NewTerminalScreen initializes the real terminal screen.
func NewTerminalScreen() (Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault)
	s.HideCursor()
	return &tcellScreen{s: s}, nil
}

func (t *tcellScreen) Size() (int, int) { return t.s.Size() }

func (t *tcellScreen) Clear() { t.s.Clear() }

func (t *tcellScreen) Show() { t.s.Show() }

func (t *tcellScreen) Close() { t.s.Fini() }

func (t *tcellScreen) DrawText(x, y int, style Style, text string) {
	st := styleFor(style)
	col := x
	for _, r := range text {
		t.s.SetContent(col, y, r, nil, st)
		col++
	}
}

func (t *tcellScreen) ReadKey() KeyEvent {
	for {
		switch ev := t.s.PollEvent().(type) {
		case *tcell.EventResize:
			t.s.Sync()
			return KeyEvent{Kind: KeyResize}
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyUp:
				return KeyEvent{Kind: KeyUp}
			case tcell.KeyDown:
				return KeyEvent{Kind: KeyDown}
			case tcell.KeyEnter:
				return KeyEvent{Kind: KeyEnter}
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				return KeyEvent{Kind: KeyBackspace}
			case tcell.KeyPgUp:
				return KeyEvent{Kind: KeyPageUp}
			case tcell.KeyPgDn:
				return KeyEvent{Kind: KeyPageDown}
			case tcell.KeyEscape:
				return KeyEvent{Kind: KeyEscape}
			case tcell.KeyCtrlC:
				return KeyEvent{Kind: KeyQuit}
			case tcell.KeyRune:
				return KeyEvent{Kind: KeyRune, Rune: ev.Rune()}
			}
		}
	}
}

func styleFor(style Style) tcell.Style {
	base := tcell.StyleDefault
	switch style {
	case StyleBanner:
		return base.Foreground(tcell.ColorAqua).Bold(true)
	case StyleHeading:
		return base.Foreground(tcell.ColorYellow).Bold(true)
	case StyleGood:
		return base.Foreground(tcell.ColorGreen).Bold(true)
	case StyleAlert:
		return base.Foreground(tcell.ColorRed).Bold(true)
	case StyleSelect:
		return base.Foreground(tcell.ColorFuchsia).Reverse(true)
	case StyleHistory:
		return base.Foreground(tcell.ColorBlue)
	case StyleHistorySelect:
		return base.Foreground(tcell.ColorBlue).Reverse(true)
	case StyleStatus:
		return base.Reverse(true)
	default:
		return base
	}
}
