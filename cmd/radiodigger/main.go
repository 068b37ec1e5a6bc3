// Command radiodigger is a terminal client for browsing and playing internet
// radio stations from the Radio Browser directory, with per-station volumes,
// favorite slots, and live track metadata.
package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edward-ap/radiodigger/internal/browser"
	"github.com/edward-ap/radiodigger/internal/nowplaying"
	"github.com/edward-ap/radiodigger/internal/player"
	"github.com/edward-ap/radiodigger/internal/search"
	"github.com/edward-ap/radiodigger/internal/session"
	"github.com/edward-ap/radiodigger/internal/vu"
)

func main() {
	api := flag.String("api", search.DefaultEndpoint, "Radio Browser API endpoint")
	debug := flag.Bool("debug", false, "enable debug logging")
	trace := flag.Bool("traceLog", false, "enable verbose libVLC logging to vlc.log")
	flag.Parse()
	player.SetTraceLoggingEnabled(*trace)

	cacheDir := defaultCacheDir()
	setupLogging(cacheDir, *debug)

	cfgDir, err := session.DefaultDir()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot resolve config directory")
	}
	store := session.NewStore(cfgDir)
	if err := store.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("cannot create config directory")
	}
	store.Load()

	now := nowplaying.NewState(cacheDir)

	engine := player.NewVLCEngine()
	if err := engine.Init(); err != nil {
		log.Fatal().Err(err).Msg("libVLC unavailable")
	}

	ctrl := player.NewController(engine, store, now)
	meter := vu.NewMeter(vu.NewPactlProbe())

	scr, err := browser.NewTerminalScreen()
	if err != nil {
		ctrl.Shutdown()
		engine.Release()
		log.Fatal().Err(err).Msg("terminal init failed")
	}

	// Seed the cache file so external status bars show something immediately.
	now.UpdateLine("Ready")

	ui := browser.New(scr, search.NewClient(*api, nil), ctrl, store, now, meter)
	ui.Run()

	scr.Close()
	ctrl.Shutdown()
	engine.Release()
}

// setupLogging sends the global zerolog logger to a file in the cache dir;
// stderr belongs to the fullscreen UI. Logging failures degrade to discard.
func setupLogging(cacheDir string, debug bool) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var w io.Writer = io.Discard
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(cacheDir, "radiodigger.log"),
				os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				w = f
			}
		}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, session.AppDirName)
}
