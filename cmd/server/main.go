package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/firstclick-live/firstclick/internal/config"
	"github.com/firstclick-live/firstclick/internal/game"
	"github.com/firstclick-live/firstclick/internal/session"
	"github.com/firstclick-live/firstclick/internal/store"
	"github.com/firstclick-live/firstclick/internal/ws"
	staticserver "github.com/firstclick-live/firstclick/static"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`First Click - Real-time buzzer game

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT              Port to listen on (default: 8080)
  SESSION_ID        Identifier of the shared session record (default: default-session)
  EXPORT_ENABLED    Export round results to file (default: true)
  EXPORT_FILE       Path to export round results (default: ./firstclick-results.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("First Click %s\n", version)
		return
	}

	// Config
	cfg := config.FromEnv()
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Record store (time authority included) + mutation service + gateway
	st := store.New(clockwork.NewRealClock())
	svc := game.New(st, cfg.SessionID)
	sock := ws.New(svc, cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Read-only REST view of the session: the decoded record plus every
	// derivation, recomputed from the snapshot on each request.
	r.GET("/api/session", func(c *gin.Context) {
		sub := st.Subscribe(cfg.SessionID)
		defer sub.Cancel()
		snap := <-sub.C
		if !snap.Exists {
			c.Status(http.StatusNotFound)
			return
		}
		rec := session.DecodeRecord(snap.Doc)
		entries := session.Rank(rec)
		c.JSON(http.StatusOK, gin.H{
			"record":      rec,
			"leaderboard": entries,
			"fastest":     session.Fastest(entries),
			"standings":   session.ComputeStandings(rec),
		})
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
