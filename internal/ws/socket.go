package ws

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/firstclick-live/firstclick/internal/config"
	"github.com/firstclick-live/firstclick/internal/game"
	"github.com/firstclick-live/firstclick/internal/session"
)

type ConnCtx struct {
	ParticipantID session.ParticipantID
	Role          string // "participant" | "admin" | ""
}

// Server fans session snapshots out to every connected client. All state
// shown anywhere is derived from the last snapshot the store pushed; the
// gateway never assumes a write it issued has landed.
type Server struct {
	svc    *game.Service
	config config.Config

	mu      sync.Mutex
	members map[string]socketio.Conn // socket id -> conn
	latest  *session.Record          // nil until the first snapshot arrives
}

func New(svc *game.Service, cfg config.Config) *Server {
	return &Server{
		svc:     svc,
		config:  cfg,
		members: make(map[string]socketio.Conn),
	}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine
// and starts the snapshot consumer.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		srv.addMember(s)
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		// late joiners get the current state right away
		srv.emitStateTo(s)
		return nil
	})

	// session:join
	io.OnEvent("/", "session:join", func(s socketio.Conn, payload struct {
		Name string `json:"name"`
		Team string `json:"team"`
	}) map[string]any {
		id, err := srv.svc.Join(payload.Name, session.Team(payload.Team))
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		s.SetContext(&ConnCtx{ParticipantID: id, Role: "participant"})
		log.Info().Str("sid", s.ID()).Str("participantId", string(id)).Msg("session:join")
		return map[string]any{"participantId": string(id)}
	})

	// session:resume (a participant reconnecting with a previously issued id)
	io.OnEvent("/", "session:resume", func(s socketio.Conn, payload struct {
		ParticipantID string `json:"participantId"`
	}) map[string]any {
		if payload.ParticipantID == "" {
			return srv.err(s, "bad_request", "missing participant id")
		}
		s.SetContext(&ConnCtx{ParticipantID: session.ParticipantID(payload.ParticipantID), Role: "participant"})
		log.Info().Str("sid", s.ID()).Str("participantId", payload.ParticipantID).Msg("session:resume")
		srv.emitStateTo(s)
		return map[string]any{"ok": true}
	})

	// session:click
	io.OnEvent("/", "session:click", func(s socketio.Conn) map[string]any {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.ParticipantID == "" {
			return srv.err(s, "bad_request", "not joined")
		}
		// Advisory admission check against the snapshot this client would be
		// seeing. It can be stale: two participants may both pass and both
		// record a click. Ranking by server timestamp settles that.
		if state := session.ViewFor(srv.snapshot(), ctx.ParticipantID); state != session.ViewActive {
			log.Debug().Str("participantId", string(ctx.ParticipantID)).Str("state", string(state)).Msg("click not admitted")
			return map[string]any{"accepted": false}
		}
		if err := srv.svc.RecordClick(ctx.ParticipantID); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Str("participantId", string(ctx.ParticipantID)).Msg("session:click")
		return map[string]any{"accepted": true}
	})

	// admin events. There is no admin authentication; any client may drive
	// the session.
	io.OnEvent("/", "admin:enable", func(s socketio.Conn) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.EnableButton(); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Msg("admin:enable")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:disable", func(s socketio.Conn) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.DisableButton(); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Msg("admin:disable")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:reset", func(s socketio.Conn) map[string]any {
		srv.markAdmin(s)
		srv.exportFinishedRound()
		if err := srv.svc.ResetGame(); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Msg("admin:reset")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:lock", func(s socketio.Conn) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.LockSession(); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Msg("admin:lock")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:unlock", func(s socketio.Conn) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.UnlockSession(); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Msg("admin:unlock")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:setDisabled", func(s socketio.Conn, payload struct {
		ParticipantID string `json:"participantId"`
		Disabled      bool   `json:"disabled"`
	}) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.SetParticipantDisabled(session.ParticipantID(payload.ParticipantID), payload.Disabled); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Str("participantId", payload.ParticipantID).Bool("disabled", payload.Disabled).Msg("admin:setDisabled")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:remove", func(s socketio.Conn, payload struct {
		ParticipantID string `json:"participantId"`
	}) map[string]any {
		srv.markAdmin(s)
		if err := srv.svc.RemoveParticipant(session.ParticipantID(payload.ParticipantID)); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Str("participantId", payload.ParticipantID).Msg("admin:remove")
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "admin:score", func(s socketio.Conn, payload struct {
		Team  string `json:"team"`
		Delta int64  `json:"delta"`
	}) map[string]any {
		srv.markAdmin(s)
		if payload.Delta == 0 {
			return srv.err(s, "bad_request", "zero delta")
		}
		if err := srv.svc.UpdateScore(session.Team(payload.Team), payload.Delta); err != nil {
			return srv.err(s, "write_failed", err.Error())
		}
		log.Info().Str("team", payload.Team).Int64("delta", payload.Delta).Msg("admin:score")
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.removeMember(s)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()
	go srv.consume()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// consume drains the store's snapshot stream and rebroadcasts derived state.
// Snapshots may be coalesced under load; every delivery is recomputed from
// scratch.
func (srv *Server) consume() {
	sub := srv.svc.Subscribe()
	defer sub.Cancel()
	for snap := range sub.C {
		var rec session.Record
		if snap.Exists {
			rec = session.DecodeRecord(snap.Doc)
		} else {
			rec = session.DecodeRecord(nil)
		}
		srv.mu.Lock()
		srv.latest = &rec
		conns := make([]socketio.Conn, 0, len(srv.members))
		for _, c := range srv.members {
			conns = append(conns, c)
		}
		srv.mu.Unlock()
		for _, c := range conns {
			srv.emitStateTo(c)
		}
	}
}

// snapshot returns the last decoded record, nil before the first delivery.
func (srv *Server) snapshot() *session.Record {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.latest
}

// emitStateTo sends the personalized session state to one connection: the
// shared record plus all derivations, and the participant's own view state
// when the connection has an identity.
func (srv *Server) emitStateTo(c socketio.Conn) {
	rec := srv.snapshot()
	payload := map[string]any{
		"loaded": rec != nil,
	}
	if rec != nil {
		entries := session.Rank(*rec)
		payload["record"] = rec
		payload["leaderboard"] = entries
		payload["fastest"] = session.Fastest(entries)
		payload["standings"] = session.ComputeStandings(*rec)
	}
	if ctx, ok := c.Context().(*ConnCtx); ok && ctx.ParticipantID != "" {
		payload["you"] = map[string]any{
			"participantId": string(ctx.ParticipantID),
			"viewState":     string(session.ViewFor(rec, ctx.ParticipantID)),
		}
	}
	c.Emit("session:state", payload)
}

// exportFinishedRound writes the round report before a reset discards the
// clicks. Best effort; a failed export never blocks the reset.
func (srv *Server) exportFinishedRound() {
	if !srv.config.ExportEnabled {
		return
	}
	rec := srv.snapshot()
	if rec == nil || len(rec.Clicks) == 0 {
		return
	}
	if err := game.ExportRound(*rec, srv.config.ExportFile); err != nil {
		log.Error().Err(err).Str("file", srv.config.ExportFile).Msg("failed to export round")
	} else {
		log.Info().Str("file", srv.config.ExportFile).Msg("exported round results")
	}
}

func (srv *Server) markAdmin(s socketio.Conn) {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Role == "" {
		ctx.Role = "admin"
	}
}

func (srv *Server) addMember(c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.members[c.ID()] = c
}

func (srv *Server) removeMember(c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.members, c.ID())
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
