package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/engine"
	"github.com/conversify/conversify/pkg/log"
)

// inbound is one client frame.
type inbound struct {
	Text string `json:"text"`
}

// outbound is one server frame.
type outbound struct {
	Reply string `json:"reply"`
	State string `json:"state"`
}

type Server struct {
	cfg      *config.ServerConfig
	engine   *engine.Engine
	router   core.CmdRouter
	upgrader websocket.Upgrader
	httpSrv  *http.Server
	nextConn atomic.Int64
}

func NewServer(cfg *config.ServerConfig, eng *engine.Engine, router core.CmdRouter) *Server {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowedOrigin == "" || cfg.AllowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.httpSrv = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	// propagate the base logger context into request handlers
	s.httpSrv.BaseContext = func(net.Listener) context.Context { return ctx }
	log.FromCtx(ctx).Info().Str("addr", s.cfg.ListenAddr).Msg("starting websocket server")
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","version":%q}`, core.AppVersion)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromCtx(ctx)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := fmt.Sprintf("ws-%d-%d", time.Now().Unix(), s.nextConn.Add(1))
	logger.Info().Str("session", sessionID).Str("remote", r.RemoteAddr).Msg("websocket client connected")

	for {
		var in inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Str("session", sessionID).Msg("websocket read failed")
			}
			return
		}
		if in.Text == "" {
			continue
		}

		var reply string
		if out, handled := s.router.Execute(ctx, sessionID, in.Text); handled {
			reply = out
		} else {
			reply, err = s.engine.Process(ctx, sessionID, in.Text)
			if err != nil {
				logger.Error().Err(err).Str("session", sessionID).Msg("message processing failed")
				reply = "Something went wrong, please try again."
			}
		}

		frame := outbound{Reply: reply, State: s.engine.State(sessionID).String()}
		if err := conn.WriteJSON(frame); err != nil {
			logger.Warn().Err(err).Str("session", sessionID).Msg("websocket write failed")
			return
		}
	}
}
