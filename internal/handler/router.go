package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/taipeifirst/tellerdesk/backend/internal/audit"
	chatHandler "github.com/taipeifirst/tellerdesk/backend/internal/handler/chat"
	streamHandler "github.com/taipeifirst/tellerdesk/backend/internal/handler/stream"
	wsHandler "github.com/taipeifirst/tellerdesk/backend/internal/handler/ws"
	middlewarePkg "github.com/taipeifirst/tellerdesk/backend/internal/middleware"
	"github.com/taipeifirst/tellerdesk/backend/internal/service/conversation"
	"github.com/taipeifirst/tellerdesk/backend/pkg/utils"
)

// Config carries the transport knobs the CLI resolves.
type Config struct {
	AllowedOrigins []string
	RateLimit      int           // requests per window per client IP, 0 disables
	RateWindow     time.Duration // defaults to one minute
	ChunkSize      int           // streamed fragment size in runes
}

// NewRouter wires HTTP routes to the conversation service.
func NewRouter(svc *conversation.Service, recorder audit.Recorder, cfg Config) http.Handler {
	if recorder == nil {
		recorder = audit.Discard{}
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.AllowedOrigins))
	r.Use(middlewarePkg.SecureHeaders)

	if cfg.RateLimit > 0 {
		r.Use(httprate.Limit(
			cfg.RateLimit,
			cfg.RateWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
				recorder.Record(req.Context(), audit.Event{
					Kind:    audit.KindRateLimitExceeded,
					Outcome: "rejected",
				})
				utils.RespondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			}),
		))
	}

	sessions := chatHandler.New(svc)
	streams := streamHandler.New(svc, streamHandler.WithChunkSize(cfg.ChunkSize))
	sockets := wsHandler.New(svc, wsHandler.WithChunkSize(cfg.ChunkSize))

	r.Route("/api", func(api chi.Router) {
		sessions.RegisterRoutes(api)
		streams.RegisterRoutes(api)
	})

	sockets.RegisterRoutes(r)

	return r
}
