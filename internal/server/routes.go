package server

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tagsync/internal/shared"
	"github.com/desertthunder/tagsync/internal/tasks"
)

// NewWebhookRouter assembles the service router: the health endpoint plus
// the webhook route behind the shared secret and per-IP rate limit.
//
// Recovery sits outermost so a panic anywhere in the stack still produces a
// JSON 500. CORS runs before the route-scoped checks so preflight requests
// are answered without a secret.
func NewWebhookRouter(engine tasks.SyncEngine, cfg *shared.Config, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(
		RecoverMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	router.Handler(NewHealthHandler())
	router.HandlerWith(
		NewWebhookHandler(engine, logger),
		RateLimitMiddleware(cfg.Limits.WebhookRPS, cfg.Limits.WebhookBurst, logger),
		SecretMiddleware(cfg.Server.WebhookSecret),
	)

	return router
}
