package logger

import (
	"log"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/patch-core/internal/config"
)

// InitSentry wires Sentry from cfg, mirroring main.go's optional
// initialization in the teacher repo. A caller embedding patch-core as a
// library decides if/when to call this; the pipeline itself never calls it.
func InitSentry(cfg *config.Config) {
	if cfg.SentryDSN == "" {
		log.Println("patchcore: Sentry not configured (PATCHCORE_SENTRY_DSN not set)")
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Debug:       !cfg.IsProduction(),
	})
	if err != nil {
		log.Printf("patchcore: failed to initialize Sentry: %v", err)
		return
	}
	log.Printf("patchcore: Sentry initialized (environment: %s)", cfg.Environment)
}
