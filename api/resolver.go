package api

import (
	"github.com/ZamarianPatrick/lazypig-care/logger"
	"github.com/ZamarianPatrick/lazypig-care/settings"
)

// Resolver serves the HTTP API on top of a Controller.
type Resolver struct {
	version    string
	controller Controller
	log        logger.Logger
	auth       *Authenticator
	limiter    *RateLimiter
}

func NewResolver(version string, s *settings.Settings, controller Controller, log logger.Logger) *Resolver {
	return &Resolver{
		version:    version,
		controller: controller,
		log:        log.Component("api"),
		auth:       NewAuthenticator(s.JWTSecret),
		limiter:    NewRateLimiter(s.Wizard.RequestsPerMinute, s.Wizard.Burst),
	}
}
