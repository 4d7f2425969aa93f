package handler

import (
	"storyauth/internal/app/auth"
	"storyauth/internal/app/storage"
	"storyauth/internal/configs"
	"storyauth/internal/pkg/auth/jwt"
	"storyauth/internal/pkg/limiter"
	"storyauth/internal/pkg/metrics"
	"storyauth/internal/pkg/pow"
)

// AppDeps carries everything the handlers need. It is built once in main and passed
// to Router; handlers never look anything up globally.
type AppDeps struct {
	Config *configs.AppConfig
	Auth   *auth.Service
	Tokens *jwt.Issuer

	// AuthLimiter throttles the signup, login, guest and challenge routes per IP.
	AuthLimiter *limiter.IPRateLimiter

	// Metrics is optional. When nil, no collectors are recorded and /metrics is not mounted.
	Metrics *metrics.Metrics

	// Pow is nil when POW_DIFFICULTY is 0.
	Pow *pow.Manager

	// StorageService is nil when S3 is not configured.
	StorageService storage.StorageService
}
