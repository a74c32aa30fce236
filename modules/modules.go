// Package modules ships the registrations most hosted programs start
// from: configuration and structured logging.
package modules

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tbanek/hoist/config"
	"github.com/tbanek/hoist/host"
)

// ConfigModule binds *config.Config as a singleton, loading the given env
// files (default ".env") once on first resolution.
type ConfigModule struct {
	EnvFiles []string
}

func (m ConfigModule) Register(r *host.Registry) {
	envFiles := m.EnvFiles
	r.Singleton(func() *config.Config {
		return config.Load(envFiles...)
	})
}

// LoggingModule binds *zap.Logger as a singleton: a production logger
// when APP_ENV is "production", a development logger otherwise, at the
// level named by LOG_LEVEL.
type LoggingModule struct{}

func (LoggingModule) Register(r *host.Registry) {
	r.Singleton(func(cfg *config.Config) (*zap.Logger, error) {
		var zcfg zap.Config
		if cfg.App.Env == "production" {
			zcfg = zap.NewProductionConfig()
		} else {
			zcfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		return zcfg.Build()
	})
}
