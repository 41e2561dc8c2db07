package boot

import (
	"errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"

	"github.com/go-lynx/asphalt/log"
)

// Configuration keys read during bootstrap.
const (
	keyAppName    = "asphalt.application.name"
	keyAppVersion = "asphalt.application.version"
	keyComponent  = "asphalt.component"
	keyTracing    = "asphalt.tracing"
)

// LoadBootstrapConfig loads the configuration file or directory at app's
// config path and validates it.
func (app *Application) LoadBootstrapConfig() error {
	if app == nil {
		return fmt.Errorf("application instance is nil: cannot load bootstrap configuration")
	}
	if app.configPath == "" {
		return fmt.Errorf("configuration path is empty: please specify it with --conf")
	}

	log.Infof("loading bootstrap configuration from: %s", app.configPath)

	cfg := config.New(config.WithSource(file.NewSource(app.configPath)))
	if err := cfg.Load(); err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", app.configPath, err)
	}
	if err := validateConfig(cfg); err != nil {
		_ = cfg.Close()
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	app.conf = cfg
	app.cleanups = append(app.cleanups, func() {
		if err := cfg.Close(); err != nil {
			log.Errorf("failed to close configuration: %v", err)
		}
	})
	return nil
}

// validateConfig checks the keys every asphalt application needs.
func validateConfig(cfg config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration instance is nil")
	}
	if _, err := cfg.Value(keyAppName).String(); err != nil {
		return fmt.Errorf("required configuration key '%s' is missing or invalid: %w", keyAppName, err)
	}
	return nil
}

// scanOptional scans key into out, leaving out untouched when the key is absent.
func scanOptional(cfg config.Config, key string, out any) error {
	err := cfg.Value(key).Scan(out)
	if errors.Is(err, config.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid configuration at %s: %w", key, err)
	}
	return nil
}

// GetName returns the application name, or "asphalt" before configuration is loaded.
func (app *Application) GetName() string {
	if app.conf != nil {
		if name, err := app.conf.Value(keyAppName).String(); err == nil {
			return name
		}
	}
	return "asphalt"
}

// GetVersion returns the application version, or "unknown".
func (app *Application) GetVersion() string {
	if app.conf != nil {
		if version, err := app.conf.Value(keyAppVersion).String(); err == nil {
			return version
		}
	}
	return "unknown"
}
