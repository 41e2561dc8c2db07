// Package boot builds and starts an asphalt component hierarchy from a
// configuration file.
//
// The file names the application and describes the root component:
//
//	asphalt:
//	  application:
//	    name: demo
//	    version: v1.0.0
//	  log:
//	    level: info
//	  component:
//	    type: container
//	    components:
//	      cache: {size: 1024}
//
// The root component's "type" defaults to the built-in container.
package boot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/config"

	"github.com/go-lynx/asphalt"
	"github.com/go-lynx/asphalt/appctx"
	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/factory"
	"github.com/go-lynx/asphalt/log"
)

// Application loads configuration, builds the root component and starts it.
type Application struct {
	configPath string
	conf       config.Config
	registry   factory.ComponentCreator

	root component.Component
	actx *appctx.Context

	// cleanups run in reverse order on Close
	cleanups []func()
}

// Option configures an Application.
type Option func(*Application)

// WithRegistry creates components through r instead of the global registry.
func WithRegistry(r factory.ComponentCreator) Option {
	return func(app *Application) {
		if r != nil {
			app.registry = r
		}
	}
}

// NewApplication prepares an application reading configuration from configPath.
// Unless WithRegistry is given, components are created through the global
// registry, in which the caller registers asphalt.RegisterBuiltins and its own
// types.
func NewApplication(configPath string, opts ...Option) *Application {
	app := &Application{configPath: configPath, registry: factory.Global()}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Config returns the loaded configuration, nil before LoadBootstrapConfig.
func (app *Application) Config() config.Config {
	return app.conf
}

// Root returns the root component, nil before Build.
func (app *Application) Root() component.Component {
	return app.root
}

// Context returns the application-scoped context, nil before Start.
func (app *Application) Context() *appctx.Context {
	return app.actx
}

// Build creates the root component described at "asphalt.component".
func (app *Application) Build() error {
	if app.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	cfg := component.Config{}
	if err := scanOptional(app.conf, keyComponent, &cfg); err != nil {
		return err
	}

	ref, err := component.TypeReference(cfg)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", keyComponent, err)
	}
	if ref.IsZero() {
		ref = component.ByName(asphalt.ContainerEntryPoint)
	}

	root, err := app.registry.Create(ref, cfg)
	if err != nil {
		return fmt.Errorf("failed to create root component %s: %w", ref, err)
	}
	app.root = root
	return nil
}

// Start starts the root component under a fresh application-scoped context.
func (app *Application) Start(ctx context.Context) error {
	if app.root == nil {
		return fmt.Errorf("root component not built")
	}
	app.actx = appctx.New(appctx.ScopeApplication)

	t0 := time.Now()
	if err := app.root.Start(ctx, app.actx); err != nil {
		return err
	}
	log.Infof("%s started in %v", app.GetName(), time.Since(t0))
	return nil
}

// Run loads configuration, sets up logging and tracing, builds and starts
// the root component, then blocks until ctx is done.
func (app *Application) Run(ctx context.Context) error {
	defer app.Close()

	if err := app.LoadBootstrapConfig(); err != nil {
		return err
	}
	if err := log.InitLogger(app.GetName(), app.GetVersion(), app.conf); err != nil {
		return fmt.Errorf("failed to initialise logging: %w", err)
	}
	if err := app.InitTracing(ctx); err != nil {
		return err
	}
	if err := app.Build(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s: %w", app.GetName(), err)
	}

	<-ctx.Done()
	log.Infof("%s shutting down", app.GetName())
	return nil
}

// Close releases configuration watchers and flushes traces.
func (app *Application) Close() {
	for i := len(app.cleanups) - 1; i >= 0; i-- {
		app.cleanups[i]()
	}
	app.cleanups = nil
}
