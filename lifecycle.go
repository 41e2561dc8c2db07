package asphalt

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/go-lynx/asphalt/appctx"
	"github.com/go-lynx/asphalt/component"
	"github.com/go-lynx/asphalt/log"
	"github.com/go-lynx/asphalt/observability/metrics"
)

type startEntry struct {
	alias string
	comp  component.Component
}

// Start adds a child for every externally configured alias that was never
// added explicitly, then starts all children concurrently with actx.
//
// It returns nil once every child has started. When a child fails, the context
// handed to the others is cancelled, Start waits for all of them to return, and
// the first failure is returned as is. A child that never returns blocks Start
// until ctx is cancelled and the child honours it.
func (c *Container) Start(ctx context.Context, actx *appctx.Context) error {
	c.mu.Lock()
	if c.status != StatusCreated {
		c.mu.Unlock()
		return component.ErrAlreadyStarted
	}
	for _, alias := range c.pendingAliases() {
		if err := c.addLocked(alias, component.Reference{}, nil); err != nil {
			c.status = StatusFailed
			c.mu.Unlock()
			return err
		}
	}
	c.status = StatusStarting
	entries := make([]startEntry, 0, len(c.aliases))
	for _, alias := range c.aliases {
		entries = append(entries, startEntry{alias: alias, comp: c.children[alias]})
	}
	c.mu.Unlock()

	err := c.startAll(ctx, actx, entries)

	c.mu.Lock()
	if err != nil {
		c.status = StatusFailed
	} else {
		c.status = StatusStarted
	}
	c.mu.Unlock()
	return err
}

func (c *Container) startAll(ctx context.Context, actx *appctx.Context, entries []startEntry) error {
	if len(entries) == 0 {
		return nil
	}

	metrics.ContainersStarting.Inc()
	defer metrics.ContainersStarting.Dec()

	t0 := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range entries {
		e := e
		g.Go(func() error {
			return c.startChild(gctx, actx, e)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("started %d components in %v", len(entries), time.Since(t0))
	return nil
}

func (c *Container) startChild(ctx context.Context, actx *appctx.Context, e startEntry) (err error) {
	typeName := fmt.Sprintf("%T", e.comp)
	ctx, span := c.tracer.Start(ctx, "component.start", trace.WithAttributes(
		attribute.String("component.alias", e.alias),
		attribute.String("component.type", typeName),
	))
	t0 := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = component.NewComponentError(e.alias, "start", fmt.Sprintf("panic: %v", r), nil)
		}
		took := time.Since(t0)
		metrics.ObserveStart(typeName, took, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.ErrorfCtx(ctx, "component %s failed to start after %v: %v", e.alias, took, err)
		} else {
			span.SetStatus(codes.Ok, "")
			log.DebugfCtx(ctx, "component %s started in %v", e.alias, took)
		}
		span.End()
	}()

	log.DebugfCtx(ctx, "starting component %s", e.alias)
	return e.comp.Start(ctx, actx)
}
