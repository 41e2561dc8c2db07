// Package asphalt composes components into hierarchies and starts them.
//
// # Concepts
//
//   - Component (package component): anything with Start(ctx, actx).
//   - Registry (package factory): resolves entry point names and class
//     references ("<package-path>:<TypeName>") to component types and
//     constructs instances.
//   - Container (this package): a Component owning named children. Child
//     configuration given in code is overridden key by key by the external
//     configuration the container was built with.
//   - Context (package appctx): the scoped handle threaded through Start.
//
// # Usage
//
//	factory.Register("cache", component.NewType(NewCache))
//
//	root := asphalt.NewContainer(map[string]component.Config{
//	    "cache": {"size": 1024},
//	})
//	if err := root.AddComponent("cache", component.Reference{}, component.Config{"size": 64, "ttl": "1m"}); err != nil {
//	    return err
//	}
//	// cache is constructed with {"size": 1024, "ttl": "1m"}
//	return root.Start(ctx, appctx.New(appctx.ScopeApplication))
//
// Start runs every child's Start in its own goroutine and waits for all of
// them. The first failure cancels the context seen by the others and is
// returned once they have all returned.
package asphalt
