package appctx

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeString(t *testing.T) {
	assert.Equal(t, "application", ScopeApplication.String())
	assert.Equal(t, "request", ScopeRequest.String())
	assert.Equal(t, "scope(7)", Scope(7).String())
}

func TestChildContext(t *testing.T) {
	root := New(ScopeApplication)
	child := root.Child(ScopeRequest)

	assert.Equal(t, ScopeApplication, root.Scope())
	assert.Equal(t, ScopeRequest, child.Scope())
	assert.Same(t, root, child.Parent())
	assert.Nil(t, root.Parent())
}

func TestResourceLookupFallsBackToParent(t *testing.T) {
	root := New(ScopeApplication)
	require.NoError(t, root.AddResource("db", "primary"))

	child := root.Child(ScopeRequest)
	require.NoError(t, child.AddResource("tx", 42))

	v, err := child.GetResource("db")
	require.NoError(t, err)
	assert.Equal(t, "primary", v)

	_, err = root.GetResource("tx")
	assert.ErrorIs(t, err, ErrResourceNotFound)

	assert.Equal(t, []string{"db", "tx"}, child.Resources())
	assert.Equal(t, []string{"db"}, root.Resources())
}

func TestChildShadowsParent(t *testing.T) {
	root := New(ScopeApplication)
	require.NoError(t, root.AddResource("name", "outer"))
	child := root.Child(ScopeRequest)
	require.NoError(t, child.AddResource("name", "inner"))

	v, err := Resource[string](child, "name")
	require.NoError(t, err)
	assert.Equal(t, "inner", v)

	info, err := child.ResourceInfo("name")
	require.NoError(t, err)
	assert.Equal(t, ScopeRequest, info.Scope)
	assert.Equal(t, "string", info.Type)
}

func TestAddResourceErrors(t *testing.T) {
	c := New(ScopeApplication)

	assert.ErrorIs(t, c.AddResource("", 1), ErrInvalidResource)
	assert.ErrorIs(t, c.AddResource("x", nil), ErrInvalidResource)

	require.NoError(t, c.AddResource("x", 1))
	err := c.AddResource("x", 2)
	assert.True(t, errors.Is(err, ErrResourceConflict))

	v, err := c.GetResource("x")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestTypedResourceMismatch(t *testing.T) {
	c := New(ScopeApplication)
	require.NoError(t, c.AddResource("port", 8080))

	_, err := Resource[string](c, "port")
	assert.ErrorIs(t, err, ErrInvalidResource)

	port, err := Resource[int](c, "port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)
}

func TestConcurrentAddResource(t *testing.T) {
	c := New(ScopeApplication)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.AddResource("shared", struct{}{})
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}
