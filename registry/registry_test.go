package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/hsdoc/hsdoc"
)

const fooSource = `--- === hs.foo ===
---
--- The foo module.

--- hs.foo.new() -> foo
--- Constructor
--- Makes a foo.
---
--- Parameters:
---  * None
---
--- Returns:
---  * A foo

--- local helper

--- size
--- Variable
--- Size of the thing.

--- hs.foo:start(delay)
--- Method
--- Starts it.
---
--- Parameters:
---  * delay - seconds
---
--- Returns:
---  * Nothing
`

func TestRegistryAggregates(t *testing.T) {
	r := New()
	r.Add("foo.lua", hsdoc.Parse(fooSource))

	modules := r.Modules()
	require.Len(t, modules, 1)
	foo := modules[0]
	assert.Equal(t, "hs.foo", foo.Name)
	assert.True(t, foo.Declared())
	assert.Equal(t, 1, foo.Line)
	require.Len(t, foo.Items, 3)

	// "size" has no module and is attached to the module declared above it.
	size, ok := r.Item("hs.foo.size")
	require.True(t, ok)
	assert.Equal(t, hsdoc.KindVariable, size.Item.Kind())
	assert.Equal(t, 17, size.Line)

	start, ok := r.Item("hs.foo:start")
	require.True(t, ok)
	assert.Equal(t, "hs.foo:start", start.QualifiedName())

	problems := r.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, ProblemUnrecognised, problems[0].Kind)
	assert.Equal(t, 15, problems[0].Line)
}

func TestRegistryGlobalModule(t *testing.T) {
	r := New()
	r.Add("init.lua", hsdoc.Parse("--- debug boolean\n--- Variable\n--- Enables debugging."))

	m, ok := r.Lookup(Global)
	require.True(t, ok)
	assert.False(t, m.Declared())
	require.Len(t, m.Items, 1)
	assert.Empty(t, r.Problems())

	e, ok := r.Item("debug")
	require.True(t, ok)
	assert.Equal(t, "debug", e.QualifiedName())
}

func TestRegistryProblems(t *testing.T) {
	r := New()
	r.Add("a.lua", hsdoc.Parse("--- === hs.a ===\n---\n--- A.\n\n--- hs.b.X\n--- Constant\n--- In an undeclared module."))
	r.Add("b.lua", hsdoc.Parse("--- === hs.a ===\n---\n--- Again.\n\n--- hs.a.X\n--- Constant\n--- One.\n\n--- hs.a.X\n--- Constant\n--- Two."))

	var kinds []ProblemKind
	for _, p := range r.Problems() {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []ProblemKind{ProblemUndeclaredModule, ProblemDuplicateModule, ProblemDuplicateItem}, kinds)

	b, ok := r.Lookup("hs.b")
	require.True(t, ok)
	assert.False(t, b.Declared())

	a, ok := r.Lookup("hs.a")
	require.True(t, ok)
	assert.Equal(t, "a.lua", a.File)
	assert.Len(t, a.Items, 1)
}

func TestRegistryRemove(t *testing.T) {
	r := New()
	r.Add("foo.lua", hsdoc.Parse(fooSource))
	r.Remove("foo.lua")

	assert.Empty(t, r.Modules())
	assert.Empty(t, r.Problems())
	assert.Empty(t, r.Files())
}

func TestRegistryConcurrentAdd(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := fmt.Sprintf("--- === hs.m%d ===\n---\n--- Module %d.", i, i)
			r.Add(fmt.Sprintf("m%d.lua", i), hsdoc.Parse(src))
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Modules(), 20)
	assert.Len(t, r.Files(), 20)
}

func TestRegistryAddAllRebuildsOnce(t *testing.T) {
	r := New()
	batch := make(map[string][]hsdoc.DocBlock)
	for i := 0; i < 10; i++ {
		src := fmt.Sprintf("--- === hs.m%d ===\n---\n--- Module %d.", i, i)
		batch[fmt.Sprintf("m%d.lua", i)] = hsdoc.Parse(src)
	}
	r.AddAll(batch)

	assert.Equal(t, 1, r.rebuilds)
	assert.Len(t, r.Modules(), 10)
	assert.Len(t, r.Files(), 10)

	r.AddAll(nil)
	assert.Equal(t, 1, r.rebuilds)
}
