package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridcalc/internal/celladdr"
)

func addr(ref string) celladdr.Address { return celladdr.MustParse(ref) }

func newGraph(t *testing.T, refs ...string) *Graph {
	t.Helper()
	g := New()
	for _, r := range refs {
		g.AddNode(addr(r))
	}
	return g
}

// link adds edges "dependent -> dependency", reading like the formula text.
func link(t *testing.T, g *Graph, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		require.NoError(t, g.AddEdge(addr(p[1]), addr(p[0])))
	}
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
	assert.Equal(t, 0, g.Len())
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode(addr("A1"))
	assert.Equal(t, 1, g.Len())
	n, ok := g.nodes[addr("A1")]
	require.True(t, ok)
	assert.Equal(t, addr("A1"), n.id)

	g.AddNode(addr("A1")) // Test idempotency
	assert.Equal(t, 1, g.Len())
	assert.Len(t, g.order, 1)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := newGraph(t, "A1", "B1")
		require.NoError(t, g.AddEdge(addr("A1"), addr("B1"))) // B1 depends on A1

		deps, err := g.Dependencies(addr("B1"))
		require.NoError(t, err)
		assert.Equal(t, []celladdr.Address{addr("A1")}, deps)

		dependents, err := g.Dependents(addr("A1"))
		require.NoError(t, err)
		assert.Equal(t, []celladdr.Address{addr("B1")}, dependents)
	})

	t.Run("duplicates are ignored", func(t *testing.T) {
		g := newGraph(t, "A1", "B1")
		require.NoError(t, g.AddEdge(addr("A1"), addr("B1")))
		require.NoError(t, g.AddEdge(addr("A1"), addr("B1")))
		deps, err := g.Dependencies(addr("B1"))
		require.NoError(t, err)
		assert.Len(t, deps, 1)
	})

	t.Run("self edge is allowed", func(t *testing.T) {
		g := newGraph(t, "A1")
		assert.NoError(t, g.AddEdge(addr("A1"), addr("A1")))
	})

	t.Run("error cases", func(t *testing.T) {
		g := newGraph(t, "A1")

		err := g.AddEdge(addr("Z9"), addr("A1"))
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge(addr("A1"), addr("Z9"))
		assert.ErrorContains(t, err, "destination node not found")

		_, err = g.Dependencies(addr("Z9"))
		assert.ErrorContains(t, err, "node not found")
		_, err = g.Dependents(addr("Z9"))
		assert.ErrorContains(t, err, "node not found")
	})
}

func TestAnalyze_Order(t *testing.T) {
	// A1 = B2 + 5, B1 = A1 - 3.5, A2 = A1, B3 = B2
	g := newGraph(t, "A1", "B1", "A2", "B2", "A3", "B3")
	link(t, g,
		[2]string{"A1", "B2"},
		[2]string{"B1", "A1"},
		[2]string{"A2", "A1"},
		[2]string{"B3", "B2"},
	)

	a, err := g.Analyze()
	require.NoError(t, err)
	assert.Empty(t, a.Cyclic)
	require.Len(t, a.Order, 6)

	pos := make(map[celladdr.Address]int)
	for i, id := range a.Order {
		pos[id] = i
	}
	assert.Less(t, pos[addr("B2")], pos[addr("A1")])
	assert.Less(t, pos[addr("A1")], pos[addr("B1")])
	assert.Less(t, pos[addr("A1")], pos[addr("A2")])
	assert.Less(t, pos[addr("B2")], pos[addr("B3")])
}

func TestAnalyze_Cycles(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		g := newGraph(t, "A1", "B1")
		link(t, g, [2]string{"A1", "A1"})

		a, err := g.Analyze()
		require.NoError(t, err)
		assert.Equal(t, map[celladdr.Address]bool{addr("A1"): true}, a.Cyclic)
		assert.Equal(t, []celladdr.Address{addr("B1")}, a.Order)
	})

	t.Run("mutual reference with unrelated cells", func(t *testing.T) {
		g := newGraph(t, "A1", "B1", "A2", "B2")
		link(t, g, [2]string{"A1", "B1"}, [2]string{"B1", "A1"}, [2]string{"B2", "A2"})

		a, err := g.Analyze()
		require.NoError(t, err)
		assert.True(t, a.Cyclic[addr("A1")])
		assert.True(t, a.Cyclic[addr("B1")])
		assert.False(t, a.Cyclic[addr("A2")])
		assert.False(t, a.Cyclic[addr("B2")])
		assert.Equal(t, []celladdr.Address{addr("A2"), addr("B2")}, a.Order)
	})

	t.Run("dependents of a cycle are tainted", func(t *testing.T) {
		// A1 <-> B1, C1 = A1, D1 = C1, E1 independent
		g := newGraph(t, "C1", "D1", "A1", "B1", "E1")
		link(t, g,
			[2]string{"A1", "B1"},
			[2]string{"B1", "A1"},
			[2]string{"C1", "A1"},
			[2]string{"D1", "C1"},
		)

		a, err := g.Analyze()
		require.NoError(t, err)
		for _, ref := range []string{"A1", "B1", "C1", "D1"} {
			assert.True(t, a.Cyclic[addr(ref)], ref)
		}
		assert.Equal(t, []celladdr.Address{addr("E1")}, a.Order)
	})

	t.Run("node reaching a cycle through a finished node", func(t *testing.T) {
		// A1 -> B1 -> C1 -> A1 and A1 -> D1 -> B1
		g := newGraph(t, "A1", "B1", "C1", "D1")
		link(t, g,
			[2]string{"A1", "B1"},
			[2]string{"B1", "C1"},
			[2]string{"C1", "A1"},
			[2]string{"A1", "D1"},
			[2]string{"D1", "B1"},
		)

		a, err := g.Analyze()
		require.NoError(t, err)
		assert.Len(t, a.Cyclic, 4)
		assert.Empty(t, a.Order)
	})

	t.Run("circular grid from the web client", func(t *testing.T) {
		// [["=B1+4","=A2-2"],["=B2-B1","=A1"]]
		g := newGraph(t, "A1", "B1", "A2", "B2")
		link(t, g,
			[2]string{"A1", "B1"},
			[2]string{"B1", "A2"},
			[2]string{"A2", "B2"},
			[2]string{"A2", "B1"},
			[2]string{"B2", "A1"},
		)

		a, err := g.Analyze()
		require.NoError(t, err)
		assert.Len(t, a.Cyclic, 4)
	})
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		assert.NoError(t, New().DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := newGraph(t, "A1", "A2", "A3", "A4")
		link(t, g, [2]string{"A2", "A1"}, [2]string{"A3", "A2"}, [2]string{"A3", "A1"}, [2]string{"A4", "A3"})
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("longer cycle is detected", func(t *testing.T) {
		g := newGraph(t, "A1", "A2", "A3", "A4")
		link(t, g, [2]string{"A2", "A1"}, [2]string{"A3", "A2"}, [2]string{"A4", "A3"}, [2]string{"A1", "A4"})
		err := g.DetectCycles()
		assert.ErrorContains(t, err, "cycle detected")
		assert.ErrorContains(t, err, "A1")
		assert.ErrorContains(t, err, "A4")
	})
}

func TestAnalyze_LongChainStaysWithinDepthGuard(t *testing.T) {
	g := New()
	const n = 500
	for i := 0; i < n; i++ {
		g.AddNode(celladdr.Address{Row: i})
	}
	for i := 1; i < n; i++ {
		require.NoError(t, g.AddEdge(celladdr.Address{Row: i}, celladdr.Address{Row: i - 1}))
	}

	a, err := g.Analyze()
	require.NoError(t, err)
	require.Len(t, a.Order, n)
	assert.Equal(t, celladdr.Address{Row: n - 1}, a.Order[0])
}
