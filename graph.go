package aliased

import (
	"sort"

	"github.com/BarrensZeppelin/aliased/internal/maps"
	"github.com/BarrensZeppelin/aliased/internal/queue"
)

// vertex is a handle into the graph's vertex arena.
type vertex int

// aliasGraph is an undirected graph whose vertices are Values and whose
// edges are declared alias facts. Adjacency is stored as sets, so parallel
// edges cannot exist; addEdge rejects self-loops. A Value maps to at most
// one vertex; vertices are never removed, only their edges are (a vertex
// with no edges is an implicit singleton and carries no alias facts).
type aliasGraph struct {
	values []Value
	adj    []map[vertex]struct{}
	index  map[Value]vertex
}

func newAliasGraph() *aliasGraph {
	return &aliasGraph{index: make(map[Value]vertex)}
}

func (g *aliasGraph) find(val Value) (vertex, bool) {
	u, ok := g.index[val]
	return u, ok
}

func (g *aliasGraph) findOrCreate(val Value) vertex {
	if u, ok := g.index[val]; ok {
		return u
	}

	u := vertex(len(g.values))
	g.values = append(g.values, val)
	g.adj = append(g.adj, nil)
	g.index[val] = u
	return u
}

func (g *aliasGraph) value(u vertex) Value { return g.values[u] }

func (g *aliasGraph) addEdge(u, w vertex) {
	if u == w {
		return
	}

	if g.adj[u] == nil {
		g.adj[u] = make(map[vertex]struct{})
	}
	if g.adj[w] == nil {
		g.adj[w] = make(map[vertex]struct{})
	}
	g.adj[u][w] = struct{}{}
	g.adj[w][u] = struct{}{}
}

// removeEdges deletes every edge incident to u and returns the former
// neighbors.
func (g *aliasGraph) removeEdges(u vertex) []vertex {
	ns := g.neighbors(u)
	for _, w := range ns {
		delete(g.adj[w], u)
	}
	g.adj[u] = nil
	return ns
}

func (g *aliasGraph) adjacent(u, w vertex) bool {
	_, ok := g.adj[u][w]
	return ok
}

func (g *aliasGraph) hasNeighbors(u vertex) bool {
	return len(g.adj[u]) > 0
}

// neighbors returns u's adjacent vertices in ascending handle order.
func (g *aliasGraph) neighbors(u vertex) []vertex {
	ns := maps.Keys(g.adj[u])
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	return ns
}

// group returns all vertices in u's connected component, including u
// itself, in ascending handle order.
func (g *aliasGraph) group(u vertex) []vertex {
	var work queue.Queue[vertex]
	seen := map[vertex]struct{}{u: {}}
	work.Push(u)

	grp := []vertex{}
	for !work.Empty() {
		w := work.Pop()
		grp = append(grp, w)
		for n := range g.adj[w] {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				work.Push(n)
			}
		}
	}

	sort.Slice(grp, func(i, j int) bool { return grp[i] < grp[j] })
	return grp
}

func (g *aliasGraph) connected(u, w vertex) bool {
	if u == w {
		return true
	}

	var work queue.Queue[vertex]
	seen := map[vertex]struct{}{u: {}}
	work.Push(u)

	for !work.Empty() {
		v := work.Pop()
		if v == w {
			return true
		}
		for n := range g.adj[v] {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				work.Push(n)
			}
		}
	}
	return false
}

// groups returns every non-singleton connected component, ordered by lowest
// member handle. Singleton vertices are not groups.
func (g *aliasGraph) groups() [][]vertex {
	var res [][]vertex
	seen := make(map[vertex]struct{})
	for u := vertex(0); int(u) < len(g.values); u++ {
		if _, ok := seen[u]; ok || !g.hasNeighbors(u) {
			continue
		}
		grp := g.group(u)
		for _, w := range grp {
			seen[w] = struct{}{}
		}
		res = append(res, grp)
	}
	return res
}

// componentOf maps every Value in a non-singleton component to the index of
// its group in groups() order. Values absent from the map are singletons.
func (g *aliasGraph) componentOf() map[Value]int {
	comp := make(map[Value]int)
	for i, grp := range g.groups() {
		for _, u := range grp {
			comp[g.value(u)] = i
		}
	}
	return comp
}

// edges returns every edge exactly once as ordered handle pairs, in
// deterministic order.
func (g *aliasGraph) edges() [][2]vertex {
	var res [][2]vertex
	for u := vertex(0); int(u) < len(g.values); u++ {
		for _, w := range g.neighbors(u) {
			if u < w {
				res = append(res, [2]vertex{u, w})
			}
		}
	}
	return res
}

func (g *aliasGraph) hasEdges() bool {
	for _, ns := range g.adj {
		if len(ns) > 0 {
			return true
		}
	}
	return false
}

func (g *aliasGraph) clone() *aliasGraph {
	c := &aliasGraph{
		values: append([]Value(nil), g.values...),
		adj:    make([]map[vertex]struct{}, len(g.adj)),
		index:  make(map[Value]vertex, len(g.index)),
	}
	for u, ns := range g.adj {
		if len(ns) == 0 {
			continue
		}
		c.adj[u] = make(map[vertex]struct{}, len(ns))
		for w := range ns {
			c.adj[u][w] = struct{}{}
		}
	}
	for val, u := range g.index {
		c.index[val] = u
	}
	return c
}
