package aliased

import (
	"fmt"
	"math"
	"strings"

	"github.com/BarrensZeppelin/aliased/internal/slices"
)

// AliasedRegisters tracks which storage locations provably hold the same
// value. It is the abstract value manipulated by copy propagation style
// passes: locations are vertices in an undirected graph, a declared alias
// is an edge, and an alias group is a connected component.
//
// Insertion numbers record when a register joined its group. They exist
// only to make representative selection deterministic; they never affect
// which locations are aliased. The counter is monotonic across the whole
// value, so within any group lower number always means "joined earlier".
// Only registers get numbers, because only registers can be chosen as
// representatives, and only while they are members of a non-singleton
// group.
type AliasedRegisters struct {
	graph       *aliasGraph
	insertOrder map[vertex]int
	nextOrder   int
}

// NewAliasedRegisters returns an empty abstract value: no locations are
// aliased.
func NewAliasedRegisters() *AliasedRegisters {
	return &AliasedRegisters{
		graph:       newAliasGraph(),
		insertOrder: make(map[vertex]int),
	}
}

// Move declares that moving is an alias of group by adding moving into the
// alias group of group. Both locations are tracked afterwards. No-op when
// the two locations are equal or already aliased.
func (ar *AliasedRegisters) Move(moving, group Value) {
	if moving == group {
		return
	}

	vMoving := ar.graph.findOrCreate(moving)
	vGroup := ar.graph.findOrCreate(group)
	if ar.graph.connected(vMoving, vGroup) {
		return
	}

	// The target side is numbered first so that when two singletons form a
	// fresh group, the group side counts as the earlier joiner.
	ar.recordOrder(vGroup)
	ar.recordOrder(vMoving)
	ar.graph.addEdge(vMoving, vGroup)
}

// recordOrder gives u an insertion number if it is a register without one.
// Register members of existing groups already carry their number, so this
// only fires for vertices entering a group.
func (ar *AliasedRegisters) recordOrder(u vertex) {
	if !ar.graph.value(u).IsRegister() {
		return
	}
	if _, ok := ar.insertOrder[u]; !ok {
		ar.insertOrder[u] = ar.nextOrder
		ar.nextOrder++
	}
}

// BreakAlias removes every alias that any location has to r, ejecting r
// from its group. Edges between the remaining members are untouched; if r
// was the only connection between parts of the group, the group falls
// apart implicitly. No-op when r is untracked or already a singleton.
func (ar *AliasedRegisters) BreakAlias(r Value) {
	u, ok := ar.graph.find(r)
	if !ok || !ar.graph.hasNeighbors(u) {
		return
	}

	neighbors := ar.graph.removeEdges(u)
	delete(ar.insertOrder, u)

	// A neighbor left without edges has become a singleton and leaves its
	// group too.
	for _, w := range neighbors {
		if !ar.graph.hasNeighbors(w) {
			delete(ar.insertOrder, w)
		}
	}
}

// AreAliases reports whether r1 and r2 are in the same alias group,
// including transitively. Aliasing is reflexive; locations that were never
// tracked are implicit singletons.
func (ar *AliasedRegisters) AreAliases(r1, r2 Value) bool {
	if r1 == r2 {
		return true
	}

	u1, ok1 := ar.graph.find(r1)
	u2, ok2 := ar.graph.find(r2)
	return ok1 && ok2 && ar.graph.connected(u1, u2)
}

// GetRepresentative returns the canonical register of r's alias group: the
// register that joined the group earliest. The second result is false when
// r is untracked, a singleton, or its group holds no register.
func (ar *AliasedRegisters) GetRepresentative(r Value) (Register, bool) {
	return ar.representative(r, math.MaxUint32)
}

// GetRepresentativeBounded is GetRepresentative restricted to registers
// addressable by the emitting instruction: candidates above maxAddressable
// are skipped.
func (ar *AliasedRegisters) GetRepresentativeBounded(r Value, maxAddressable Register) (Register, bool) {
	return ar.representative(r, maxAddressable)
}

func (ar *AliasedRegisters) representative(r Value, max Register) (Register, bool) {
	u, ok := ar.graph.find(r)
	if !ok || !ar.graph.hasNeighbors(u) {
		return 0, false
	}

	var (
		best     Register
		bestOrd  int
		haveBest bool
	)
	for _, w := range ar.graph.group(u) {
		val := ar.graph.value(w)
		if !val.IsRegister() || val.Reg() > max {
			continue
		}
		// Every register in a non-singleton group has an insertion number.
		ord := ar.insertOrder[w]
		if !haveBest || ord < bestOrd {
			best, bestOrd, haveBest = val.Reg(), ord, true
		}
	}
	return best, haveBest
}

// orderOf returns the insertion number val carries in ar, if any.
func (ar *AliasedRegisters) orderOf(val Value) (int, bool) {
	u, ok := ar.graph.find(val)
	if !ok {
		return 0, false
	}
	ord, ok := ar.insertOrder[u]
	return ord, ok
}

// Groups returns every alias group (no singletons), each as the list of its
// member locations, in deterministic order.
func (ar *AliasedRegisters) Groups() [][]Value {
	var res [][]Value
	for _, grp := range ar.graph.groups() {
		res = append(res, slices.Map(grp, ar.graph.value))
	}
	return res
}

// Clone returns a deep copy sharing no state with ar.
func (ar *AliasedRegisters) Clone() *AliasedRegisters {
	c := &AliasedRegisters{
		graph:       ar.graph.clone(),
		insertOrder: make(map[vertex]int, len(ar.insertOrder)),
		nextOrder:   ar.nextOrder,
	}
	for u, ord := range ar.insertOrder {
		c.insertOrder[u] = ord
	}
	return c
}

func (ar *AliasedRegisters) String() string {
	var sb strings.Builder
	for i, grp := range ar.Groups() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('{')
		for j, val := range grp {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(val.String())
		}
		sb.WriteByte('}')
	}
	if sb.Len() == 0 {
		return "{}"
	}
	return sb.String()
}

var _ fmt.Stringer = (*AliasedRegisters)(nil)
