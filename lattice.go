package aliased

import "sort"

// Kind classifies an abstract value or domain element. KindTop is the zero
// kind so that a zero AliasDomain is Top, matching the fully conservative
// default a fixpoint driver seeds program points with.
type Kind uint8

const (
	KindTop Kind = iota
	KindValue
	KindBottom
)

func (k Kind) String() string {
	switch k {
	case KindBottom:
		return "⊥"
	case KindTop:
		return "⊤"
	case KindValue:
		return "value"
	default:
		return "unknown"
	}
}

// AbstractValue is the contract an abstract domain's underlying value must
// satisfy. The combining operations mutate the receiver in place, leave the
// operand untouched and report the receiver's resulting Kind so the domain
// scaffolding can collapse degenerate values.
type AbstractValue[T any] interface {
	Clear()
	Kind() Kind
	Leq(other T) bool
	Equals(other T) bool
	JoinWith(other T) Kind
	WidenWith(other T) Kind
	MeetWith(other T) Kind
	NarrowWith(other T) Kind
}

var _ AbstractValue[*AliasedRegisters] = (*AliasedRegisters)(nil)

// Clear resets ar to the empty value, as if freshly constructed.
func (ar *AliasedRegisters) Clear() {
	*ar = *NewAliasedRegisters()
}

// Kind is KindTop when ar carries no alias facts and KindValue otherwise.
func (ar *AliasedRegisters) Kind() Kind {
	if ar.graph.hasEdges() {
		return KindValue
	}
	return KindTop
}

// Leq reports whether every alias fact of ar is also a fact of other: ar's
// connectivity relation is a subset of other's. This compares induced
// connectivity, not edge sets.
func (ar *AliasedRegisters) Leq(other *AliasedRegisters) bool {
	comp := other.graph.componentOf()
	for _, grp := range ar.graph.groups() {
		id, ok := comp[ar.graph.value(grp[0])]
		if !ok {
			return false
		}
		for _, u := range grp[1:] {
			if id2, ok := comp[ar.graph.value(u)]; !ok || id2 != id {
				return false
			}
		}
	}
	return true
}

// Equals reports whether ar and other induce the same alias groups.
// Insertion order is deliberately excluded: it steers representative choice
// but carries no aliasing information.
func (ar *AliasedRegisters) Equals(other *AliasedRegisters) bool {
	return ar.Leq(other) && other.Leq(ar)
}

// JoinWith replaces ar with the intersection of both operands' alias facts:
// a pair stays aliased only if both operands alias it. Dropping a fact is
// always sound at a control-flow merge; inventing one never is.
func (ar *AliasedRegisters) JoinWith(other *AliasedRegisters) Kind {
	res := NewAliasedRegisters()
	comp := other.graph.componentOf()

	for _, grp := range ar.graph.groups() {
		// Partition the group by the other operand's components. Members
		// the other operand keeps separate (or does not track) cannot stay
		// aliased.
		parts := make(map[int][]Value)
		var seen []int
		for _, u := range grp {
			val := ar.graph.value(u)
			id, ok := comp[val]
			if !ok {
				continue
			}
			if _, dup := parts[id]; !dup {
				seen = append(seen, id)
			}
			parts[id] = append(parts[id], val)
		}

		for _, id := range seen {
			part := parts[id]
			if len(part) < 2 {
				continue
			}
			// A chain suffices: equality is over induced connectivity.
			prev := res.graph.findOrCreate(part[0])
			for _, val := range part[1:] {
				cur := res.graph.findOrCreate(val)
				res.graph.addEdge(prev, cur)
				prev = cur
			}
			res.renumber(part, ar, other)
		}
	}

	*ar = *res
	return ar.Kind()
}

// WidenWith is JoinWith: the lattice is finite (bounded by the number of
// tracked locations), so plain join already terminates.
func (ar *AliasedRegisters) WidenWith(other *AliasedRegisters) Kind {
	return ar.JoinWith(other)
}

// MeetWith replaces ar with the union-closure of both operands' alias
// facts: groups merge wherever either operand asserts an edge. Used when
// both operands are known to hold simultaneously.
func (ar *AliasedRegisters) MeetWith(other *AliasedRegisters) Kind {
	res := ar.Clone()
	for _, e := range other.graph.edges() {
		u := res.graph.findOrCreate(other.graph.value(e[0]))
		w := res.graph.findOrCreate(other.graph.value(e[1]))
		if !res.graph.connected(u, w) {
			res.graph.addEdge(u, w)
		}
	}

	// Merging invalidated the receiver's numbering, so every group is
	// renumbered from both operands' join evidence.
	res.insertOrder = make(map[vertex]int)
	res.nextOrder = 0
	for _, grp := range res.graph.groups() {
		vals := make([]Value, len(grp))
		for i, u := range grp {
			vals[i] = res.graph.value(u)
		}
		res.renumber(vals, ar, other)
	}

	*ar = *res
	return ar.Kind()
}

// NarrowWith is MeetWith; the finiteness argument mirrors WidenWith.
func (ar *AliasedRegisters) NarrowWith(other *AliasedRegisters) Kind {
	return ar.MeetWith(other)
}

// renumber gives the register members of one group in ar fresh insertion
// numbers, ordered by the join evidence of the two source operands: a's
// numbering first, b's to break ties among members a never numbered, and
// the register id to keep the order total. The result depends only on the
// group's membership and the operands' original join order, never on
// internal counter state.
func (ar *AliasedRegisters) renumber(group []Value, a, b *AliasedRegisters) {
	var regs []Value
	for _, val := range group {
		if val.IsRegister() {
			regs = append(regs, val)
		}
	}

	sort.Slice(regs, func(i, j int) bool {
		x, y := regs[i], regs[j]
		for _, src := range [...]*AliasedRegisters{a, b} {
			xo, xok := src.orderOf(x)
			yo, yok := src.orderOf(y)
			switch {
			case xok && yok && xo != yo:
				return xo < yo
			case xok != yok:
				return xok
			}
		}
		return x.Reg() < y.Reg()
	})

	for _, val := range regs {
		u, _ := ar.graph.find(val)
		ar.insertOrder[u] = ar.nextOrder
		ar.nextOrder++
	}
}
