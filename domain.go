package aliased

import "fmt"

// AliasDomain is the abstract domain element held at one program point: an
// AliasedRegisters lifted with the usual Top and Bottom. Top carries no
// alias facts (fully conservative), Bottom marks an unreachable point.
//
// The wrapped value is reachable only through Update, which keeps Bottom
// absorbing: no mutation can resurrect an unreachable point.
type AliasDomain struct {
	kind Kind
	// nil on Bottom. A Top domain may also be value-less until Update
	// allocates one to record facts on; the zero AliasDomain is Top.
	value *AliasedRegisters
}

// Top returns the maximally conservative domain element.
func Top() AliasDomain {
	return AliasDomain{kind: KindTop, value: NewAliasedRegisters()}
}

// Bottom returns the unreachable domain element.
func Bottom() AliasDomain {
	return AliasDomain{kind: KindBottom}
}

// FromValue wraps an existing value, collapsing it to Top when it carries
// no facts. The domain takes ownership of ar.
func FromValue(ar *AliasedRegisters) AliasDomain {
	if ar == nil {
		return Top()
	}
	return AliasDomain{kind: ar.Kind(), value: ar}
}

func (d AliasDomain) IsBottom() bool { return d.kind == KindBottom }
func (d AliasDomain) IsTop() bool    { return d.kind == KindTop }

// Kind returns the element's current classification.
func (d AliasDomain) Kind() Kind { return d.kind }

// Update applies operation to the wrapped value in place. It is the sole
// mutation entry point: nothing happens on Bottom, and afterwards the
// element is re-normalized so a value left without facts collapses to Top.
func (d *AliasDomain) Update(operation func(*AliasedRegisters)) {
	if d.IsBottom() {
		return
	}
	if d.value == nil {
		d.value = NewAliasedRegisters()
	}
	operation(d.value)
	d.normalize()
}

func (d *AliasDomain) normalize() {
	d.kind = d.value.Kind()
}

// Value exposes the wrapped value for queries. It is nil on Bottom (and on
// a Top that never saw an Update) and must not be mutated directly; use
// Update.
func (d AliasDomain) Value() *AliasedRegisters { return d.value }

// Leq is the domain ordering: Bottom below everything, Top above
// everything, two genuine values compare by their fact relation.
func (d AliasDomain) Leq(other *AliasDomain) bool {
	switch {
	case d.IsBottom():
		return true
	case other.IsBottom():
		return false
	case other.IsTop():
		return true
	case d.IsTop():
		return false
	default:
		return d.value.Leq(other.value)
	}
}

func (d AliasDomain) Equals(other *AliasDomain) bool {
	if d.kind != other.kind {
		return false
	}
	if d.kind != KindValue {
		return true
	}
	return d.value.Equals(other.value)
}

// JoinWith combines d with the domain of another path that may have run
// instead. Bottom is the identity; Top absorbs.
func (d *AliasDomain) JoinWith(other *AliasDomain) {
	d.combine(other, (*AliasedRegisters).JoinWith)
}

// WidenWith is the terminating variant of JoinWith for fixpoint loops.
func (d *AliasDomain) WidenWith(other *AliasDomain) {
	d.combine(other, (*AliasedRegisters).WidenWith)
}

// MeetWith refines d with facts known to hold simultaneously. Top is the
// identity; Bottom absorbs.
func (d *AliasDomain) MeetWith(other *AliasDomain) {
	d.refine(other, (*AliasedRegisters).MeetWith)
}

// NarrowWith is the terminating variant of MeetWith.
func (d *AliasDomain) NarrowWith(other *AliasDomain) {
	d.refine(other, (*AliasedRegisters).NarrowWith)
}

func (d *AliasDomain) combine(other *AliasDomain, op func(*AliasedRegisters, *AliasedRegisters) Kind) {
	switch {
	case other.IsBottom():
	case d.IsBottom():
		*d = other.clone()
	case d.IsTop() || other.IsTop():
		*d = Top()
	default:
		d.kind = op(d.value, other.value)
	}
}

func (d *AliasDomain) refine(other *AliasDomain, op func(*AliasedRegisters, *AliasedRegisters) Kind) {
	switch {
	case d.IsBottom():
	case other.IsBottom():
		*d = Bottom()
	case other.IsTop():
	case d.IsTop():
		*d = other.clone()
	default:
		d.kind = op(d.value, other.value)
	}
}

func (d *AliasDomain) clone() AliasDomain {
	c := AliasDomain{kind: d.kind}
	if d.value != nil {
		c.value = d.value.Clone()
	}
	return c
}

// Clone returns an independent copy of d. Fixpoint drivers use it to seed
// successor states without sharing the underlying graph.
func (d *AliasDomain) Clone() AliasDomain { return d.clone() }

func (d AliasDomain) String() string {
	if d.kind == KindValue {
		return d.value.String()
	}
	return d.kind.String()
}

var _ fmt.Stringer = (*AliasDomain)(nil)
