package aliased_test

import (
	"testing"

	"github.com/BarrensZeppelin/aliased"
	"github.com/BarrensZeppelin/aliased/internal/maps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(r aliased.Register) aliased.Value { return aliased.MakeRegister(r) }

func TestAreAliases(t *testing.T) {
	t.Run("Reflexivity", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		// Untracked locations are implicit singletons, trivially aliased to
		// themselves.
		assert.True(t, ar.AreAliases(v(0), v(0)))
		assert.True(t, ar.AreAliases(aliased.MakeLiteral(5), aliased.MakeLiteral(5)))
		assert.True(t, ar.AreAliases(aliased.None(), aliased.None()))

		ar.Move(v(1), v(0))
		assert.True(t, ar.AreAliases(v(1), v(1)))
	})

	t.Run("SymmetryTransitivity", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(0), v(1))
		ar.Move(v(1), v(2))

		assert.True(t, ar.AreAliases(v(0), v(2)))
		assert.True(t, ar.AreAliases(v(2), v(0)))
		assert.True(t, ar.AreAliases(v(1), v(0)))
	})

	t.Run("Untracked", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))

		assert.False(t, ar.AreAliases(v(0), v(7)))
		assert.False(t, ar.AreAliases(v(7), v(8)))
	})
}

func TestMove(t *testing.T) {
	t.Run("SelfMove", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(0), v(0))
		assert.Empty(t, ar.Groups())
		assert.Equal(t, aliased.KindTop, ar.Kind())
	})

	t.Run("AlreadyAliased", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))
		ar.Move(v(2), v(1))
		before := ar.Clone()

		// Connecting two members of the same group changes nothing.
		ar.Move(v(2), v(0))
		assert.True(t, ar.Equals(before))

		rep, ok := ar.GetRepresentative(v(2))
		require.True(t, ok)
		assert.Equal(t, aliased.Register(0), rep)
	})

	t.Run("MergesGroups", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))
		ar.Move(v(3), v(2))
		require.Len(t, ar.Groups(), 2)

		ar.Move(v(3), v(1))
		groups := ar.Groups()
		require.Len(t, groups, 1)
		assert.True(t, ar.AreAliases(v(0), v(2)))
		assert.Equal(t,
			maps.FromKeys([]aliased.Value{v(0), v(1), v(2), v(3)}),
			maps.FromKeys(groups[0]))
	})

	t.Run("NonRegisterMembers", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		lit := aliased.MakeLiteral(42)
		ar.Move(v(5), lit)

		assert.True(t, ar.AreAliases(v(5), lit))
		rep, ok := ar.GetRepresentative(lit)
		require.True(t, ok)
		assert.Equal(t, aliased.Register(5), rep,
			"only registers can represent a group")
	})
}

func TestBreakAlias(t *testing.T) {
	t.Run("RemovesIncidentEdgesOnly", func(t *testing.T) {
		// Group {a, b, c} with a in the middle: edges b-a and c-a.
		ar := aliased.NewAliasedRegisters()
		a, b, c := v(0), v(1), v(2)
		ar.Move(b, a)
		ar.Move(c, a)

		ar.BreakAlias(b)

		assert.True(t, ar.AreAliases(a, c), "the rest of the group survives")
		assert.False(t, ar.AreAliases(a, b))
		assert.False(t, ar.AreAliases(b, c))
	})

	t.Run("SplitsGroupAtCutVertex", func(t *testing.T) {
		// b-a, c-a: breaking the center dissolves the group entirely.
		ar := aliased.NewAliasedRegisters()
		a, b, c := v(0), v(1), v(2)
		ar.Move(b, a)
		ar.Move(c, a)

		ar.BreakAlias(a)

		assert.False(t, ar.AreAliases(a, b))
		assert.False(t, ar.AreAliases(b, c))
		assert.Empty(t, ar.Groups())
		assert.Equal(t, aliased.KindTop, ar.Kind())
	})

	t.Run("NoOpWhenUntracked", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))
		before := ar.Clone()

		ar.BreakAlias(v(9))
		assert.True(t, ar.Equals(before))
	})

	t.Run("RejoinGetsLaterOrder", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))
		ar.BreakAlias(v(0))

		// v0 left its group; on rejoining it is the newest member, so the
		// group target becomes the representative.
		ar.Move(v(0), v(1))
		rep, ok := ar.GetRepresentative(v(0))
		require.True(t, ok)
		assert.Equal(t, aliased.Register(1), rep)
	})
}

func TestGetRepresentative(t *testing.T) {
	t.Run("EarliestJoinerWins", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(2), v(1))
		ar.Move(v(3), v(2))

		// Identical answers for every member and on repeated queries.
		for i := 0; i < 3; i++ {
			for _, val := range []aliased.Value{v(1), v(2), v(3)} {
				rep, ok := ar.GetRepresentative(val)
				require.True(t, ok)
				assert.Equal(t, aliased.Register(1), rep)
			}
		}
	})

	t.Run("Bounded", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		// v9 joins first, then v1: unbounded representative is v9.
		ar.Move(v(1), v(9))

		rep, ok := ar.GetRepresentative(v(1))
		require.True(t, ok)
		assert.Equal(t, aliased.Register(9), rep)

		// With v9 out of addressable range the next eligible register wins.
		rep, ok = ar.GetRepresentativeBounded(v(9), 8)
		require.True(t, ok)
		assert.Equal(t, aliased.Register(1), rep)

		// No eligible candidate under the bound.
		_, ok = ar.GetRepresentativeBounded(v(9), 0)
		assert.False(t, ok)
	})

	t.Run("AbsentResults", func(t *testing.T) {
		ar := aliased.NewAliasedRegisters()
		ar.Move(v(1), v(0))

		_, ok := ar.GetRepresentative(v(7))
		assert.False(t, ok, "untracked location")

		lit := aliased.MakeLiteral(1)
		ar.Move(v(2), v(1))
		ar.BreakAlias(v(2))
		_, ok = ar.GetRepresentative(v(2))
		assert.False(t, ok, "singleton after break")

		ar2 := aliased.NewAliasedRegisters()
		ar2.Move(aliased.MakeLiteralUpper(1), lit)
		_, ok = ar2.GetRepresentative(lit)
		assert.False(t, ok, "group without register members")
	})
}

func TestScenario(t *testing.T) {
	// Start empty; move v1 onto v0, then v2 onto v0.
	ar := aliased.NewAliasedRegisters()
	ar.Move(v(1), v(0))
	ar.Move(v(2), v(0))

	assert.True(t, ar.AreAliases(v(1), v(2)))

	rep, ok := ar.GetRepresentative(v(2))
	require.True(t, ok)
	assert.Equal(t, aliased.Register(0), rep)
}

func TestTagSeparationInGroups(t *testing.T) {
	ar := aliased.NewAliasedRegisters()
	lo := aliased.MakeLiteral(5)
	hi := aliased.MakeLiteralUpper(5)

	ar.Move(v(0), lo)
	ar.Move(v(1), hi)

	assert.False(t, ar.AreAliases(lo, hi),
		"the halves of a wide literal stay in separate groups")
	assert.False(t, ar.AreAliases(v(0), v(1)))
}
