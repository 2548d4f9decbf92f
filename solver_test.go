package cassowary_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/layoutkit/cassowary"
)

func addTerm(t *testing.T, c *cassowary.Constraint, v *cassowary.Variable, coeff float64) {
	t.Helper()
	require.NoError(t, c.AddTerm(v, coeff))
}

// S1: equality chain x == y, y == z, z == 10 propagates the fixed value
// through every variable once all three constraints are installed.
func TestEqualityChainPropagates(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x, y, z := s.NewVariable(), s.NewVariable(), s.NewVariable()

	cxy := s.NewConstraint(cassowary.Required)
	require.NoError(t, cxy.SetRelation(cassowary.Equal))
	addTerm(t, cxy, x, 1)
	addTerm(t, cxy, y, -1)
	require.NoError(t, cxy.Add())

	cyz := s.NewConstraint(cassowary.Required)
	require.NoError(t, cyz.SetRelation(cassowary.Equal))
	addTerm(t, cyz, y, 1)
	addTerm(t, cyz, z, -1)
	require.NoError(t, cyz.Add())

	cz := s.NewConstraint(cassowary.Required)
	require.NoError(t, cz.SetRelation(cassowary.Equal))
	addTerm(t, cz, z, 1)
	require.NoError(t, cz.AddConstant(-10))
	require.NoError(t, cz.Add())

	require.Equal(t, 10.0, x.Value())
	require.Equal(t, 10.0, y.Value())
	require.Equal(t, 10.0, z.Value())
}

// S2: a single inequality x <= 100 combined with a strong suggestion keeps
// x at the boundary rather than letting it exceed it.
func TestInequalityClampsSuggestedValue(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	upper := s.NewConstraint(cassowary.Required)
	addTerm(t, upper, x, 1)
	require.NoError(t, upper.AddConstant(-100))
	require.NoError(t, upper.SetRelation(cassowary.LessEqual))
	require.NoError(t, upper.Add())

	require.NoError(t, x.AddEdit(cassowary.Strong))
	require.NoError(t, x.Suggest(500))

	require.LessOrEqual(t, x.Value(), 100.0+1e-6)
}

// S3: an unconstrained editable variable tracks each Suggest exactly, and
// reports no edit once DeleteEdit removes it.
func TestEditableVariableTracksSuggestions(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	require.NoError(t, x.AddEdit(cassowary.Strong))
	require.NoError(t, x.Suggest(42))
	require.InDelta(t, 42.0, x.Value(), 1e-9)

	require.NoError(t, x.Suggest(-7))
	require.InDelta(t, -7.0, x.Value(), 1e-9)

	x.DeleteEdit()
	require.False(t, x.HasEdit())
}

// S4: a second required equality over a variable that is already basic
// (x + y == 10, then x == y) is substituted through x's row and solves.
func TestRequiredEqualityOverBasicVariableSolves(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x, y := s.NewVariable(), s.NewVariable()

	c1 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c1.SetRelation(cassowary.Equal))
	addTerm(t, c1, x, 1)
	addTerm(t, c1, y, 1)
	require.NoError(t, c1.AddConstant(-10))
	require.NoError(t, c1.Add())

	c2 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c2.SetRelation(cassowary.Equal))
	addTerm(t, c2, x, 1)
	addTerm(t, c2, y, -1)
	require.NoError(t, c2.Add())

	require.InDelta(t, 5.0, x.Value(), 1e-9)
	require.InDelta(t, 5.0, y.Value(), 1e-9)
}

// S5: a layout-style padding scenario: left + width == right, with a
// minimum width inequality and a preferred width edit.
func TestPaddingLayoutScenario(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	left, width, right := s.NewVariable(), s.NewVariable(), s.NewVariable()

	container := s.NewConstraint(cassowary.Required)
	require.NoError(t, container.SetRelation(cassowary.Equal))
	addTerm(t, container, left, 1)
	addTerm(t, container, width, 1)
	addTerm(t, container, right, -1)
	require.NoError(t, container.Add())

	anchorLeft := s.NewConstraint(cassowary.Required)
	require.NoError(t, anchorLeft.SetRelation(cassowary.Equal))
	addTerm(t, anchorLeft, left, 1)
	require.NoError(t, anchorLeft.Add())

	minWidth := s.NewConstraint(cassowary.Required)
	addTerm(t, minWidth, width, 1)
	require.NoError(t, minWidth.AddConstant(-20))
	require.NoError(t, minWidth.SetRelation(cassowary.GreaterEqual))
	require.NoError(t, minWidth.Add())

	require.NoError(t, width.AddEdit(cassowary.Strong))
	require.NoError(t, width.Suggest(50))

	require.InDelta(t, 0.0, left.Value(), 1e-9)
	require.InDelta(t, 50.0, width.Value(), 1e-9)
	require.InDelta(t, 50.0, right.Value(), 1e-9)

	require.NoError(t, width.Suggest(5))
	require.GreaterOrEqual(t, width.Value(), 20.0-1e-6)
}

// S6: a contradictory pair of required constraints fails Add with
// ErrUnsatisfied or ErrUnbound, and leaves the solver usable afterward.
func TestContradictoryRequiredConstraintsFail(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	c1 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c1.SetRelation(cassowary.Equal))
	addTerm(t, c1, x, 1)
	require.NoError(t, c1.AddConstant(-10))
	require.NoError(t, c1.Add())

	c2 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c2.SetRelation(cassowary.Equal))
	addTerm(t, c2, x, 1)
	require.NoError(t, c2.AddConstant(-20))
	err := c2.Add()
	require.Error(t, err)

	require.InDelta(t, 10.0, x.Value(), 1e-9)

	// the solver must still accept new, consistent constraints afterward.
	y := s.NewVariable()
	c3 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c3.SetRelation(cassowary.Equal))
	addTerm(t, c3, y, 1)
	require.NoError(t, c3.AddConstant(-3))
	require.NoError(t, c3.Add())
	require.InDelta(t, 3.0, y.Value(), 1e-9)
}

// Invariant: removing a constraint is the inverse of adding it — the
// solver returns to its prior feasible state.
func TestAddRemoveIsReversible(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	require.InDelta(t, 0.0, x.Value(), 1e-9) // a free variable settles at 0

	extra := s.NewConstraint(cassowary.Required)
	require.NoError(t, extra.SetRelation(cassowary.GreaterEqual))
	addTerm(t, extra, x, 1)
	require.NoError(t, extra.AddConstant(-5))
	require.NoError(t, extra.Add())
	require.InDelta(t, 5.0, x.Value(), 1e-9)

	extra.Remove()
	require.InDelta(t, 0.0, x.Value(), 1e-9)
}

// Invariant: UpdateVariables is idempotent — calling it twice in a row
// without any intervening mutation doesn't change published values.
func TestUpdateVariablesIdempotent(t *testing.T) {
	s := cassowary.NewSolver()
	x := s.NewVariable()

	c := s.NewConstraint(cassowary.Required)
	require.NoError(t, c.SetRelation(cassowary.Equal))
	addTerm(t, c, x, 1)
	require.NoError(t, c.AddConstant(-7))
	require.NoError(t, c.Add())

	s.UpdateVariables()
	first := x.Value()
	s.UpdateVariables()
	require.Equal(t, first, x.Value())
}

// Invariant: a Clone of an uninstalled constraint reproduces an equivalent,
// independently installable constraint.
func TestCloneProducesEquivalentConstraint(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x, y := s.NewVariable(), s.NewVariable()

	c := s.NewConstraint(cassowary.Required)
	require.NoError(t, c.SetRelation(cassowary.Equal))
	addTerm(t, c, x, 1)
	addTerm(t, c, y, -1)
	require.NoError(t, c.AddConstant(-3))

	clone := c.Clone(0)
	require.Equal(t, c.Constant(), clone.Constant())
	require.ElementsMatch(t, c.Terms(), clone.Terms())

	require.NoError(t, clone.Add())
	require.NoError(t, y.AddEdit(cassowary.Strong))
	require.NoError(t, y.Suggest(4))
	require.InDelta(t, 7.0, x.Value(), 1e-9) // x - y == 3
}

// Invariant: deleting one constraint that references a variable leaves the
// variable usable by the constraint that still references it; deleting that
// one too leaves the solver consistent. A nil Variable reports ID -1.
func TestVariableRefcountSafety(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	c1 := s.NewConstraint(cassowary.Required)
	require.NoError(t, c1.SetRelation(cassowary.Equal))
	addTerm(t, c1, x, 1)
	require.NoError(t, c1.AddConstant(-1))
	require.NoError(t, c1.Add())

	c2 := s.NewConstraint(cassowary.Medium)
	require.NoError(t, c2.SetRelation(cassowary.LessEqual))
	addTerm(t, c2, x, 1)
	require.NoError(t, c2.AddConstant(-9))
	require.NoError(t, c2.Add())

	c1.Delete()
	require.LessOrEqual(t, x.Value(), 9.0+1e-6) // c2 still installed and references x

	c2.Delete()
	require.Equal(t, int64(-1), (*cassowary.Variable)(nil).ID())
}

// Resetting a solver without clearing constraints drops edit constraints
// but leaves everything else installed.
func TestResetDropsEditsOnly(t *testing.T) {
	s := cassowary.NewSolver(cassowary.WithAutoUpdate(true))
	x := s.NewVariable()

	c := s.NewConstraint(cassowary.Required)
	addTerm(t, c, x, 1)
	require.NoError(t, c.SetRelation(cassowary.GreaterEqual))
	require.NoError(t, c.Add())

	require.NoError(t, x.AddEdit(cassowary.Strong))
	require.NoError(t, x.Suggest(12))
	require.InDelta(t, 12.0, x.Value(), 1e-9)

	s.Reset(false)
	require.False(t, x.HasEdit())
	require.True(t, c.Installed())
}
