package cassowary

// Relation is the comparison between a Constraint's left-hand side (the
// terms and constants added before SetRelation) and its right-hand side
// (those added after): lhs <= rhs, lhs == rhs, or lhs >= rhs. With every
// term added before SetRelation, the constraint reads expr <= 0, expr == 0
// or expr >= 0.
type Relation uint8

const (
	relationUnset Relation = 0

	LessEqual    Relation = 1
	Equal        Relation = 2
	GreaterEqual Relation = 3
)

// Strength levels, spec.md §3. Any positive float is a valid strength;
// these four are the named conventional levels.
const (
	Required float64 = 1e9
	Strong   float64 = 1e6
	Medium   float64 = 1e3
	Weak     float64 = 1
)

// Constraint is an external handle owning a builder Expr (the row of
// user-added terms) plus, once installed, the marker/other auxiliary
// symbols the tableau uses to locate and uninstall it.
type Constraint struct {
	solver   *Solver
	symbol   Symbol // this constraint's own registry key
	expr     Row    // builder expression: only ever holds external-variable terms
	marker   Symbol
	other    Symbol
	relation Relation
	strength float64
}

// NewConstraint allocates an empty, uninstalled constraint. A strength of
// ~0 is treated as Required.
func (s *Solver) NewConstraint(strength float64) *Constraint {
	s.consCounter++
	c := &Constraint{
		solver:   s,
		symbol:   newSymbol(s.consCounter, External),
		strength: normalizeStrength(strength, s.eps),
	}
	*s.constraints.Set(c.symbol) = c
	return c
}

func normalizeStrength(strength, eps float64) float64 {
	if nearZero(strength, eps) {
		return Required
	}
	return strength
}

// Clone deep-copies c's uninstalled expression and relation into a fresh
// constraint. A strength of ~0 inherits c's own strength.
// (am_cassowary.h: amcw_cloneconstraint)
func (c *Constraint) Clone(strength float64) *Constraint {
	if c == nil {
		return nil
	}
	if nearZero(strength, c.solver.eps) {
		strength = c.strength
	}
	clone := c.solver.NewConstraint(strength)
	_ = clone.Merge(c, 1.0)
	clone.relation = c.relation
	return clone
}

// Terms returns a snapshot of c's current builder terms (external
// variable symbols only, even once installed — the marker/other
// auxiliary terms the tableau added are never exposed).
func (c *Constraint) Terms() []Term {
	if c == nil {
		return nil
	}
	terms := make([]Term, 0, c.expr.terms.Len())
	c.expr.terms.Iterate(func(sym Symbol, coeff *float64) bool {
		if sym.External() {
			terms = append(terms, Term{Coeff: *coeff, Symbol: sym})
		}
		return true
	})
	return terms
}

// Constant returns c's builder expression constant.
func (c *Constraint) Constant() float64 {
	if c == nil {
		return 0
	}
	return c.expr.constant
}

// Expression returns a snapshot Expr of c's current builder terms and
// constant — a convenience wrapper combining Terms and Constant.
func (c *Constraint) Expression() Expr {
	return Expr{Constant: c.Constant(), Terms: c.Terms()}
}

// Installed reports whether c has been successfully added to its solver.
func (c *Constraint) Installed() bool {
	return c != nil && !c.marker.Null()
}

// Delete removes c if installed and drops it from its solver's registry,
// releasing every variable it referenced.
func (c *Constraint) Delete() {
	if c == nil {
		return
	}
	c.Remove()
	c.solver.constraints.Delete(c.symbol)
	c.releaseTerms()
	c.expr = Row{}
}

// Reset removes c if installed, empties its expression, and clears its
// relation — unlike Delete, c's handle remains usable afterward.
func (c *Constraint) Reset() {
	if c == nil {
		return
	}
	c.Remove()
	c.relation = relationUnset
	c.releaseTerms()
	c.expr = Row{}
}

func (c *Constraint) releaseTerms() {
	c.expr.terms.Iterate(func(sym Symbol, _ *float64) bool {
		if v, ok := c.solver.vars.Get(sym); ok {
			v.Delete()
		}
		return true
	})
}

// AddTerm adds coeff*v to c's left-hand side while no relation is set, and
// to its right-hand side once SetRelation has been called. Fails if c is
// installed or v belongs to a different solver.
func (c *Constraint) AddTerm(v *Variable, coeff float64) error {
	if c == nil {
		return ErrNilConstraint
	}
	if v == nil {
		return ErrNilVariable
	}
	if c.Installed() {
		return ErrAlreadyInstalled
	}
	if v.solver != c.solver {
		return ErrSolverMismatch
	}
	if c.relation == GreaterEqual {
		coeff = -coeff
	}
	c.expr.addVar(v.symbol, coeff, c.solver.eps)
	v.Use()
	return nil
}

// SetRelation sets c's relation. The tableau stores every constraint as
// expr >= 0 (or expr == 0): for GreaterEqual the accumulated left-hand
// side is kept as is, and any other relation first multiplies it by -1.
// Terms and constants added afterwards form the right-hand side, so they
// are negated under GreaterEqual and kept as is otherwise.
func (c *Constraint) SetRelation(r Relation) error {
	if c == nil {
		return ErrNilConstraint
	}
	if r < LessEqual || r > GreaterEqual {
		return ErrBadRelation
	}
	if c.Installed() || c.relation != relationUnset {
		return ErrRelationAlreadySet
	}
	if r != GreaterEqual {
		c.expr.multiply(-1.0)
	}
	c.relation = r
	return nil
}

// AddConstant adds k to c's expression constant (subtracting it when the
// relation is GreaterEqual, matching the sign AddTerm gives right-hand
// side terms).
func (c *Constraint) AddConstant(k float64) error {
	if c == nil {
		return ErrNilConstraint
	}
	if c.Installed() {
		return ErrAlreadyInstalled
	}
	if c.relation == GreaterEqual {
		c.expr.constant -= k
	} else {
		c.expr.constant += k
	}
	return nil
}

// Merge folds k*other.expression into c's expression (sign-flipped when
// c's relation is GreaterEqual), using each referenced variable again.
func (c *Constraint) Merge(other *Constraint, k float64) error {
	if c == nil || other == nil {
		return ErrNilConstraint
	}
	if c.Installed() {
		return ErrAlreadyInstalled
	}
	if c.solver != other.solver {
		return ErrSolverMismatch
	}
	if c.relation == GreaterEqual {
		k = -k
	}
	c.expr.constant += other.expr.constant * k
	other.expr.terms.Iterate(func(sym Symbol, coeff *float64) bool {
		if v, ok := c.solver.vars.Get(sym); ok {
			v.Use()
		}
		c.expr.addVar(sym, *coeff*k, c.solver.eps)
		return true
	})
	return nil
}

// SetStrength changes c's strength. Crossing the Required boundary in
// either direction re-installs the constraint; otherwise, if c is
// already installed, only the objective's coefficients on c's error
// markers are adjusted and primal simplex re-optimizes — no full
// remove/add cycle (am_cassowary.h: amcw_setstrength).
func (c *Constraint) SetStrength(strength float64) error {
	if c == nil {
		return ErrNilConstraint
	}
	strength = normalizeStrength(strength, c.solver.eps)
	if strength == c.strength {
		return nil
	}
	if c.strength >= Required || strength >= Required {
		// Matches am_cassowary.h's amcw_setstrength: remove (a no-op if
		// not installed) then unconditionally re-add at the new
		// strength, even for a constraint that was never installed.
		c.Remove()
		c.strength = strength
		return c.Add()
	}
	if c.Installed() {
		s := c.solver
		diff := strength - c.strength
		if c.marker.Kind() == Error {
			s.mergeIntoObjective(c.marker, diff)
		}
		if c.other.Kind() == Error {
			s.mergeIntoObjective(c.other, diff)
		}
		s.optimize(&s.objective)
		if s.autoUpdate {
			s.UpdateVariables()
		}
	}
	c.strength = strength
	return nil
}

// Add installs c into its solver's tableau.
func (c *Constraint) Add() error {
	if c == nil {
		return ErrNilConstraint
	}
	return c.solver.addConstraint(c)
}

// Remove uninstalls c; a no-op if c is not installed.
func (c *Constraint) Remove() {
	if c == nil || !c.Installed() {
		return
	}
	c.solver.removeConstraint(c)
}
