package cassowary

// Variable is an external, user-visible handle owned by the Solver that
// created it. Every term that references a Variable increments its
// refcount; Delete decrements it and, at zero, forgets the variable and
// removes its edit constraint (if any) — spec.md §3/§5.
type Variable struct {
	solver   *Solver
	symbol   Symbol
	refcount int

	value float64

	editConstraint *Constraint
	editValue      float64
}

// NewVariable allocates a fresh external variable with refcount 1.
func (s *Solver) NewVariable() *Variable {
	v := &Variable{
		solver:   s,
		symbol:   s.symCounter.new(External),
		refcount: 1,
	}
	*s.vars.Set(v.symbol) = v
	return v
}

// Use increments v's refcount. Every constraint term that references v
// should pair one Use with one eventual Delete.
func (v *Variable) Use() {
	if v == nil {
		return
	}
	v.refcount++
}

// Delete decrements v's refcount, freeing it — removing it from its
// solver's registry and dropping its edit constraint, if any — once the
// count reaches zero. Deleting a nil Variable is a no-op.
func (v *Variable) Delete() {
	if v == nil {
		return
	}
	v.refcount--
	if v.refcount > 0 {
		return
	}
	v.solver.vars.Delete(v.symbol)
	if v.editConstraint != nil {
		cons := v.editConstraint
		v.editConstraint = nil
		cons.Remove()
	}
}

// ID returns v's symbol id, stable for the variable's lifetime, or -1 for
// a nil Variable.
func (v *Variable) ID() int64 {
	if v == nil {
		return -1
	}
	return int64(v.symbol.ID())
}

// Value returns v's most recently published value. It reflects the state
// as of the last UpdateVariables call (or, with auto-update on, the state
// after the most recent mutator returned).
func (v *Variable) Value() float64 {
	if v == nil {
		return 0
	}
	return v.value
}

// HasEdit reports whether v currently has an edit constraint installed.
func (v *Variable) HasEdit() bool {
	return v != nil && v.editConstraint != nil
}
