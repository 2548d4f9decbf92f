package cassowary

// AddEdit installs an edit constraint on v: an equality pinning v to its
// current value, at a strength capped at Strong (so the edit is never
// Required, and Suggest moves v only as far as the Required constraints
// in the tableau allow). If v
// already has an edit installed, this just re-strengths the existing
// constraint. Matches am_cassowary.h's amcw_addedit.
func (v *Variable) AddEdit(strength float64) error {
	if v == nil {
		return ErrNilVariable
	}
	if strength >= Strong {
		strength = Strong
	}
	if v.editConstraint != nil {
		return v.editConstraint.SetStrength(strength)
	}

	cons := v.solver.NewConstraint(strength)
	if err := cons.SetRelation(Equal); err != nil {
		return err
	}
	if err := cons.AddTerm(v, 1.0); err != nil {
		return err
	}
	if err := cons.AddConstant(-v.value); err != nil {
		return err
	}
	if err := cons.Add(); err != nil {
		return err
	}
	v.editConstraint = cons
	v.editValue = v.value
	return nil
}

// DeleteEdit uninstalls v's edit constraint, if any.
func (v *Variable) DeleteEdit() {
	if v == nil || v.editConstraint == nil {
		return
	}
	cons := v.editConstraint
	v.editConstraint = nil
	v.editValue = 0
	cons.Delete()
}

// Suggest moves v toward value by applying the delta to its edit
// constraint's constant and repairing feasibility with dual simplex,
// installing an edit at Medium strength first if v doesn't have one.
// Matches am_cassowary.h's amcw_suggest.
func (v *Variable) Suggest(value float64) error {
	if v == nil {
		return ErrNilVariable
	}
	if v.editConstraint == nil {
		if err := v.AddEdit(Medium); err != nil {
			return err
		}
	}

	delta := value - v.editValue
	v.editValue = value

	s := v.solver
	s.deltaEditConstant(delta, v.editConstraint)
	s.dualOptimize()
	if s.autoUpdate {
		s.UpdateVariables()
	}
	return nil
}
