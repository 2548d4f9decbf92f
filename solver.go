package cassowary

// Solver owns a tableau: a set of basic rows keyed by symbol, an
// objective row, and registries of the external Variables and
// Constraints built against it. It is single-goroutine — concurrent use
// from multiple goroutines against the same Solver is undefined, the
// same way spec.md §5 describes the reference engine.
type Solver struct {
	logger     Logger
	eps        float64
	autoUpdate bool

	symCounter  symbolCounter
	consCounter uint32

	vars        table[*Variable]
	constraints table[*Constraint]
	rows        table[Row]
	objective   Row

	infeasible    []Symbol
	infeasibleSet table[struct{}]

	dirty    []Symbol
	dirtySet table[struct{}]
}

// NewSolver creates an empty Solver. By default it has no logger, a
// 1e-6 epsilon, and auto-update off — matching the reference's defaults
// before amcw_autoupdate is called.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		logger: noopLogger{},
		eps:    defaultEpsilon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAutoUpdate turns auto-publish mode on or off: with it on, every
// public mutator calls UpdateVariables before returning.
func (s *Solver) SetAutoUpdate(auto bool) {
	s.autoUpdate = auto
}

// markDirty enqueues sym's owning Variable for the next UpdateVariables,
// if it isn't already queued.
func (s *Solver) markDirty(sym Symbol) {
	if !sym.External() || s.dirtySet.Has(sym) {
		return
	}
	*s.dirtySet.Set(sym) = struct{}{}
	s.dirty = append(s.dirty, sym)
}

// enqueueInfeasible schedules the row keyed by sym for dual-simplex
// repair, if it isn't already queued.
func (s *Solver) enqueueInfeasible(sym Symbol) {
	if s.infeasibleSet.Has(sym) {
		return
	}
	*s.infeasibleSet.Set(sym) = struct{}{}
	s.infeasible = append(s.infeasible, sym)
}

// takeRow removes and returns the row keyed by sym, if any.
func (s *Solver) takeRow(sym Symbol) (Row, bool) {
	row, ok := s.rows.Get(sym)
	if !ok {
		return Row{}, false
	}
	s.rows.Delete(sym)
	return row, true
}

// putRow installs row under sym as a basic row, queueing sym's Variable
// for publication when sym is external.
func (s *Solver) putRow(sym Symbol, row Row) {
	*s.rows.Set(sym) = row
	s.markDirty(sym)
}

// UpdateVariables drains the dirty list, publishing each affected
// Variable's cached Value from its basic row's constant (0 if the
// variable has no row, i.e. it's currently non-basic at 0).
func (s *Solver) UpdateVariables() {
	for _, sym := range s.dirty {
		v, ok := s.vars.Get(sym)
		if !ok {
			continue
		}
		if row, ok := s.rows.Get(sym); ok {
			v.value = row.constant
		} else {
			v.value = 0
		}
	}
	s.dirty = s.dirty[:0]
	s.dirtySet.Reset()
}

// addConstraint is the engine behind Constraint.Add: spec.md §4.4.
func (s *Solver) addConstraint(cons *Constraint) error {
	if cons.Installed() {
		return ErrAlreadyInstalled
	}

	mark := s.symCounter.mark()
	row := s.makeRow(cons)

	subject, err := s.findSubject(&row, cons)
	if err != nil {
		s.removeErrors(cons)
		s.symCounter.restore(mark)
		s.logger.Print("cassowary: add unsatisfiable: ", err)
		return err
	}

	if subject.Null() {
		if err := s.addWithArtificial(row, cons); err != nil {
			// The artificial pass may already have pivoted cons's
			// marker into the tableau before discovering the system is
			// unbound; a full uninstall (not just clearing the
			// objective contribution) is needed to purge it before the
			// symbol counter rolls back, matching am_cassowary.h's
			// amcw_add_with_artificial, which calls amcw_remove(cons)
			// on this path.
			s.removeConstraint(cons)
			s.symCounter.restore(mark)
			s.logger.Print("cassowary: add unbound: ", err)
			return err
		}
	} else {
		row.solveFor(subject, nullSymbol, s.eps)
		s.substituteRows(subject, &row)
		s.putRow(subject, row)
	}

	s.optimize(&s.objective)
	if s.autoUpdate {
		s.UpdateVariables()
	}
	return nil
}

// removeConstraint is the engine behind Constraint.Remove: spec.md §4.8.
func (s *Solver) removeConstraint(cons *Constraint) {
	marker := cons.marker
	s.removeErrors(cons)

	if _, ok := s.takeRow(marker); !ok {
		if exit := s.getLeavingRow(marker); !exit.Null() {
			row, _ := s.takeRow(exit)
			s.markDirty(exit)
			row.solveFor(marker, exit, s.eps)
			s.substituteRows(marker, &row)
		}
	}

	s.optimize(&s.objective)
	if s.autoUpdate {
		s.UpdateVariables()
	}
}

// Reset drops every edit constraint (restoring each variable's pre-edit
// value) and, when clearConstraints is set, also uninstalls every
// constraint and empties the row table, leaving constraint handles (and
// their uncompiled expressions) alive for reinstallation. Matches
// am_cassowary.h's amcw_resetsolver — see SPEC_FULL.md §5 and DESIGN.md
// for the two open questions the reference's own comments flag here.
func (s *Solver) Reset(clearConstraints bool) {
	if !s.autoUpdate {
		s.UpdateVariables()
	}

	var edits []*Constraint
	s.vars.Iterate(func(_ Symbol, v **Variable) bool {
		if (*v).editConstraint != nil {
			edits = append(edits, (*v).editConstraint)
			(*v).editConstraint = nil
		}
		return true
	})
	for _, cons := range edits {
		cons.Remove()
	}

	if !clearConstraints {
		return
	}

	s.objective = Row{}
	s.constraints.Iterate(func(_ Symbol, c **Constraint) bool {
		(*c).marker = nullSymbol
		(*c).other = nullSymbol
		return true
	})
	s.rows = table[Row]{}
}
