package cassowary

import "math"

// makeRow compiles cons's builder expression into a canonical tableau
// row and assigns cons's marker/other symbols, following the table in
// spec.md §4.3. Every external term symbol is marked dirty, since the
// constraint's coefficients now participate in the tableau even before
// the row is installed.
func (s *Solver) makeRow(cons *Constraint) Row {
	row := newRow(cons.expr.constant)
	cons.expr.terms.Iterate(func(sym Symbol, coeff *float64) bool {
		s.markDirty(sym)
		s.mergeRowFromSymbol(&row, sym, *coeff)
		return true
	})

	switch cons.relation {
	case Equal:
		if cons.strength >= Required {
			cons.marker = s.symCounter.new(Dummy)
			row.addVar(cons.marker, 1.0, s.eps)
		} else {
			cons.marker = s.symCounter.new(Error)
			cons.other = s.symCounter.new(Error)
			row.addVar(cons.marker, -1.0, s.eps)
			row.addVar(cons.other, 1.0, s.eps)
			s.objective.addVar(cons.marker, cons.strength, s.eps)
			s.objective.addVar(cons.other, cons.strength, s.eps)
		}
	default: // LessEqual or GreaterEqual
		cons.marker = s.symCounter.new(Slack)
		row.addVar(cons.marker, -1.0, s.eps)
		if cons.strength < Required {
			cons.other = s.symCounter.new(Error)
			row.addVar(cons.other, 1.0, s.eps)
			s.objective.addVar(cons.other, cons.strength, s.eps)
		}
	}

	if row.constant < 0 {
		row.multiply(-1.0)
	}
	return row
}

// mergeRowFromSymbol adds coeff*sym into row, substituting sym's own
// basic row if one exists — matching amcw_mergerow, which folds an
// already-installed basic variable's row into the new constraint instead
// of leaving a reference to a basic symbol dangling in a fresh row.
func (s *Solver) mergeRowFromSymbol(row *Row, sym Symbol, coeff float64) {
	if existing := s.rows.GetPtr(sym); existing != nil {
		row.addRow(existing, coeff, s.eps)
	} else {
		row.addVar(sym, coeff, s.eps)
	}
}

// findSubject picks the basic variable row will represent, per spec.md
// §4.4. It returns the null symbol (with no error) when an artificial
// variable is required, and ErrUnsatisfied when row reduces to a
// non-zero constant with no pivotable term.
func (s *Solver) findSubject(row *Row, cons *Constraint) (Symbol, error) {
	var subject Symbol
	row.terms.Iterate(func(sym Symbol, _ *float64) bool {
		if sym.External() {
			subject = sym
			return false
		}
		return true
	})
	if !subject.Null() {
		return subject, nil
	}

	if cons.marker.Pivotable() {
		if c := row.coeffOf(cons.marker); c < 0 {
			return cons.marker, nil
		}
	}
	if cons.other.Pivotable() {
		if c := row.coeffOf(cons.other); c < 0 {
			return cons.other, nil
		}
	}

	onlyDummy := true
	row.terms.Iterate(func(sym Symbol, _ *float64) bool {
		if !sym.Dummy() {
			onlyDummy = false
			return false
		}
		return true
	})
	if !onlyDummy {
		return nullSymbol, nil
	}
	if !nearZero(row.constant, s.eps) {
		return nullSymbol, ErrUnsatisfied
	}
	return cons.marker, nil
}

// addWithArtificial runs the artificial-variable procedure of spec.md
// §4.5: install row under a fresh, ephemeral Slack symbol, minimize it as
// a temporary objective, then eliminate the artificial from the tableau.
func (s *Solver) addWithArtificial(row Row, cons *Constraint) error {
	artificial := s.symCounter.new(Slack)
	s.symCounter.next-- // the artificial never really existed; recycle its id
	s.logger.Print("cassowary: artificial variable pass for ", cons.symbol)

	tmpObjective := newRow(0)
	tmpObjective.addRow(&row, 1.0, s.eps)
	s.putRow(artificial, row)

	s.optimize(&tmpObjective)
	succeeded := nearZero(tmpObjective.constant, s.eps)

	if artRow, ok := s.takeRow(artificial); ok {
		if artRow.isConstant() {
			if !succeeded {
				return ErrUnbound
			}
			return nil
		}

		var entry Symbol
		artRow.terms.Iterate(func(sym Symbol, _ *float64) bool {
			if sym.Pivotable() {
				entry = sym
				return false
			}
			return true
		})
		if entry.Null() {
			return ErrUnbound
		}
		artRow.solveFor(entry, artificial, s.eps)
		s.substituteRows(entry, &artRow)
		s.putRow(entry, artRow)
	}

	s.rows.Iterate(func(_ Symbol, r *Row) bool {
		r.terms.Delete(artificial)
		return true
	})
	s.objective.terms.Delete(artificial)

	if !succeeded {
		return ErrUnbound
	}
	return nil
}

// optimize is primal simplex (spec.md §4.6): minimize objective by
// repeatedly choosing an entering variable (first non-dummy negative
// term) and a leaving variable (minimum ratio test among pivotable basic
// rows), pivoting until no entering variable remains.
func (s *Solver) optimize(objective *Row) {
	for {
		var enter Symbol
		objective.terms.Iterate(func(sym Symbol, coeff *float64) bool {
			if sym.Dummy() || *coeff >= 0 {
				return true
			}
			enter = sym
			return false
		})
		if enter.Null() {
			return
		}

		var exit Symbol
		minRatio := math.MaxFloat64
		s.rows.Iterate(func(sym Symbol, row *Row) bool {
			if !sym.Pivotable() {
				return true
			}
			coeff, ok := row.terms.Get(enter)
			if !ok || coeff >= 0 {
				return true
			}
			ratio := -row.constant / coeff
			if ratio < minRatio || (approxEqual(ratio, minRatio, s.eps) && (exit.Null() || sym.ID() < exit.ID())) {
				minRatio, exit = ratio, sym
			}
			return true
		})
		if exit.Null() {
			panic("cassowary: optimize found no leaving row; problem is unbounded")
		}

		row, _ := s.takeRow(exit)
		row.solveFor(enter, exit, s.eps)
		s.substituteRows(enter, &row)
		if objective != &s.objective {
			objective.substitute(enter, &row, s.eps)
		}
		s.putRow(enter, row)
	}
}

// substituteRows replaces sym with expr throughout every basic row and
// the objective, marking external rows dirty and non-external rows
// infeasible when the substitution drives their constant negative.
func (s *Solver) substituteRows(sym Symbol, expr *Row) {
	s.rows.Iterate(func(key Symbol, row *Row) bool {
		row.substitute(sym, expr, s.eps)
		if key.External() {
			s.markDirty(key)
		} else if row.constant < 0 {
			s.enqueueInfeasible(key)
		}
		return true
	})
	s.objective.substitute(sym, expr, s.eps)
}

// removeErrors subtracts cons's strength from the objective's
// coefficients on its error markers, undoing makeRow's contribution, and
// clears cons's marker/other symbols.
func (s *Solver) removeErrors(cons *Constraint) {
	if cons.marker.Kind() == Error {
		s.mergeIntoObjective(cons.marker, -cons.strength)
	}
	if cons.other.Kind() == Error {
		s.mergeIntoObjective(cons.other, -cons.strength)
	}
	if s.objective.isConstant() {
		s.objective.constant = 0
	}
	cons.marker = nullSymbol
	cons.other = nullSymbol
}

// mergeIntoObjective adds coeff*sym to the objective, substituting sym's
// basic row if it has one — used both by makeRow-adjacent bookkeeping and
// by SetStrength's non-required fast path.
func (s *Solver) mergeIntoObjective(sym Symbol, coeff float64) {
	if sym.Null() {
		return
	}
	s.mergeRowFromSymbol(&s.objective, sym, coeff)
}

// getLeavingRow chooses which basic row to pivot marker out of when
// marker itself is not (or is no longer) a row key, per spec.md §4.8.
func (s *Solver) getLeavingRow(marker Symbol) Symbol {
	var first, second, third Symbol
	r1, r2 := math.MaxFloat64, math.MaxFloat64

	s.rows.Iterate(func(sym Symbol, row *Row) bool {
		coeff, ok := row.terms.Get(marker)
		if !ok {
			return true
		}
		switch {
		case sym.External():
			third = sym
		case coeff < 0:
			ratio := -row.constant / coeff
			if ratio < r1 {
				r1, first = ratio, sym
			}
		default:
			ratio := row.constant / coeff
			if ratio < r2 {
				r2, second = ratio, sym
			}
		}
		return true
	})

	switch {
	case !first.Null():
		return first
	case !second.Null():
		return second
	default:
		return third
	}
}

// deltaEditConstant applies a suggested delta to an edit constraint's
// marker (or other, or every row referencing marker as a term),
// per spec.md §4.9.
func (s *Solver) deltaEditConstant(delta float64, cons *Constraint) {
	if row := s.rows.GetPtr(cons.marker); row != nil {
		row.constant -= delta
		if row.constant < 0 {
			s.enqueueInfeasible(cons.marker)
		}
		return
	}
	if row := s.rows.GetPtr(cons.other); row != nil {
		row.constant += delta
		if row.constant < 0 {
			s.enqueueInfeasible(cons.other)
		}
		return
	}
	s.rows.Iterate(func(key Symbol, row *Row) bool {
		coeff, ok := row.terms.Get(cons.marker)
		if !ok {
			return true
		}
		row.constant += coeff * delta
		if key.External() {
			s.markDirty(key)
		} else if row.constant < 0 {
			s.enqueueInfeasible(key)
		}
		return true
	})
}

// dualOptimize drains the infeasible list (spec.md §4.7), pivoting each
// infeasible row back to a non-negative constant.
func (s *Solver) dualOptimize() {
	for len(s.infeasible) > 0 {
		leave := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]
		s.infeasibleSet.Delete(leave)

		row, ok := s.rows.Get(leave)
		if !ok || nearZero(row.constant, s.eps) || row.constant >= 0 {
			continue
		}

		var enter Symbol
		minRatio := math.MaxFloat64
		row.terms.Iterate(func(sym Symbol, coeff *float64) bool {
			if sym.Dummy() || *coeff <= 0 {
				return true
			}
			objCoeff := s.objective.coeffOf(sym)
			ratio := objCoeff / *coeff
			if ratio < minRatio {
				minRatio, enter = ratio, sym
			}
			return true
		})
		if enter.Null() {
			panic("cassowary: dualOptimize found no entering variable for an infeasible row")
		}

		tmp, _ := s.takeRow(leave)
		tmp.solveFor(enter, leave, s.eps)
		s.substituteRows(enter, &tmp)
		s.putRow(enter, tmp)
	}
}
