package cassowary

// defaultEpsilon is the "approximately equal" / "near zero" tolerance from
// spec.md §3. It is a package-level default; a Solver may override it
// via WithEpsilon for a build working in single precision.
const defaultEpsilon = 1e-6

// Term is a single coefficient-symbol pair inside an Expr.
type Term struct {
	Coeff  float64
	Symbol Symbol
}

// Expr is a user-built linear expression: a constant plus a list of
// symbol terms. It is the only row representation exposed to callers,
// as the snapshot Constraint.Expression returns; the constraint itself
// keeps its builder expression as a Row, which the solver compiles into
// a tableau row when the constraint is installed.
type Expr struct {
	Constant float64
	Terms    []Term
}

// Row is a canonical linear expression living in the tableau: a constant
// plus a symbol->coefficient mapping with no near-zero coefficients and
// no duplicate symbols. Row algebra (spec.md §4.2) is expressed as
// methods that take an epsilon so a Solver's configured tolerance always
// governs which coefficients get dropped.
type Row struct {
	constant float64
	terms    table[float64]
}

func newRow(constant float64) Row {
	return Row{constant: constant}
}

// isConstant reports whether the row has been reduced to a bare number.
func (r *Row) isConstant() bool { return r.terms.Len() == 0 }

// addVar accumulates coeff into terms[sym], dropping the term if the
// resulting coefficient falls within eps of zero. Adding to the null
// symbol is a no-op.
func (r *Row) addVar(sym Symbol, coeff float64, eps float64) {
	if sym.Null() {
		return
	}
	p := r.terms.Set(sym)
	*p += coeff
	if nearZero(*p, eps) {
		r.terms.Delete(sym)
	}
}

// multiply scales the constant and every term coefficient by k.
func (r *Row) multiply(k float64) {
	r.constant *= k
	r.terms.Iterate(func(_ Symbol, c *float64) bool {
		*c *= k
		return true
	})
}

// addRow performs row += other * k.
func (r *Row) addRow(other *Row, k float64, eps float64) {
	r.constant += other.constant * k
	other.terms.Iterate(func(sym Symbol, c *float64) bool {
		r.addVar(sym, *c*k, eps)
		return true
	})
}

// solveFor assumes the row contains entry with a non-zero coefficient,
// expressing "entry = constant + ... " as a function of the rest of the
// row. It removes entry, multiplies the remainder by -1/coeff, and if
// exit is non-null adds exit back in with coefficient 1/coeff, yielding
// entry's own row for when entry replaces exit in the basis.
func (r *Row) solveFor(entry, exit Symbol, eps float64) {
	p := r.terms.GetPtr(entry)
	if p == nil {
		panic("cassowary: solveFor on a row missing its entry symbol")
	}
	coeff := *p
	r.terms.Delete(entry)
	r.multiply(-1.0 / coeff)
	if !exit.Null() {
		r.addVar(exit, 1.0/coeff, eps)
	}
}

// substitute replaces occurrences of sym in the row with other*coeff,
// where coeff is sym's current coefficient in the row. A no-op if sym
// does not occur.
func (r *Row) substitute(sym Symbol, other *Row, eps float64) {
	p := r.terms.GetPtr(sym)
	if p == nil {
		return
	}
	coeff := *p
	r.terms.Delete(sym)
	r.addRow(other, coeff, eps)
}

// coeffOf returns the row's coefficient on sym, or 0 if absent.
func (r *Row) coeffOf(sym Symbol) float64 {
	c, ok := r.terms.Get(sym)
	if !ok {
		return 0
	}
	return c
}

func nearZero(v float64, eps float64) bool {
	return approxEqual(v, 0, eps)
}

func approxEqual(a, b float64, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}
