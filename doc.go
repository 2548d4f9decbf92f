// Package cassowary implements the Cassowary incremental linear-constraint
// solving algorithm: an engine for declaring linear equalities and
// inequalities over a set of variables, each carrying a priority
// ("strength"), and resolving them into a single consistent assignment
// using a dual/primal simplex tableau kept incrementally up to date as
// constraints are added, removed, and edited.
//
// A Solver owns the tableau. Variable and Constraint are external handles
// allocated against a Solver; building a Constraint's expression (AddTerm,
// AddConstant, SetRelation) is cheap and side-effect-free until Add
// installs it into the tableau. Suggest moves an editable Variable toward
// a target value, repairing the tableau with dual simplex rather than
// re-solving from scratch.
package cassowary
