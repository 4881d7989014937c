// Package lp holds a small symbolic representation for linear programs with
// non-negative continuous variables, plus the bridge to an LP solver.
//
// Models are built through a Builder and frozen into an immutable Model value;
// nothing here mutates a Model after Build. Constraints are grouped into named
// families, each optionally tagged with the timestep it applies to, so that an
// infeasible model can be discussed in terms of "soc_balance at step 17"
// instead of a bare matrix row.
package lp

import "fmt"

// Var is a handle to a decision variable. All variables are continuous and
// constrained to be >= 0.
type Var int

// Term is one coefficient*variable product in a linear expression.
type Term struct {
	Var   Var
	Coeff float64
}

// Expr is a linear expression: a sum of terms plus a constant offset.
type Expr struct {
	Terms []Term
	Const float64
}

// T is shorthand for a single term.
func T(v Var, coeff float64) Term { return Term{Var: v, Coeff: coeff} }

// Sum builds an expression from terms.
func Sum(terms ...Term) Expr { return Expr{Terms: terms} }

// Add returns e extended with more terms.
func (e Expr) Add(terms ...Term) Expr {
	out := Expr{Terms: make([]Term, 0, len(e.Terms)+len(terms)), Const: e.Const}
	out.Terms = append(out.Terms, e.Terms...)
	out.Terms = append(out.Terms, terms...)
	return out
}

// Sense of a constraint relation.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// ScalarStep marks a constraint that is not indexed by timestep.
const ScalarStep = -1

// Constraint is one linear relation Expr <sense> RHS belonging to a family.
type Constraint struct {
	Family string
	Step   int
	Expr   Expr
	Sense  Sense
	RHS    float64
}

func (c Constraint) String() string {
	if c.Step == ScalarStep {
		return fmt.Sprintf("%s: %s %v", c.Family, c.Sense, c.RHS)
	}
	return fmt.Sprintf("%s[%d]: %s %v", c.Family, c.Step, c.Sense, c.RHS)
}

// Model is an immutable linear program: variables, one objective to minimize,
// and a list of constraints.
type Model struct {
	varNames    []string
	objective   Expr
	constraints []Constraint
}

func (m Model) NumVars() int              { return len(m.varNames) }
func (m Model) VarName(v Var) string      { return m.varNames[v] }
func (m Model) Objective() Expr           { return m.objective }
func (m Model) Constraints() []Constraint { return m.constraints }
func (m Model) NumConstraints() int       { return len(m.constraints) }

// Builder accumulates variables and constraints and freezes them into a Model.
type Builder struct {
	varNames    []string
	objective   Expr
	constraints []Constraint
}

func NewBuilder() *Builder { return &Builder{} }

// Var declares one named variable and returns its handle.
func (b *Builder) Var(name string) Var {
	b.varNames = append(b.varNames, name)
	return Var(len(b.varNames) - 1)
}

// Vars declares one variable per timestep, named prefix[t].
func (b *Builder) Vars(prefix string, n int) []Var {
	out := make([]Var, n)
	for t := 0; t < n; t++ {
		out[t] = b.Var(fmt.Sprintf("%s[%d]", prefix, t))
	}
	return out
}

// Constrain appends one constraint to a family. Pass ScalarStep for
// constraints that are not per-timestep.
func (b *Builder) Constrain(family string, step int, e Expr, sense Sense, rhs float64) {
	b.constraints = append(b.constraints, Constraint{
		Family: family,
		Step:   step,
		Expr:   e,
		Sense:  sense,
		RHS:    rhs,
	})
}

// Minimize sets the objective expression.
func (b *Builder) Minimize(e Expr) { b.objective = e }

// Build freezes the builder into a Model value. The builder can be discarded
// afterwards; the Model shares no mutable state with it.
func (b *Builder) Build() Model {
	names := make([]string, len(b.varNames))
	copy(names, b.varNames)
	cons := make([]Constraint, len(b.constraints))
	copy(cons, b.constraints)
	return Model{varNames: names, objective: b.objective, constraints: cons}
}
