package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status of a solve attempt.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Solution carries the solve status and, when optimal, one value per variable
// plus the objective value.
type Solution struct {
	Status    Status
	Objective float64
	values    []float64
}

// Value returns the solved value of a variable. Zero for non-optimal
// solutions; callers must check Status first.
func (s Solution) Value(v Var) float64 {
	if int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

// Solve assembles the model into standard equality form (one slack or surplus
// column per inequality, all variables >= 0) and runs gonum's simplex method.
// Infeasible and unbounded outcomes are reported through Solution.Status, not
// as errors; an error means the solver itself failed.
func Solve(m Model) (Solution, error) {
	n := m.NumVars()
	if n == 0 {
		return Solution{}, errors.New("model has no variables")
	}
	cons := m.Constraints()
	rows := len(cons)
	if rows == 0 {
		return Solution{}, errors.New("model has no constraints")
	}

	nSlack := 0
	for _, c := range cons {
		if c.Sense != Equal {
			nSlack++
		}
	}
	cols := n + nSlack

	c := make([]float64, cols)
	for _, t := range m.Objective().Terms {
		c[t.Var] += t.Coeff
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	slack := n
	for i, con := range cons {
		for _, t := range con.Expr.Terms {
			a.Set(i, int(t.Var), a.At(i, int(t.Var))+t.Coeff)
		}
		b[i] = con.RHS - con.Expr.Const
		switch con.Sense {
		case LessEq:
			a.Set(i, slack, 1)
			slack++
		case GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
	}

	optF, optX, err := lp.Simplex(c, a, b, 0, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return Solution{Status: StatusInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return Solution{Status: StatusUnbounded}, nil
	default:
		return Solution{}, fmt.Errorf("simplex: %w", err)
	}

	values := make([]float64, n)
	copy(values, optX[:n])
	return Solution{
		Status:    StatusOptimal,
		Objective: optF + m.Objective().Const,
		values:    values,
	}, nil
}
