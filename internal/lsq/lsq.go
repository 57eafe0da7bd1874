// Package lsq provides a deterministic bound-constrained nonlinear
// least-squares solver (projected Levenberg-Marquardt) for small parameter
// vectors, as used by curve-fitting code in this module.
package lsq

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by Solve.
var (
	ErrDimension     = errors.New("lsq: dimension mismatch")
	ErrInvalidBounds = errors.New("lsq: lower bound exceeds upper bound")
	ErrNonFinite     = errors.New("lsq: residuals are not finite at the initial guess")
)

// ResidualFunc writes the residual vector for params into dst. len(dst) is
// the residual count declared in Problem.
type ResidualFunc func(dst, params []float64)

// Problem describes a least-squares problem min 0.5*|r(p)|^2 subject to
// Lower <= p <= Upper.
type Problem struct {
	Residuals int
	Func      ResidualFunc
	Lower     []float64
	Upper     []float64
}

// Config controls iteration limits and stopping tolerances.
type Config struct {
	MaxIterations  int
	XTol           float64 // relative step size
	FTol           float64 // relative cost reduction
	GTol           float64 // projected gradient max-norm
	InitialDamping float64
	MaxDamping     float64
}

// DefaultConfig returns the tolerances used by the attack-profile fit.
func DefaultConfig() Config {
	return Config{
		MaxIterations:  200,
		XTol:           1e-10,
		FTol:           1e-12,
		GTol:           1e-12,
		InitialDamping: 1e-3,
		MaxDamping:     1e16,
	}
}

// StopReason records why the solver terminated.
type StopReason int

const (
	StopNone StopReason = iota
	StopGradient
	StopStep
	StopCost
	StopMaxIterations
	StopDamping
)

func (r StopReason) String() string {
	switch r {
	case StopGradient:
		return "gradient"
	case StopStep:
		return "step"
	case StopCost:
		return "cost"
	case StopMaxIterations:
		return "max-iterations"
	case StopDamping:
		return "damping"
	default:
		return "none"
	}
}

// Result holds the solver outcome. Params is the best point found, even when
// Converged is false.
type Result struct {
	Params     []float64
	Cost       float64
	Iterations int
	Converged  bool
	Reason     StopReason
}

// Solve minimizes the problem starting from x0 (clipped into the bounds).
// The iteration is deterministic: identical inputs give identical results.
//
//nolint:cyclop,funlen
func Solve(p Problem, x0 []float64, cfg Config) (Result, error) {
	k := len(x0)
	m := p.Residuals
	if k == 0 || m <= 0 || p.Func == nil {
		return Result{}, ErrDimension
	}
	if len(p.Lower) != k || len(p.Upper) != k {
		return Result{}, fmt.Errorf("%w: %d params, %d/%d bounds", ErrDimension, k, len(p.Lower), len(p.Upper))
	}
	for j := range k {
		if p.Lower[j] > p.Upper[j] {
			return Result{}, fmt.Errorf("%w: param %d [%g, %g]", ErrInvalidBounds, j, p.Lower[j], p.Upper[j])
		}
	}
	cfg = normalizeConfig(cfg)

	x := make([]float64, k)
	for j := range x {
		x[j] = clip(x0[j], p.Lower[j], p.Upper[j])
	}

	r := make([]float64, m)
	p.Func(r, x)
	cost := 0.5 * vecmath.DotProduct(r, r)
	if !isFinite(cost) {
		return Result{}, ErrNonFinite
	}

	res := Result{Params: x, Cost: cost}
	if cost == 0 {
		res.Converged, res.Reason = true, StopCost
		return res, nil
	}

	var (
		jac    = make([][]float64, k)
		probe  = make([]float64, m)
		trial  = make([]float64, m)
		xTrial = make([]float64, k)
		grad   = make([]float64, k)
		normal = make([][]float64, k)
		step   = make([]float64, k)
		lambda = cfg.InitialDamping
	)
	for j := range k {
		jac[j] = make([]float64, m)
		normal[j] = make([]float64, k)
	}

	for res.Iterations < cfg.MaxIterations {
		res.Iterations++

		jacobian(p, x, r, jac, probe, xTrial)

		pg := 0.0
		for i := range k {
			grad[i] = vecmath.DotProduct(jac[i], r)
			for j := range k {
				normal[i][j] = vecmath.DotProduct(jac[i], jac[j])
			}
			if !blockedByBound(x[i], grad[i], p.Lower[i], p.Upper[i]) {
				pg = math.Max(pg, math.Abs(grad[i]))
			}
		}
		if pg <= cfg.GTol {
			res.Converged, res.Reason = true, StopGradient
			return res, nil
		}

		for {
			if !dampedStep(normal, grad, lambda, step) {
				lambda *= 10
				if lambda > cfg.MaxDamping {
					res.Reason = StopDamping
					return res, nil
				}
				continue
			}

			stepNorm, xNorm := 0.0, 0.0
			for j := range k {
				xTrial[j] = clip(x[j]+step[j], p.Lower[j], p.Upper[j])
				stepNorm += (xTrial[j] - x[j]) * (xTrial[j] - x[j])
				xNorm += x[j] * x[j]
			}
			stepNorm, xNorm = math.Sqrt(stepNorm), math.Sqrt(xNorm)
			if stepNorm == 0 {
				// Every direction is blocked by an active bound.
				res.Converged, res.Reason = true, StopStep
				return res, nil
			}

			p.Func(trial, xTrial)
			trialCost := 0.5 * vecmath.DotProduct(trial, trial)

			if isFinite(trialCost) && trialCost < cost {
				reduction := cost - trialCost
				copy(x, xTrial)
				copy(r, trial)
				cost = trialCost
				res.Cost = cost
				lambda = math.Max(lambda/10, 1e-12)

				switch {
				case stepNorm <= cfg.XTol*(xNorm+cfg.XTol):
					res.Converged, res.Reason = true, StopStep
					return res, nil
				case reduction <= cfg.FTol*cost || cost == 0:
					res.Converged, res.Reason = true, StopCost
					return res, nil
				}
				break
			}

			lambda *= 10
			if lambda > cfg.MaxDamping {
				res.Reason = StopDamping
				return res, nil
			}
		}
	}

	res.Reason = StopMaxIterations
	return res, nil
}

func normalizeConfig(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.XTol <= 0 {
		cfg.XTol = def.XTol
	}
	if cfg.FTol <= 0 {
		cfg.FTol = def.FTol
	}
	if cfg.GTol <= 0 {
		cfg.GTol = def.GTol
	}
	if cfg.InitialDamping <= 0 {
		cfg.InitialDamping = def.InitialDamping
	}
	if cfg.MaxDamping <= cfg.InitialDamping {
		cfg.MaxDamping = def.MaxDamping
	}
	return cfg
}

// jacobian fills jac[j] with the forward difference dr/dx_j. The difference
// is taken backwards when the forward probe would leave the upper bound.
func jacobian(p Problem, x, r []float64, jac [][]float64, probe, xp []float64) {
	const rel = 1.4901161193847656e-08 // sqrt(machine epsilon)

	copy(xp, x)
	for j := range x {
		h := rel * math.Max(1, math.Abs(x[j]))
		if x[j]+h > p.Upper[j] {
			h = -h
		}
		xp[j] = x[j] + h
		h = xp[j] - x[j]

		p.Func(probe, xp)
		col := jac[j]
		vecmath.ScaleBlock(col, r, -1)
		vecmath.AddBlockInPlace(col, probe)
		vecmath.ScaleBlock(col, col, 1/h)

		xp[j] = x[j]
	}
}

// blockedByBound reports whether the descent direction -g for a parameter
// sitting on a bound points outside the feasible interval.
func blockedByBound(x, g, lo, hi float64) bool {
	return (x <= lo && g > 0) || (x >= hi && g < 0)
}

// dampedStep solves (A + lambda*diag(A)) step = -g. Zero diagonal entries are
// damped with lambda itself. Returns false for a singular system.
func dampedStep(a [][]float64, g []float64, lambda float64, step []float64) bool {
	k := len(g)
	aug := make([][]float64, k)
	for i := range k {
		row := make([]float64, k+1)
		copy(row, a[i])
		d := a[i][i]
		if d == 0 {
			d = 1
		}
		row[i] += lambda * d
		row[k] = -g[i]
		aug[i] = row
	}

	for col := range k {
		pivot := col
		for i := col + 1; i < k; i++ {
			if math.Abs(aug[i][col]) > math.Abs(aug[pivot][col]) {
				pivot = i
			}
		}
		if aug[pivot][col] == 0 {
			return false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		for i := col + 1; i < k; i++ {
			f := aug[i][col] / aug[col][col]
			for j := col; j <= k; j++ {
				aug[i][j] -= f * aug[col][j]
			}
		}
	}

	for i := k - 1; i >= 0; i-- {
		s := aug[i][k]
		for j := i + 1; j < k; j++ {
			s -= aug[i][j] * step[j]
		}
		step[i] = s / aug[i][i]
		if !isFinite(step[i]) {
			return false
		}
	}
	return true
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
