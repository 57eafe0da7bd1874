package partials

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-partials/dsp/envelope"
	"github.com/cwbudde/algo-partials/internal/lsq"
)

// minFitSamples is the shortest onset segment the profile is fitted to.
const minFitSamples = 2

type profileFit struct {
	profile    float64
	iterations int
	converged  bool
	reason     string
}

// fitAttackProfile fits midLevel*envelope.AttackGain(len(target), p) to
// target within the configured bounds.
func fitAttackProfile(target []float64, midLevel float64, cfg FitConfig) (profileFit, error) {
	n := len(target)
	model := make([]float64, 0, n)

	problem := lsq.Problem{
		Residuals: n,
		Func: func(dst, params []float64) {
			model = envelope.Scaled(model, n, params[0], midLevel)
			vecmath.ScaleBlock(dst, target, -1)
			vecmath.AddBlockInPlace(dst, model)
		},
		Lower: []float64{cfg.MinProfile},
		Upper: []float64{cfg.MaxProfile},
	}

	res, err := lsq.Solve(problem, []float64{cfg.InitialProfile}, lsq.Config{
		MaxIterations: cfg.MaxIterations,
		XTol:          cfg.XTol,
		FTol:          cfg.FTol,
		GTol:          cfg.GTol,
	})
	if err != nil {
		return profileFit{}, fmt.Errorf("fit attack profile: %w", err)
	}

	return profileFit{
		profile:    res.Params[0],
		iterations: res.Iterations,
		converged:  res.Converged,
		reason:     res.Reason.String(),
	}, nil
}
