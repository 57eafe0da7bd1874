package partials

import (
	"testing"

	"github.com/cwbudde/algo-partials/dsp/envelope"
	"github.com/cwbudde/algo-partials/internal/testutil"
)

func TestFitAttackProfileRecoversKnownProfile(t *testing.T) {
	tests := []struct {
		profile float64
		n       int
	}{
		{3.5, 20},
		{3.5, 48},
		{0.5, 20},
		{7.0, 48},
		{-1.4, 20},
	}

	for _, tc := range tests {
		const mid = 0.8
		target := envelope.Scaled(nil, tc.n, tc.profile, mid)

		got, err := fitAttackProfile(target, mid, DefaultFitConfig())
		if err != nil {
			t.Fatalf("p=%g n=%d: %v", tc.profile, tc.n, err)
		}
		if !got.converged {
			t.Fatalf("p=%g n=%d: not converged (%s)", tc.profile, tc.n, got.reason)
		}
		testutil.RequireNear(t, "profile", got.profile, tc.profile, 1e-6)
	}
}

func TestFitAttackProfileStaysInBounds(t *testing.T) {
	// A flat target at twice the median pulls the profile past the upper bound.
	target := testutil.Constant(2, 24)
	cfg := DefaultFitConfig()

	got, err := fitAttackProfile(target, 1, cfg)
	if err != nil {
		t.Fatalf("fitAttackProfile: %v", err)
	}
	if got.profile < cfg.MinProfile || got.profile > cfg.MaxProfile {
		t.Fatalf("profile %g outside [%g, %g]", got.profile, cfg.MinProfile, cfg.MaxProfile)
	}
}
