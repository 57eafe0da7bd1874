package aggregate

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-partials/internal/testutil"
	"github.com/cwbudde/algo-partials/partials"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Harmonics = 3
	cfg.Notes = 4
	return cfg
}

func TestBuildDescriptorsDefaultsAndMask(t *testing.T) {
	notes := [][]Descriptor{
		{
			{MidLevel: 1, LevelRandomization: 2, Attack: 0.2, AttackProfile: 1.5, Fit: partials.FitConverged},
			{MidLevel: 0.1, LevelRandomization: 1, Attack: 0.03, AttackProfile: 2, Fit: partials.FitConverged},
		},
		nil,
		{
			{MidLevel: 0, LevelRandomization: 0.5, Attack: 0.9, AttackProfile: 9, Fit: partials.FitConverged},
		},
	}

	res, err := BuildDescriptors(smallConfig(), notes)
	if err != nil {
		t.Fatalf("BuildDescriptors: %v", err)
	}
	if len(res.Level) != 3 || len(res.Level[0].Values) != 4 {
		t.Fatalf("shape = %d x %d, want 3 x 4", len(res.Level), len(res.Level[0].Values))
	}

	// Harmonic 0: slot 0 present, slot 2 silent but listed.
	if res.Level[0].Mask != 0b0001 {
		t.Fatalf("h0 mask = %b, want 0001", res.Level[0].Mask)
	}
	testutil.RequireSliceNearlyEqual(t, res.Level[0].Values, []float64{0, -100, -100, -100}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, res.Randomization[0].Values, []float64{2, 0, 0.5, 0}, 0)
	testutil.RequireSliceNearlyEqual(t, res.Attack[0].Values, []float64{0.2, 0.05, 0.5, 0.05}, 0)
	testutil.RequireSliceNearlyEqual(t, res.Profile[0].Values, []float64{1.5, 0, 2.4, 0}, 0)

	// Harmonic 1: short attack drops the profile.
	testutil.RequireNear(t, "h1 level", res.Level[1].Values[0], -20, 1e-12)
	testutil.RequireNear(t, "h1 profile", res.Profile[1].Values[0], 0, 0)

	// Harmonic 2: no note has it.
	if res.Level[2].Mask != 0 {
		t.Fatalf("h2 mask = %b, want 0", res.Level[2].Mask)
	}
}

func TestBuildDescriptorsProfileRules(t *testing.T) {
	cfg := smallConfig()
	notes := [][]Descriptor{
		{{MidLevel: 1, Attack: 0.3, AttackProfile: -5, Fit: partials.FitConverged}},
		{{MidLevel: 1, Attack: 0.3, AttackProfile: 1, Fit: partials.FitNotConverged}},
		{{MidLevel: 1, Attack: 0.3, AttackProfile: 1, Fit: partials.FitSkipped}},
		{{MidLevel: 1, Attack: 0.05, AttackProfile: 1, Fit: partials.FitConverged}},
	}

	res, err := BuildDescriptors(cfg, notes)
	if err != nil {
		t.Fatalf("BuildDescriptors: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, res.Profile[0].Values, []float64{-1.2, 0, 0, 0}, 0)
	if res.Profile[0].Mask != 0b1111 {
		t.Fatalf("mask = %b, want 1111", res.Profile[0].Mask)
	}
}

func TestBuildDescriptorsErrors(t *testing.T) {
	cfg := smallConfig()
	if _, err := BuildDescriptors(cfg, make([][]Descriptor, 5)); !errors.Is(err, ErrTooManyNotes) {
		t.Fatalf("err = %v, want ErrTooManyNotes", err)
	}

	tests := []func(*Config){
		func(c *Config) { c.Notes = MaxSlots + 1 },
		func(c *Config) { c.Notes = 0 },
		func(c *Config) { c.Harmonics = 0 },
		func(c *Config) { c.MaxAttack = 0 },
		func(c *Config) { c.ProfileMin, c.ProfileMax = 1, -1 },
	}
	for i, mutate := range tests {
		c := DefaultConfig()
		mutate(&c)
		if _, err := BuildDescriptors(c, nil); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}

func TestBuildFullMask(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harmonics = 1
	cfg.Notes = MaxSlots
	notes := make([][]Descriptor, MaxSlots)
	for i := range notes {
		notes[i] = []Descriptor{{MidLevel: 1, Attack: 0.1}}
	}

	res, err := BuildDescriptors(cfg, notes)
	if err != nil {
		t.Fatalf("BuildDescriptors: %v", err)
	}
	if res.Level[0].Mask != math.MaxUint64 {
		t.Fatalf("mask = %x, want all bits", res.Level[0].Mask)
	}
}

func TestBuildFromCollections(t *testing.T) {
	time := testutil.FrameTimes(120, 0.01)
	f := testutil.Harmonic(time,
		[]float64{440, 220},
		[][]float64{testutil.Constant(0.1, 120), testutil.PluckedLevel(120)},
	)
	c, err := partials.Read(strings.NewReader(f.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	cfg := smallConfig()
	res, err := Build(cfg, []*partials.Collection{c, nil})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Sorted: the 220 Hz plucked partial is harmonic 0.
	testutil.RequireNear(t, "h0 attack", res.Attack[0].Values[0], 0.2, 1e-12)
	testutil.RequireNear(t, "h0 profile", res.Profile[0].Values[0], 2.4, 0)
	testutil.RequireNear(t, "h1 level", res.Level[1].Values[0], -20, 1e-9)
	if res.Level[0].Mask != 1 || res.Level[1].Mask != 1 {
		t.Fatalf("masks = %b, %b, want 1, 1", res.Level[0].Mask, res.Level[1].Mask)
	}
}

func TestWriteJSON(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harmonics = 1
	cfg.Notes = 2
	res, err := BuildDescriptors(cfg, [][]Descriptor{{{MidLevel: 1, Attack: 0.1}}})
	if err != nil {
		t.Fatalf("BuildDescriptors: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"h_lev\": [") {
		t.Fatalf("unexpected layout:\n%s", buf.String())
	}

	var decoded map[string][]struct {
		Mask   uint64    `json:"mask"`
		Values []float64 `json:"values"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"h_lev", "h_ran", "h_att", "h_atp"} {
		rows, ok := decoded[key]
		if !ok || len(rows) != 1 || rows[0].Mask != 1 || len(rows[0].Values) != 2 {
			t.Fatalf("%s = %+v", key, rows)
		}
	}
}
