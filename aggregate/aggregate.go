package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-partials/partials"
	"github.com/cwbudde/algo-partials/stats/level"
)

// MaxSlots is the number of note slots a mask can address.
const MaxSlots = 64

// ErrTooManyNotes is returned when more notes are supplied than slots exist.
var ErrTooManyNotes = errors.New("aggregate: more notes than note slots")

// Config controls table size and value clamping.
type Config struct {
	Harmonics         int
	Notes             int
	LevelFloor        float64 // dB written for absent harmonics
	DefaultAttack     float64 // seconds
	MaxAttack         float64 // seconds
	MinProfiledAttack float64 // attacks at or below this carry profile 0
	ProfileMin        float64
	ProfileMax        float64
}

// DefaultConfig returns a 64-harmonic, 11-note layout.
func DefaultConfig() Config {
	return Config{
		Harmonics:         64,
		Notes:             11,
		LevelFloor:        -100,
		DefaultAttack:     0.05,
		MaxAttack:         0.5,
		MinProfiledAttack: 0.05,
		ProfileMin:        -1.2,
		ProfileMax:        2.4,
	}
}

// Validate checks the table dimensions and clamp ranges.
func (c Config) Validate() error {
	if c.Harmonics <= 0 {
		return fmt.Errorf("harmonics must be > 0: %d", c.Harmonics)
	}
	if c.Notes <= 0 || c.Notes > MaxSlots {
		return fmt.Errorf("notes must be in [1, %d]: %d", MaxSlots, c.Notes)
	}
	if c.MaxAttack <= 0 {
		return fmt.Errorf("max attack must be > 0: %g", c.MaxAttack)
	}
	if c.ProfileMin > c.ProfileMax {
		return fmt.Errorf("profile range is empty: [%g, %g]", c.ProfileMin, c.ProfileMax)
	}
	return nil
}

// Descriptor is the subset of a characterized partial used for aggregation.
type Descriptor struct {
	MidFreq            float64
	MidLevel           float64
	LevelRandomization float64
	Attack             float64
	AttackProfile      float64
	Fit                partials.FitStatus
}

// Describe extracts the descriptors of a collection in harmonic order.
func Describe(c *partials.Collection) []Descriptor {
	ps := c.Partials()
	out := make([]Descriptor, len(ps))
	for i, p := range ps {
		out[i] = Descriptor{
			MidFreq:            p.MidFreq,
			MidLevel:           p.MidLevel,
			LevelRandomization: p.LevelRandomization,
			Attack:             p.Attack,
			AttackProfile:      p.AttackProfile,
			Fit:                p.Fit,
		}
	}
	return out
}

// Row is one harmonic across all note slots.
type Row struct {
	Mask   uint64    `json:"mask"`
	Values []float64 `json:"values"`
}

// Result holds one row per harmonic for each descriptor table.
type Result struct {
	Level         []Row `json:"h_lev"`
	Randomization []Row `json:"h_ran"`
	Attack        []Row `json:"h_att"`
	Profile       []Row `json:"h_atp"`
}

// Build aggregates characterized collections, one per note slot, in slot
// order.
func Build(cfg Config, notes []*partials.Collection) (Result, error) {
	described := make([][]Descriptor, len(notes))
	for i, c := range notes {
		if c != nil {
			described[i] = Describe(c)
		}
	}
	return BuildDescriptors(cfg, described)
}

// BuildDescriptors is Build over pre-extracted descriptors. notes[i][h] is
// harmonic h of note slot i; missing notes or harmonics take the defaults.
func BuildDescriptors(cfg Config, notes [][]Descriptor) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if len(notes) > cfg.Notes {
		return Result{}, fmt.Errorf("%w: %d notes, %d slots", ErrTooManyNotes, len(notes), cfg.Notes)
	}

	res := Result{
		Level:         make([]Row, cfg.Harmonics),
		Randomization: make([]Row, cfg.Harmonics),
		Attack:        make([]Row, cfg.Harmonics),
		Profile:       make([]Row, cfg.Harmonics),
	}

	for h := range cfg.Harmonics {
		lev := make([]float64, cfg.Notes)
		ran := make([]float64, cfg.Notes)
		att := make([]float64, cfg.Notes)
		atp := make([]float64, cfg.Notes)

		var mask uint64
		for slot := range cfg.Notes {
			lev[slot] = cfg.LevelFloor
			att[slot] = cfg.DefaultAttack

			if slot >= len(notes) || h >= len(notes[slot]) {
				continue
			}
			d := notes[slot][h]

			if d.MidLevel > 0 {
				mask |= 1 << slot
				lev[slot] = level.AmplitudeDB(d.MidLevel, cfg.LevelFloor)
			}
			ran[slot] = d.LevelRandomization
			att[slot] = min(d.Attack, cfg.MaxAttack)
			atp[slot] = cfg.profile(d, att[slot])
		}

		res.Level[h] = Row{Mask: mask, Values: lev}
		res.Randomization[h] = Row{Mask: mask, Values: ran}
		res.Attack[h] = Row{Mask: mask, Values: att}
		res.Profile[h] = Row{Mask: mask, Values: atp}
	}
	return res, nil
}

// profile returns the clamped attack profile, or 0 when the attack is too
// short to carry one or the fit did not converge.
func (c Config) profile(d Descriptor, attack float64) float64 {
	if attack <= c.MinProfiledAttack || d.Fit != partials.FitConverged {
		return 0
	}
	return min(max(d.AttackProfile, c.ProfileMin), c.ProfileMax)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode aggregate: %w", err)
	}
	return nil
}
