package partials

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// Collection owns the partials parsed from one file and their shared time
// axis. After ReadFromFile or Read the partials are characterized and sorted
// by ascending MidFreq; index i is harmonic rank i.
type Collection struct {
	partialsCount int
	frameCount    int
	time          []float64
	partials      []*Partial
}

// ReadFromFile reads, characterizes and sorts the partials stored in a SPEAR
// par-text-frame-format file. The whole file is loaded into memory first.
func ReadFromFile(path string, opts ...Option) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read partials file: %w", err)
	}

	c, err := Read(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a par-text-frame-format stream and characterizes the result.
// Header problems return a *FormatError, frame problems a *FrameError; in
// both cases no collection is returned.
func Read(r io.Reader, opts ...Option) (*Collection, error) {
	cfg := ApplyOptions(opts...)

	c, err := parse(r)
	if err != nil {
		return nil, err
	}

	if err := c.characterize(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func parse(r io.Reader) (*Collection, error) {
	lr := newLineReader(r)

	h, err := readHeader(lr)
	if err != nil {
		return nil, err
	}

	c := &Collection{
		partialsCount: h.partials,
		frameCount:    h.frames,
		time:          make([]float64, 0, h.frames),
		partials:      make([]*Partial, h.partials),
	}
	for i := range c.partials {
		c.partials[i] = NewPartial(h.frames)
	}

	if err := newFrameReader(c).readAll(lr); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Collection) characterize(cfg Config) error {
	for i, p := range c.partials {
		p.CalcFreqRange(cfg.RangePolicy)
		if err := p.characterize(c.time, cfg); err != nil {
			return fmt.Errorf("partial %d: %w", i, err)
		}
	}

	sort.SliceStable(c.partials, func(a, b int) bool {
		return c.partials[a].MidFreq < c.partials[b].MidFreq
	})

	cfg.Logger.Debug("partials characterized",
		"partials", c.partialsCount,
		"frames", c.frameCount,
	)
	return nil
}

// PartialsCount returns the number of partials declared in the header.
func (c *Collection) PartialsCount() int { return c.partialsCount }

// FrameCount returns the number of frames declared in the header.
func (c *Collection) FrameCount() int { return c.frameCount }

// Time returns the shared time axis. The slice must not be modified.
func (c *Collection) Time() []float64 { return c.time }

// Partials returns the partials sorted by ascending MidFreq. The slice and
// its elements must not be modified.
func (c *Collection) Partials() []*Partial { return c.partials }

// Fundamental returns the MidFreq of the lowest partial with a non-zero mean
// frequency, or 0 if none was detected.
func (c *Collection) Fundamental() float64 {
	for _, p := range c.partials {
		if p.MidFreq > 0 {
			return p.MidFreq
		}
	}
	return 0
}
