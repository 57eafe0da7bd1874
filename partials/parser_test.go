package partials

import (
	"errors"
	"strings"
	"testing"

	"github.com/cwbudde/algo-partials/internal/testutil"
)

const validHeader = "par-text-frame-format\n" +
	"point-type index frequency amplitude\n" +
	"partials-count 2\n" +
	"frame-count 2\n" +
	"frame-data\n"

func TestReadZeroFillsMissingPartials(t *testing.T) {
	f := testutil.SpearFile{
		Partials: 2,
		Frames: []testutil.Frame{
			{Time: 0, Points: []testutil.Point{{Index: 0, Freq: 100, Amp: 1}, {Index: 1, Freq: 300, Amp: 0.5}}},
			{Time: 0.01, Points: []testutil.Point{{Index: 0, Freq: 100, Amp: 1}, {Index: 1, Freq: 300, Amp: 0.5}}},
			{Time: 0.02, Points: []testutil.Point{{Index: 0, Freq: 100, Amp: 1}}},
		},
	}

	c, err := Read(strings.NewReader(f.String()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if c.PartialsCount() != 2 || c.FrameCount() != 3 {
		t.Fatalf("counts = (%d, %d), want (2, 3)", c.PartialsCount(), c.FrameCount())
	}

	p := c.Partials()[1]
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if p.Level[2] != 0 || p.Freq[2] != 0 {
		t.Fatalf("frame 2 = (%v, %v), want zero fill", p.Freq[2], p.Level[2])
	}
	if p.Present[2] || !p.Present[0] || !p.Present[1] {
		t.Fatalf("Present = %v, want [true true false]", p.Present)
	}
	testutil.RequireSliceNearlyEqual(t, c.Time(), []float64{0, 0.01, 0.02}, 0)
}

func TestReadTrailingWhitespaceAndBlankTerminator(t *testing.T) {
	in := "par-text-frame-format  \r\n" +
		"point-type index frequency amplitude\n" +
		"partials-count 1\t\n" +
		"frame-count 1\n" +
		"frame-data\n" +
		"0.0 1 0 220.0 0.25   \n" +
		"\n" +
		"anything after the blank line is ignored\n"

	c, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := c.Partials()[0].Freq[0]; got != 220 {
		t.Fatalf("freq = %v, want 220", got)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"wrong tag", "par-text-partials-format\n", 1},
		{"wrong point type", "par-text-frame-format\npoint-type index amplitude frequency\n", 2},
		{"zero partials", "par-text-frame-format\npoint-type index frequency amplitude\npartials-count 0\n", 3},
		{"negative partials", "par-text-frame-format\npoint-type index frequency amplitude\npartials-count -2\n", 3},
		{"non-integer partials", "par-text-frame-format\npoint-type index frequency amplitude\npartials-count 2.5\n", 3},
		{"wrong key", "par-text-frame-format\npoint-type index frequency amplitude\nframe-count 2\n", 3},
		{"zero frames", "par-text-frame-format\npoint-type index frequency amplitude\npartials-count 1\nframe-count 0\n", 4},
		{"missing marker", "par-text-frame-format\npoint-type index frequency amplitude\npartials-count 1\nframe-count 1\nframes\n", 5},
		{"empty input", "", 1},
		{"truncated", "par-text-frame-format\npoint-type index frequency amplitude\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("err = %v, want ErrFormat", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %T, want *FormatError", err)
			}
			if fe.Line != tt.line {
				t.Fatalf("Line = %d, want %d", fe.Line, tt.line)
			}
		})
	}
}

func TestReadFrameErrors(t *testing.T) {
	tests := []struct {
		name   string
		frames string
	}{
		{"single token", "0\n0.01 0\n"},
		{"bad time", "abc 0\n0.01 0\n"},
		{"nan time", "NaN 0\n0.01 0\n"},
		{"bad count", "0 x\n0.01 0\n"},
		{"count exceeds partials", "0 3 0 1 1 1 1 1 0 1 1\n0.01 0\n"},
		{"negative count", "0 -1\n0.01 0\n"},
		{"short triple", "0 1 0 100\n0.01 0\n"},
		{"extra tokens", "0 1 0 100 1 7\n0.01 0\n"},
		{"index out of range", "0 1 2 100 1\n0.01 0\n"},
		{"negative index", "0 1 -1 100 1\n0.01 0\n"},
		{"duplicate index", "0 2 0 100 1 0 200 1\n0.01 0\n"},
		{"infinite amplitude", "0 1 0 100 +Inf\n0.01 0\n"},
		{"nan frequency", "0 1 0 nan 1\n0.01 0\n"},
		{"too few frames", "0 0\n"},
		{"too many frames", "0 0\n0.01 0\n0.02 0\n"},
		{"blank line before last frame", "0 0\n\n0.01 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Read(strings.NewReader(validHeader + tt.frames))
			if c != nil {
				t.Fatal("collection returned alongside error")
			}
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("err = %v, want ErrMalformedFrame", err)
			}
			var fe *FrameError
			if !errors.As(err, &fe) || fe.Line < 6 {
				t.Fatalf("err = %#v, want *FrameError past the header", err)
			}
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	_, err := Read(strings.NewReader("hello\n"))
	want := `partials: line 1: expected "par-text-frame-format", got "hello"`
	if err == nil || err.Error() != want {
		t.Fatalf("err = %v, want %s", err, want)
	}
}
