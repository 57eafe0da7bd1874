package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Point is one partial reading inside a frame.
type Point struct {
	Index int
	Freq  float64
	Amp   float64
}

// Frame is one line of frame data.
type Frame struct {
	Time   float64
	Points []Point
}

// SpearFile builds par-text-frame-format text. FrameCount overrides the
// declared frame count when non-zero.
type SpearFile struct {
	Partials   int
	FrameCount int
	Frames     []Frame
}

// String renders the file.
func (f SpearFile) String() string {
	frames := f.FrameCount
	if frames == 0 {
		frames = len(f.Frames)
	}

	var b strings.Builder
	b.WriteString("par-text-frame-format\n")
	b.WriteString("point-type index frequency amplitude\n")
	b.WriteString("partials-count " + strconv.Itoa(f.Partials) + "\n")
	b.WriteString("frame-count " + strconv.Itoa(frames) + "\n")
	b.WriteString("frame-data\n")
	for _, fr := range f.Frames {
		b.WriteString(formatFloat(fr.Time))
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(len(fr.Points)))
		for _, p := range fr.Points {
			b.WriteString(" " + strconv.Itoa(p.Index))
			b.WriteString(" " + formatFloat(p.Freq))
			b.WriteString(" " + formatFloat(p.Amp))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteTemp writes the file into a test temp dir and returns its path.
func (f SpearFile) WriteTemp(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(f.String()), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Harmonic builds a SpearFile where partial k follows freqs[k] with the
// level trajectory levels[k]; every partial is listed in every frame.
func Harmonic(time []float64, freqs []float64, levels [][]float64) SpearFile {
	f := SpearFile{Partials: len(freqs)}
	for i, t := range time {
		fr := Frame{Time: t}
		for k := range freqs {
			fr.Points = append(fr.Points, Point{Index: k, Freq: freqs[k], Amp: levels[k][i]})
		}
		f.Frames = append(f.Frames, fr)
	}
	return f
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
