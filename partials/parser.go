package partials

import (
	"bufio"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	formatTag       = "par-text-frame-format"
	pointType       = "point-type index frequency amplitude"
	partialsCountID = "partials-count"
	frameCountID    = "frame-count"
	frameDataMarker = "frame-data"

	maxLineBytes = 64 << 20
)

type header struct {
	partials int
	frames   int
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineReader{sc: sc}
}

// next returns the next line with trailing whitespace removed. ok is false at
// end of input.
func (lr *lineReader) next() (string, bool, error) {
	if !lr.sc.Scan() {
		return "", false, lr.sc.Err()
	}
	lr.line++
	return strings.TrimRightFunc(lr.sc.Text(), isSpace), true, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

func readHeader(lr *lineReader) (header, error) {
	var h header

	if err := expectLiteral(lr, formatTag); err != nil {
		return h, err
	}
	if err := expectLiteral(lr, pointType); err != nil {
		return h, err
	}

	n, err := expectCount(lr, partialsCountID)
	if err != nil {
		return h, err
	}
	m, err := expectCount(lr, frameCountID)
	if err != nil {
		return h, err
	}

	if err := expectLiteral(lr, frameDataMarker); err != nil {
		return h, err
	}

	h.partials, h.frames = n, m
	return h, nil
}

func expectLiteral(lr *lineReader, want string) error {
	got, ok, err := lr.next()
	if err != nil {
		return err
	}
	if !ok {
		return &FormatError{Line: lr.line + 1, Want: strconv.Quote(want), Got: "<end of file>"}
	}
	if got != want {
		return &FormatError{Line: lr.line, Want: strconv.Quote(want), Got: got}
	}
	return nil
}

func expectCount(lr *lineReader, key string) (int, error) {
	want := strconv.Quote(key+" <N>") + " with N > 0"

	got, ok, err := lr.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &FormatError{Line: lr.line + 1, Want: want, Got: "<end of file>"}
	}

	fields := strings.Fields(got)
	if len(fields) != 2 || fields[0] != key {
		return 0, &FormatError{Line: lr.line, Want: want, Got: got}
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil || v <= 0 {
		return 0, &FormatError{Line: lr.line, Want: want, Got: got}
	}
	return v, nil
}

// frameReader expands sparse frame lines into the dense trajectories of a
// collection.
type frameReader struct {
	c    *Collection
	seen []int // frame number (1-based) in which each partial was last listed
}

func newFrameReader(c *Collection) *frameReader {
	return &frameReader{c: c, seen: make([]int, len(c.partials))}
}

func (fr *frameReader) readAll(lr *lineReader) error {
	for {
		line, ok, err := lr.next()
		if err != nil {
			return err
		}
		if !ok || line == "" {
			break
		}
		if err := fr.parseLine(lr.line, line); err != nil {
			return err
		}
	}

	if got := len(fr.c.time); got != fr.c.frameCount {
		return frameErrorf(lr.line, "header declares %d frames, file has %d", fr.c.frameCount, got)
	}
	return nil
}

//nolint:cyclop
func (fr *frameReader) parseLine(lineNo int, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return frameErrorf(lineNo, "expected <time> <count>, got %d tokens", len(tokens))
	}

	if len(fr.c.time) == fr.c.frameCount {
		return frameErrorf(lineNo, "more frames than the declared %d", fr.c.frameCount)
	}

	t, err := parseFinite(tokens[0])
	if err != nil {
		return frameErrorf(lineNo, "time %q: %v", tokens[0], err)
	}

	count, err := strconv.Atoi(tokens[1])
	if err != nil {
		return frameErrorf(lineNo, "partial count %q: %v", tokens[1], err)
	}
	nPartials := len(fr.c.partials)
	if count < 0 || count > nPartials {
		return frameErrorf(lineNo, "partial count %d outside [0, %d]", count, nPartials)
	}
	if want := 2 + 3*count; len(tokens) != want {
		return frameErrorf(lineNo, "%d partials need %d tokens, got %d", count, want, len(tokens))
	}

	frame := len(fr.c.time) + 1
	freqs := make([]float64, nPartials)
	amps := make([]float64, nPartials)

	for tok := 2; tok < len(tokens); tok += 3 {
		idx, err := strconv.Atoi(tokens[tok])
		if err != nil {
			return frameErrorf(lineNo, "partial index %q: %v", tokens[tok], err)
		}
		if idx < 0 || idx >= nPartials {
			return frameErrorf(lineNo, "partial index %d outside [0, %d)", idx, nPartials)
		}
		if fr.seen[idx] == frame {
			return frameErrorf(lineNo, "partial index %d listed twice", idx)
		}

		freq, err := parseFinite(tokens[tok+1])
		if err != nil {
			return frameErrorf(lineNo, "frequency %q: %v", tokens[tok+1], err)
		}
		amp, err := parseFinite(tokens[tok+2])
		if err != nil {
			return frameErrorf(lineNo, "amplitude %q: %v", tokens[tok+2], err)
		}

		fr.seen[idx] = frame
		freqs[idx] = freq
		amps[idx] = amp
	}

	fr.c.time = append(fr.c.time, t)
	for i, p := range fr.c.partials {
		p.Append(freqs[i], amps[i], fr.seen[i] == frame)
	}
	return nil
}

var errNotFinite = errors.New("value is not finite")

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
