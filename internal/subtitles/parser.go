package subtitles

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"subspeak/internal/services"
)

const timingSeparator = " --> "

var errConsumed = errors.New("cue sequence already consumed")

// Options controls subtitle parsing.
type Options struct {
	// Name identifies the input in error messages.
	Name string
	// MultiLine accepts any number of text lines per SRT block.
	MultiLine bool
	// CueSeconds is the slot length of one plain text line.
	CueSeconds float64
}

// Source yields cues in input order.
type Source interface {
	Cues() iter.Seq2[Cue, error]
}

// SRTParser reads SubRip subtitles.
type SRTParser struct {
	r        io.Reader
	opts     Options
	consumed bool
}

// NewSRTParser returns a parser reading from r.
func NewSRTParser(r io.Reader, opts Options) *SRTParser {
	if opts.Name == "" {
		opts.Name = "subtitles"
	}
	return &SRTParser{r: r, opts: opts}
}

// Cues returns the lazy cue sequence. The sequence can be ranged over once;
// later calls yield a single error. Iteration stops at the first error.
func (p *SRTParser) Cues() iter.Seq2[Cue, error] {
	return func(yield func(Cue, error) bool) {
		if p.consumed {
			yield(Cue{}, services.Wrap(services.ErrIO, "read subtitles", p.opts.Name, errConsumed))
			return
		}
		p.consumed = true
		if p.opts.MultiLine {
			p.blocks(yield)
			return
		}
		p.strict(yield)
	}
}

// strict walks the fixed index/timing/text/blank cycle. A timing line that
// does not split into two halves keeps the previous cue's times.
func (p *SRTParser) strict(yield func(Cue, error) bool) {
	scanner := newLineScanner(p.r)
	var (
		lineNo     int
		emitted    int
		start, end float64
		text       string
	)
	emit := func() bool {
		emitted++
		return yield(Cue{Index: emitted, Start: start, End: end, Text: text}, nil)
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		switch lineNo % 4 {
		case 1:
			// index line
		case 2:
			s, e, ok, err := parseTiming(line)
			if err != nil {
				yield(Cue{}, p.lineError(lineNo, err))
				return
			}
			if ok {
				start, end = s, e
			}
		case 3:
			text = line
		case 0:
			if text != "" && !emit() {
				return
			}
			text = ""
		}
	}
	if err := scanner.Err(); err != nil {
		yield(Cue{}, services.Wrap(services.ErrIO, "read subtitles", p.opts.Name, err))
		return
	}
	if text != "" {
		emit()
	}
}

type blockState int

const (
	expectIndex blockState = iota
	expectTiming
	inText
)

// blocks reads blank-line separated blocks whose text may span several lines.
func (p *SRTParser) blocks(yield func(Cue, error) bool) {
	scanner := newLineScanner(p.r)
	var (
		lineNo     int
		emitted    int
		start, end float64
		lines      []string
		state      = expectIndex
	)
	flush := func() bool {
		text := strings.Join(lines, " ")
		lines = lines[:0]
		if text == "" {
			return true
		}
		emitted++
		return yield(Cue{Index: emitted, Start: start, End: end, Text: text}, nil)
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNo++
		blank := strings.TrimSpace(line) == ""
		switch state {
		case expectIndex:
			if !blank {
				state = expectTiming
			}
		case expectTiming:
			if blank {
				state = expectIndex
				continue
			}
			s, e, ok, err := parseTiming(line)
			if err != nil {
				yield(Cue{}, p.lineError(lineNo, err))
				return
			}
			if ok {
				start, end = s, e
			}
			state = inText
		case inText:
			if blank {
				if !flush() {
					return
				}
				state = expectIndex
				continue
			}
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		yield(Cue{}, services.Wrap(services.ErrIO, "read subtitles", p.opts.Name, err))
		return
	}
	flush()
}

func (p *SRTParser) lineError(lineNo int, err error) error {
	return fmt.Errorf("%s line %d: %w", p.opts.Name, lineNo, err)
}

func parseTiming(line string) (start, end float64, ok bool, err error) {
	parts := strings.Split(line, timingSeparator)
	if len(parts) != 2 {
		return 0, 0, false, nil
	}
	if start, err = ParseTimestamp(parts[0]); err != nil {
		return 0, 0, false, err
	}
	if end, err = ParseTimestamp(parts[1]); err != nil {
		return 0, 0, false, err
	}
	return start, end, true, nil
}
