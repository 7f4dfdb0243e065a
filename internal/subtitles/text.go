package subtitles

import (
	"io"
	"iter"
	"strings"

	"subspeak/internal/services"
)

// DefaultCueSeconds is the slot length of a plain text line when none is configured.
const DefaultCueSeconds = 5.0

// TextParser reads plain text where each line is spoken in its own fixed
// slot: line i (0-based) spans [i*CueSeconds, (i+1)*CueSeconds). Blank lines
// keep their slot but produce no cue.
type TextParser struct {
	r        io.Reader
	opts     Options
	consumed bool
}

// NewTextParser returns a plain text parser reading from r.
func NewTextParser(r io.Reader, opts Options) *TextParser {
	if opts.Name == "" {
		opts.Name = "text"
	}
	if opts.CueSeconds <= 0 {
		opts.CueSeconds = DefaultCueSeconds
	}
	return &TextParser{r: r, opts: opts}
}

// Cues returns the lazy cue sequence.
func (p *TextParser) Cues() iter.Seq2[Cue, error] {
	return func(yield func(Cue, error) bool) {
		if p.consumed {
			yield(Cue{}, services.Wrap(services.ErrIO, "read text", p.opts.Name, errConsumed))
			return
		}
		p.consumed = true

		scanner := newLineScanner(p.r)
		slot := p.opts.CueSeconds
		emitted := 0
		for i := 0; scanner.Scan(); i++ {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			emitted++
			cue := Cue{
				Index: emitted,
				Start: float64(i) * slot,
				End:   float64(i+1) * slot,
				Text:  text,
			}
			if !yield(cue, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Cue{}, services.Wrap(services.ErrIO, "read text", p.opts.Name, err))
		}
	}
}
