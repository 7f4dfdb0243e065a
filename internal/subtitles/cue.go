package subtitles

// Cue is a single timed subtitle entry. Start and End are seconds from the
// beginning of the track. Index is the 1-based emission ordinal, not the
// index line from the file.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the nominal length of the cue.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Span renders the cue's time range in SRT notation.
func (c Cue) Span() string {
	return FormatTimestamp(c.Start) + timingSeparator + FormatTimestamp(c.End)
}
