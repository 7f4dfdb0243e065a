package syncdrive

import "subspeak/internal/subtitles"

// Summary reports the outcome of a run.
type Summary struct {
	// Cues counts cues that were synthesized and written.
	Cues int
	// Skipped counts cues with empty text.
	Skipped        int
	SpeechSeconds  float64
	SilenceSeconds float64
	SilenceFrames  int
	// Playhead is the nominal timeline position after the last cue.
	Playhead     float64
	TotalOverrun float64
	MaxOverrun   float64
	BytesWritten int64
}

// CueResult describes the timing decisions made for one cue.
type CueResult struct {
	Cue      subtitles.Cue
	Leading  float64
	Speech   float64
	Trailing float64
	Overrun  float64
	Playhead float64
}

// Observer is notified after each cue is written.
type Observer func(CueResult)

func (s *Summary) add(res CueResult, silenceFrames int) {
	s.Cues++
	s.SpeechSeconds += res.Speech
	s.SilenceFrames += silenceFrames
	s.Playhead = res.Playhead
	if res.Overrun > 0 {
		s.TotalOverrun += res.Overrun
		s.MaxOverrun = max(s.MaxOverrun, res.Overrun)
	}
}
