package syncdrive

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"subspeak/internal/assemble"
	"subspeak/internal/audio"
	"subspeak/internal/logging"
	"subspeak/internal/services"
	"subspeak/internal/subtitles"
	"subspeak/internal/synth"
)

// Options wires the collaborators of a Driver.
type Options struct {
	Synthesizer synth.Synthesizer
	// Codec generates silence and, unless Prober is set, probes speech.
	Codec  audio.Codec
	Prober audio.Prober
	Sink   assemble.Sink
	// Request carries the run-wide voice, engine and codec.
	Request synth.Request
	// Lookahead is the number of cues synthesized ahead of the writer.
	Lookahead int
	Logger    *slog.Logger
	Observer  Observer
}

// Driver synchronizes one run of cues into a sink.
type Driver struct {
	synth     synth.Synthesizer
	codec     audio.Codec
	prober    audio.Prober
	sink      assemble.Sink
	request   synth.Request
	lookahead int
	logger    *slog.Logger
	observer  Observer

	playhead float64
	summary  Summary
}

// New validates opts and returns a Driver.
func New(opts Options) (*Driver, error) {
	if opts.Synthesizer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "create driver", "synthesizer is required", nil)
	}
	if opts.Codec == nil {
		return nil, services.Wrap(services.ErrConfiguration, "create driver", "codec is required", nil)
	}
	if opts.Sink == nil {
		return nil, services.Wrap(services.ErrConfiguration, "create driver", "sink is required", nil)
	}
	if opts.Lookahead < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "create driver", fmt.Sprintf("negative lookahead %d", opts.Lookahead), nil)
	}
	prober := opts.Prober
	if prober == nil {
		prober = opts.Codec
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{
		synth:     opts.Synthesizer,
		codec:     opts.Codec,
		prober:    prober,
		sink:      opts.Sink,
		request:   opts.Request,
		lookahead: opts.Lookahead,
		logger:    logging.NewComponentLogger(logger, "syncdrive"),
		observer:  opts.Observer,
	}, nil
}

// Playhead returns the current nominal timeline position.
func (d *Driver) Playhead() float64 {
	return d.playhead
}

// Run consumes cues in order and writes speech and silence to the sink. The
// sink is neither committed nor aborted; that is the caller's decision. Any
// error stops the run and the partial output must be discarded.
func (d *Driver) Run(ctx context.Context, cues iter.Seq2[subtitles.Cue, error]) (Summary, error) {
	d.playhead = 0
	d.summary = Summary{}
	logger := logging.WithContext(ctx, d.logger)

	logger.Info("synchronization started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("codec", d.codec.Name()),
		logging.String("voice", d.request.Voice),
		logging.String("engine", d.request.Engine),
		logging.Int("lookahead", d.lookahead),
	)

	var err error
	if d.lookahead > 0 {
		err = d.runPipelined(ctx, cues)
	} else {
		err = d.runSequential(ctx, cues)
	}
	d.summary.Playhead = d.playhead
	d.summary.BytesWritten = d.sink.Written()

	if err != nil {
		logger.Error("synchronization failed",
			logging.String(logging.FieldEventType, "run_failure"),
			logging.Int("cues_written", d.summary.Cues),
			logging.Seconds("playhead", d.playhead),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, errorHint(err)),
		)
		return d.summary, err
	}

	logger.Info("synchronization finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("cues", d.summary.Cues),
		logging.Int("skipped", d.summary.Skipped),
		logging.Seconds("speech", d.summary.SpeechSeconds),
		logging.Seconds("silence", d.summary.SilenceSeconds),
		logging.Seconds("playhead", d.playhead),
		logging.Seconds("max_overrun", d.summary.MaxOverrun),
	)
	return d.summary, nil
}

func (d *Driver) runSequential(ctx context.Context, cues iter.Seq2[subtitles.Cue, error]) error {
	for cue, err := range cues {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrIO, "synchronize", "run cancelled", err)
		}
		if skipCue(cue) {
			d.skip(ctx, cue)
			continue
		}
		speech := func(cueCtx context.Context) ([]byte, error) {
			return d.synthesize(cueCtx, cue)
		}
		if err := d.place(ctx, cue, speech); err != nil {
			return err
		}
	}
	return nil
}

// place applies the playhead rules to one cue. speech is called after the
// leading silence is written.
func (d *Driver) place(ctx context.Context, cue subtitles.Cue, speech func(context.Context) ([]byte, error)) error {
	cueCtx := services.WithCueIndex(ctx, cue.Index)
	res := CueResult{Cue: cue}
	frames := 0

	if d.playhead < cue.Start {
		res.Leading = cue.Start - d.playhead
		n, err := d.writeSilence(cue, res.Leading)
		if err != nil {
			return err
		}
		frames += n
	}

	data, err := speech(cueCtx)
	if err != nil {
		return err
	}
	duration, err := d.prober.Duration(cueCtx, data)
	if err != nil {
		return cueError(services.ErrDecode, cue, "probe speech", err)
	}
	if err := d.sink.WriteSegment(audio.Speech(data, duration)); err != nil {
		return cueError(services.ErrIO, cue, "write speech", err)
	}
	res.Speech = duration

	d.playhead = max(d.playhead, cue.Start) + duration
	if d.playhead < cue.End {
		res.Trailing = cue.End - d.playhead
		n, err := d.writeSilence(cue, res.Trailing)
		if err != nil {
			return err
		}
		frames += n
		d.playhead = cue.End
	} else {
		res.Overrun = d.playhead - cue.End
	}
	res.Playhead = d.playhead
	d.summary.add(res, frames)

	logger := logging.WithContext(cueCtx, d.logger)
	logger.Debug("cue placed",
		logging.String("span", cue.Span()),
		logging.Seconds("leading_silence", res.Leading),
		logging.Seconds("speech", res.Speech),
		logging.Seconds("trailing_silence", res.Trailing),
		logging.Seconds("playhead", res.Playhead),
	)
	if res.Overrun > 0 {
		logger.Debug("speech overran cue",
			logging.String("span", cue.Span()),
			logging.Seconds("overrun", res.Overrun),
			logging.Alert("cue_overrun"),
		)
	}
	if d.observer != nil {
		d.observer(res)
	}
	return nil
}

func (d *Driver) writeSilence(cue subtitles.Cue, seconds float64) (int, error) {
	seg := audio.Silence(d.codec, seconds)
	if err := d.sink.WriteSegment(seg); err != nil {
		return 0, cueError(services.ErrIO, cue, "write silence", err)
	}
	d.summary.SilenceSeconds += seg.Duration
	return seg.Frames, nil
}

func (d *Driver) synthesize(ctx context.Context, cue subtitles.Cue) ([]byte, error) {
	data, err := d.synth.Synthesize(ctx, d.request.WithText(cue.Text))
	if err != nil {
		return nil, cueError(services.ErrSynthesis, cue, "synthesize", err)
	}
	return data, nil
}

func (d *Driver) skip(ctx context.Context, cue subtitles.Cue) {
	d.summary.Skipped++
	logging.WithContext(services.WithCueIndex(ctx, cue.Index), d.logger).Debug("cue skipped",
		logging.String("span", cue.Span()),
		logging.String("reason", "empty text"),
	)
}

func skipCue(cue subtitles.Cue) bool {
	return strings.TrimSpace(cue.Text) == ""
}

// cueError prefixes err with the cue index and time range. Errors that
// already carry a kind keep it; untagged errors receive marker.
func cueError(marker error, cue subtitles.Cue, operation string, err error) error {
	label := fmt.Sprintf("cue %d (%s)", cue.Index, cue.Span())
	if services.Kind(err) != nil {
		return fmt.Errorf("%s: %s: %w", label, operation, err)
	}
	return services.Wrap(marker, operation, label, err)
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "run was cancelled; partial output must be discarded"
	case errors.Is(err, services.ErrFormat):
		return "fix the subtitle file at the reported line"
	case errors.Is(err, services.ErrSynthesis):
		return "check provider credentials, voice and engine"
	case errors.Is(err, services.ErrDecode):
		return "the provider returned audio in an unexpected format; check synthesis.codec"
	case errors.Is(err, services.ErrIO):
		return "check the input and output paths"
	default:
		return ""
	}
}
