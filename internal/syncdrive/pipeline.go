package syncdrive

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"subspeak/internal/services"
	"subspeak/internal/subtitles"
)

// synthesized is one slot of the lookahead buffer.
type synthesized struct {
	cue   subtitles.Cue
	audio []byte
	err   error
	// readErr ends the cue sequence; cue is unset.
	readErr error
}

// runPipelined synthesizes up to d.lookahead cues ahead of the writer. The
// producer stops at the first error and delivers it in cue order, so
// earlier cues are written before a later failure is reported.
func (d *Driver) runPipelined(ctx context.Context, cues iter.Seq2[subtitles.Cue, error]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan synthesized, d.lookahead)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(results)
		send := func(item synthesized) bool {
			select {
			case results <- item:
				return true
			case <-gctx.Done():
				return false
			}
		}
		for cue, err := range cues {
			if err != nil {
				send(synthesized{readErr: err})
				return nil
			}
			if gctx.Err() != nil {
				return nil
			}
			if skipCue(cue) {
				if !send(synthesized{cue: cue}) {
					return nil
				}
				continue
			}
			data, err := d.synthesize(services.WithCueIndex(gctx, cue.Index), cue)
			if !send(synthesized{cue: cue, audio: data, err: err}) || err != nil {
				return nil
			}
		}
		return nil
	})

	runErr := d.consume(ctx, results)
	cancel()
	for range results {
		// drain so the producer can observe cancellation
	}
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (d *Driver) consume(ctx context.Context, results <-chan synthesized) error {
	for item := range results {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrIO, "synchronize", "run cancelled", err)
		}
		if item.readErr != nil {
			return item.readErr
		}
		if skipCue(item.cue) {
			d.skip(ctx, item.cue)
			continue
		}
		speech := func(context.Context) ([]byte, error) {
			return item.audio, item.err
		}
		if err := d.place(ctx, item.cue, speech); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrIO, "synchronize", "run cancelled", err)
	}
	return nil
}
