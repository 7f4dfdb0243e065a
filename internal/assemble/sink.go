package assemble

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
	"subspeak/internal/services"
)

// ErrLocked reports that another run holds the output lock.
var ErrLocked = errors.New("output is locked by another run")

// ErrClosed reports use of a sink after Commit or Abort.
var ErrClosed = errors.New("sink already finished")

// Sink receives segments in output order.
type Sink interface {
	WriteSegment(seg audio.Segment) error
	// Commit finalizes the output. The sink cannot be written afterwards.
	Commit() error
	// Abort discards what the strategy can discard and releases resources.
	Abort() error
	// Close aborts an unfinished sink and is a no-op otherwise.
	Close() error
	// Written returns the bytes accepted so far.
	Written() int64
}

// Options selects the assembly strategy.
type Options struct {
	Staged     bool
	StagingDir string
	Logger     *slog.Logger
}

// Open locks output and returns a sink for the configured strategy.
func Open(output string, opts Options) (Sink, error) {
	if output == "" {
		return nil, services.Wrap(services.ErrIO, "open output", "empty path", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "assemble")

	lock, err := acquireLock(output)
	if err != nil {
		return nil, err
	}

	var sink Sink
	if opts.Staged {
		sink, err = newStaged(output, opts.StagingDir, lock, logger)
	} else {
		sink, err = newDirect(output, lock, logger)
	}
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return sink, nil
}

func acquireLock(output string) (*flock.Flock, error) {
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrIO, "create output directory", dir, err)
		}
	}
	lock := flock.New(output + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "acquire output lock", output, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrIO, "acquire output lock", output, ErrLocked)
	}
	return lock, nil
}

func releaseLock(lock *flock.Flock, logger *slog.Logger) {
	if lock == nil {
		return
	}
	if err := lock.Unlock(); err != nil {
		logger.Warn("failed to release output lock",
			logging.String("lock", lock.Path()),
			logging.Error(err),
		)
	}
}

func writeError(path string, seg audio.Segment, err error) error {
	return services.Wrap(services.ErrIO, "write "+seg.Kind.String(), fmt.Sprintf("%s (%d bytes)", path, len(seg.Data)), err)
}
