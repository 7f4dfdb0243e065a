package assemble

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
	"subspeak/internal/services"
	"subspeak/internal/staging"
)

// stagedSink writes to a temporary file and copies it into place on Commit.
type stagedSink struct {
	path    string
	tmp     *os.File
	lock    *flock.Flock
	logger  *slog.Logger
	written int64
	done    bool
}

func newStaged(path, stagingDir string, lock *flock.Flock, logger *slog.Logger) (*stagedSink, error) {
	if stagingDir != "" {
		if err := os.MkdirAll(stagingDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrIO, "create staging directory", stagingDir, err)
		}
	}
	tmp, err := os.CreateTemp(stagingDir, staging.PartPattern)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "create staging file", stagingDir, err)
	}
	logger.Debug("staging output", logging.String("staging_file", tmp.Name()), logging.String("path", path))
	return &stagedSink{path: path, tmp: tmp, lock: lock, logger: logger}, nil
}

func (s *stagedSink) WriteSegment(seg audio.Segment) error {
	if s.done {
		return services.Wrap(services.ErrIO, "write "+seg.Kind.String(), s.tmp.Name(), ErrClosed)
	}
	if len(seg.Data) == 0 {
		return nil
	}
	n, err := s.tmp.Write(seg.Data)
	s.written += int64(n)
	if err != nil {
		return writeError(s.tmp.Name(), seg, err)
	}
	return nil
}

// Commit rewinds the staging file and copies it into the destination in one pass.
func (s *stagedSink) Commit() error {
	if s.done {
		return services.Wrap(services.ErrIO, "commit output", s.path, ErrClosed)
	}
	s.done = true
	defer releaseLock(s.lock, s.logger)
	defer func() { _ = s.discard() }()

	if _, err := s.tmp.Seek(0, io.SeekStart); err != nil {
		return services.Wrap(services.ErrIO, "rewind staging file", s.tmp.Name(), err)
	}
	out, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return services.Wrap(services.ErrIO, "open output", s.path, err)
	}
	copied, err := io.Copy(out, s.tmp)
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(s.path)
		return services.Wrap(services.ErrIO, "copy staged output", s.path, err)
	}
	s.logger.Debug("output committed",
		logging.String("path", s.path),
		logging.Int64("bytes", copied),
	)
	return nil
}

// Abort removes the staging file; the destination is never touched.
func (s *stagedSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	defer releaseLock(s.lock, s.logger)
	return s.discard()
}

func (s *stagedSink) Close() error {
	return s.Abort()
}

func (s *stagedSink) Written() int64 {
	return s.written
}

func (s *stagedSink) discard() error {
	name := s.tmp.Name()
	closeErr := s.tmp.Close()
	if closeErr != nil && errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrIO, "remove staging file", name, err)
	}
	if closeErr != nil {
		return services.Wrap(services.ErrIO, "close staging file", name, closeErr)
	}
	return nil
}
