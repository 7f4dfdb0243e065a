package assemble

import (
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"subspeak/internal/audio"
	"subspeak/internal/logging"
	"subspeak/internal/services"
)

// directSink appends straight to the destination. A failed run leaves a
// partial file that must be treated as invalid.
type directSink struct {
	path    string
	file    *os.File
	lock    *flock.Flock
	logger  *slog.Logger
	written int64
	done    bool
}

func newDirect(path string, lock *flock.Flock, logger *slog.Logger) (*directSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "open output", path, err)
	}
	return &directSink{path: path, file: file, lock: lock, logger: logger}, nil
}

func (s *directSink) WriteSegment(seg audio.Segment) error {
	if s.done {
		return services.Wrap(services.ErrIO, "write "+seg.Kind.String(), s.path, ErrClosed)
	}
	if len(seg.Data) == 0 {
		return nil
	}
	n, err := s.file.Write(seg.Data)
	s.written += int64(n)
	if err != nil {
		return writeError(s.path, seg, err)
	}
	return nil
}

func (s *directSink) Commit() error {
	if s.done {
		return services.Wrap(services.ErrIO, "commit output", s.path, ErrClosed)
	}
	s.done = true
	defer releaseLock(s.lock, s.logger)

	if err := s.file.Sync(); err != nil {
		_ = s.file.Close()
		return services.Wrap(services.ErrIO, "sync output", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		return services.Wrap(services.ErrIO, "close output", s.path, err)
	}
	s.logger.Debug("output committed",
		logging.String("path", s.path),
		logging.Int64("bytes", s.written),
	)
	return nil
}

func (s *directSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	defer releaseLock(s.lock, s.logger)

	s.logger.Warn("direct output left incomplete",
		logging.String("path", s.path),
		logging.Int64("bytes", s.written),
		logging.Alert("partial_output"),
		logging.String(logging.FieldImpact, "output file is truncated and must not be used"),
	)
	if err := s.file.Close(); err != nil {
		return services.Wrap(services.ErrIO, "close output", s.path, err)
	}
	return nil
}

func (s *directSink) Close() error {
	return s.Abort()
}

func (s *directSink) Written() int64 {
	return s.written
}
