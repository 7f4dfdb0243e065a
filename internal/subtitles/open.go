package subtitles

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"subspeak/internal/services"
)

// Input formats understood by Open.
const (
	FormatAuto = "auto"
	FormatSRT  = "srt"
	FormatText = "txt"
)

// File is an opened subtitle input bound to the parser for its format.
type File struct {
	Path   string
	Format string

	file   *os.File
	source Source
}

// DetectFormat resolves the requested format. Auto (or empty) picks plain
// text for .txt files and SRT for everything else.
func DetectFormat(path, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatAuto:
		if strings.EqualFold(filepath.Ext(path), ".txt") {
			return FormatText, nil
		}
		return FormatSRT, nil
	case FormatSRT:
		return FormatSRT, nil
	case FormatText, "text":
		return FormatText, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "subtitle format", fmt.Sprintf("unsupported value %q", format), nil)
	}
}

// Open opens path and prepares a parser for format.
func Open(path, format string, opts Options) (*File, error) {
	resolved, err := DetectFormat(path, format)
	if err != nil {
		return nil, err
	}
	handle, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "open subtitles", path, err)
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(path)
	}

	f := &File{Path: path, Format: resolved, file: handle}
	if resolved == FormatText {
		f.source = NewTextParser(handle, opts)
	} else {
		f.source = NewSRTParser(handle, opts)
	}
	return f, nil
}

// Cues returns the file's lazy cue sequence.
func (f *File) Cues() iter.Seq2[Cue, error] {
	return f.source.Cues()
}

// Close releases the underlying file.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Count parses the whole input and returns the number of cues it yields.
func Count(path, format string, opts Options) (int, error) {
	f, err := Open(path, format, opts)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	for _, err := range f.Cues() {
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
