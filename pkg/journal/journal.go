package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultPath is the log file used when none is configured.
const DefaultPath = "tags.jsonl"

// ErrEmptyPath is returned when a journal is opened without a path.
var ErrEmptyPath = errors.New("journal: path is required")

// Options configures a Journal.
type Options struct {
	Perm   os.FileMode
	Logger *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithPerm sets the file mode used when the log file is created.
func WithPerm(perm os.FileMode) Option {
	return func(o *Options) {
		if perm != 0 {
			o.Perm = perm
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Journal appends JSON values to a newline-delimited log file. Each Append
// opens the file in append mode, holds an exclusive advisory lock for the
// duration of a single write, and closes the file. Lines from concurrent
// writers never interleave.
type Journal struct {
	path   string
	perm   os.FileMode
	logger *zap.Logger
}

// Open prepares a journal at path, creating parent directories as needed.
// The file itself is created on first append.
func Open(path string, opts ...Option) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyPath
	}
	options := Options{Perm: 0o644, Logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory %q: %w", dir, err)
		}
	}
	return &Journal{path: path, perm: options.Perm, logger: options.Logger}, nil
}

// Path returns the log file location.
func (j *Journal) Path() string { return j.path }

// Append marshals v and writes it as one line.
func (j *Journal) Append(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("journal: encode record: %w", err)
	}
	line := append(payload, '\n')

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, j.perm)
	if err != nil {
		return fmt.Errorf("journal: open %q: %w", j.path, err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return fmt.Errorf("journal: lock %q: %w", j.path, err)
	}

	n, writeErr := f.Write(line)
	unlockErr := unlockFile(f)
	closeErr := f.Close()

	switch {
	case writeErr != nil:
		return fmt.Errorf("journal: write %q: %w", j.path, writeErr)
	case n != len(line):
		return fmt.Errorf("journal: write %q: %w", j.path, io.ErrShortWrite)
	case unlockErr != nil:
		return fmt.Errorf("journal: unlock %q: %w", j.path, unlockErr)
	case closeErr != nil:
		return fmt.Errorf("journal: close %q: %w", j.path, closeErr)
	}
	j.logger.Debug("record appended", zap.String("path", j.path), zap.Int("bytes", len(line)))
	return nil
}

// ReadAll decodes every line of the log at path into T. A missing file
// yields no records.
func ReadAll[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	defer f.Close()
	return Decode[T](f)
}

// Decode reads newline-delimited JSON values from r. Blank lines are
// skipped.
func Decode[T any](r io.Reader) ([]T, error) {
	var out []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("journal: line %d: %w", lineNo, err)
		}
		out = append(out, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("journal: scan: %w", err)
	}
	return out, nil
}
