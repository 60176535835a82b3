package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/flight-weather-insights/internal/table"
)

// FileSink writes each table as a CSV file into a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Save implements Sink. The file is replaced atomically.
func (s *FileSink) Save(ctx context.Context, t *table.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+t.Name()+"-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := t.WriteCSV(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", FileName(t), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", FileName(t), err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, FileName(t))); err != nil {
		return fmt.Errorf("replace %s: %w", FileName(t), err)
	}
	return nil
}

// Path returns where a table named name is written.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}
