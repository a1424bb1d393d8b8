package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/975125089bb/flutter-app/core"
	"github.com/975125089bb/flutter-app/storage/file"
)

// utf8BOM lets spreadsheet tools detect the encoding of CJK text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSV writes the accumulated records as a full snapshot on every flush.
type CSV struct {
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a CSV sink.
type Option func(*CSV)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CSV) {
		c.logger = logger
	}
}

// WithClock replaces the time source used to recompute ages on Load.
func WithClock(now func() time.Time) Option {
	return func(c *CSV) {
		c.now = now
	}
}

// NewCSV returns a sink writing to path.
func NewCSV(path string, opts ...Option) *CSV {
	c := &CSV{
		path:   path,
		now:    time.Now,
		logger: slog.Default().With("component", "csv-sink"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the output file location.
func (c *CSV) Path() string {
	return c.path
}

// Flush atomically replaces the output file with records. A crash during a
// flush leaves the previous snapshot in place.
func (c *CSV) Flush(ctx context.Context, records []*core.Record) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := core.ValidateRecord(r); err != nil {
			return fmt.Errorf("flush %s: %w", c.path, err)
		}
		if err := w.Write(toRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := file.WriteAtomic(ctx, c.path, &buf, 0o644); err != nil {
		return fmt.Errorf("flush %s: %w", c.path, err)
	}
	c.logger.Debug("snapshot written", "path", c.path, "records", len(records))
	return nil
}

// Load reads a snapshot written by Flush. It returns (nil, nil) when the
// file does not exist. Derived columns are recomputed rather than trusted.
func (c *CSV) Load(ctx context.Context) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", c.path, err)
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("%s: %w", c.path, ErrHeaderMismatch)
	}

	now := c.now()
	var records []*core.Record
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.path, err)
		}
		rec, err := fromRow(row, now)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", c.path, line, err)
		}
		records = append(records, rec)
	}

	c.logger.Debug("snapshot loaded", "path", c.path, "records", len(records))
	return records, nil
}
