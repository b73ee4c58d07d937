// Package extract reads source CSV exports from object storage and
// materializes them as in-memory tables.
//
// Parsing is deliberately lenient: official exports vary in delimiter,
// encoding (the police exports are windows-1250) and column count per
// row. Schema decisions (renames, drops, key column) come from the
// unit configuration; everything downstream operates on the resulting
// table.Table.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"geosync/core/storage"
	"geosync/core/table"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source describes one CSV export to read: where it lives and how to
// shape its columns.
type Source struct {
	// Name identifies the source in logs.
	Name string
	// Object is the storage object holding the CSV export.
	Object string
	// KeyColumn is the primary-key column after renames.
	KeyColumn string
	// Delimiter is the CSV field separator (default ";").
	Delimiter string
	// Encoding is the source character encoding (utf-8, windows-1250).
	Encoding string
	// Renames maps source column names to persisted column names.
	Renames map[string]string
	// Drops lists columns excluded from the result.
	Drops []string
}

// Extractor reads unit source objects into tables.
type Extractor struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewExtractor creates an extractor reading from the given bucket.
func NewExtractor(client storage.Client, bucket string, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Extract downloads and parses the unit's source object. The returned
// table carries the unit's key column and the renamed, filtered schema.
// An object with a header but no data rows yields an empty table.
func (e *Extractor) Extract(ctx context.Context, src Source) (table.Table, error) {
	obj, err := e.client.GetObject(ctx, e.bucket, src.Object, minio.GetObjectOptions{})
	if err != nil {
		return table.Table{}, fmt.Errorf("failed to get source object %s: %w", src.Object, err)
	}
	defer obj.Close()

	reader := csv.NewReader(decodeReader(obj, src.Encoding))
	reader.Comma = delimiter(src.Delimiter)
	reader.FieldsPerRecord = -1 // exports pad trailing fields inconsistently
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return table.New(src.KeyColumn), nil
	}
	if err != nil {
		return table.Table{}, fmt.Errorf("failed to read header of %s: %w", src.Object, err)
	}

	drops := make(map[string]struct{}, len(src.Drops))
	for _, d := range src.Drops {
		drops[d] = struct{}{}
	}

	// Map source columns to persisted columns; dropped columns keep
	// their position so row values still line up.
	names := make([]string, len(header))
	var columns []string
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if renamed, ok := src.Renames[name]; ok {
			name = renamed
		}
		if _, ok := drops[name]; ok {
			names[i] = ""
			continue
		}
		names[i] = name
		columns = append(columns, name)
	}

	out := table.New(src.KeyColumn, columns...)
	if !out.HasColumn(src.KeyColumn) {
		return table.Table{}, fmt.Errorf("source %s has no key column %q", src.Object, src.KeyColumn)
	}

	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Table{}, fmt.Errorf("failed to read row of %s: %w", src.Object, err)
		}

		rec := make(table.Record, len(columns))
		for i, name := range names {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = table.NormalizeValue(row[i])
			} else {
				rec[name] = nil
			}
		}
		if rec[src.KeyColumn] == nil {
			skipped++
			continue
		}
		out.Append(rec)
	}

	if skipped > 0 {
		e.logger.Warn("Skipped rows without key value",
			zap.String("unit", src.Name),
			zap.Int("skipped", skipped))
	}

	return out, nil
}

// decodeReader wraps the raw object stream with the unit's character
// decoder. UTF-8 passes through.
func decodeReader(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(encoding) {
	case "windows-1250", "cp1250":
		return transform.NewReader(r, charmap.Windows1250.NewDecoder())
	default:
		return r
	}
}

func delimiter(d string) rune {
	if d == "" {
		return ';'
	}
	return []rune(d)[0]
}
