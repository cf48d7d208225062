// Package cas implements the content-addressed build cache and the dependency tracker.
package cas

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"go.trai.ch/xo/internal/adapters/fs"
	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxRecordSize bounds a single persisted line. Longer lines are skipped.
const maxRecordSize = 1 << 20

// readRecords decodes one JSON value per line from path into fresh T values.
// A missing file yields no records. Lines that fail to decode are skipped and
// counted; they never abort the load.
func readRecords[T any](path string, accept func(T) bool) (skipped int, err error) {
	//nolint:gosec // Path is constructed from the configured state directory
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	r := bufio.NewReaderSize(f, 64*1024)
	var line []byte
	oversized := false
	for {
		chunk, isPrefix, readErr := r.ReadLine()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return skipped, nil
			}
			return skipped, zerr.With(zerr.Wrap(readErr, domain.ErrCacheReadFailed.Error()), "path", path)
		}
		if !oversized {
			line = append(line, chunk...)
			if len(line) > maxRecordSize {
				oversized, line = true, line[:0]
			}
		}
		if isPrefix {
			continue
		}

		if oversized {
			skipped++
		} else if record := bytes.TrimSpace(line); len(record) > 0 && !decodeRecord(record, accept) {
			skipped++
		}
		line, oversized = line[:0], false
	}
}

func decodeRecord[T any](line []byte, accept func(T) bool) bool {
	var record T
	return json.Unmarshal(line, &record) == nil && accept(record)
}

// writeRecords encodes records one per line and replaces path atomically.
func writeRecords[T any](path string, records []T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
		}
	}
	if err := fs.WriteFileAtomic(path, buf.Bytes(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}
