package present

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
)

// DefaultFileName names a document after its range, e.g.
// "range_1_to_100.rtf".
func DefaultFileName(min, max int64) string {
	return fmt.Sprintf("range_%d_to_%d.rtf", min, max)
}

// ResolveOutputPath decides where a document lands. A filename with a
// directory component is honored as given. A bare filename goes under
// dir, and an empty one gets the range-based default; in both cases an
// existing file makes the name grow a _1, _2, ... suffix before the
// extension rather than being overwritten. Parent directories are
// created as needed.
func ResolveOutputPath(dir, filename string, min, max int64) (string, error) {
	if filename != "" && filepath.Dir(filename) != "." {
		full, err := filepath.Abs(filename)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrOutputCreate, "failed to resolve output path %s", filename)
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrOutputCreate, "failed to create output directory %s", filepath.Dir(full))
		}
		return full, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrOutputCreate, "failed to create output directory %s", dir)
	}

	if filename == "" {
		filename = DefaultFileName(min, max)
	}
	full := filepath.Join(dir, filename)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return full, nil
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		full = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if _, err := os.Stat(full); os.IsNotExist(err) {
			return full, nil
		}
	}
}

// SaveRTF writes the document to its resolved path and returns where
// it landed.
func SaveRTF(dir, filename string, min, max int64, records []rangecat.Record) (string, error) {
	log := logging.GetLogger("present")

	path, err := ResolveOutputPath(dir, filename, min, max)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrOutputCreate, "failed to create output file %s", path)
	}

	if err := WriteRTF(f, min, max, records); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, errors.ErrOutputWrite, "failed to flush output file %s", path)
	}

	log.Debug().
		Str("path", path).
		Int("records", len(records)).
		Msg("Saved analysis document")
	return path, nil
}
