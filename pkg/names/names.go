// Package names reads the list of labels printed on the tags.
//
// The input is plain text with one name per line. Surrounding whitespace is
// trimmed and blank lines are ignored. UTF-8 and UTF-16 files with a byte
// order mark are both accepted, and every name is normalised to NFC so that
// names typed on different systems compare equal and render identically.
package names

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/tagsheet/pkg/errors"
)

// Parse reads labels from r.
func Parse(r io.Reader) ([]string, error) {
	// BOMOverride switches to UTF-16 when a UTF-16 BOM is present and strips a
	// UTF-8 BOM; input without a BOM passes through as UTF-8.
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(r, dec))

	var labels []string
	line := 0
	for sc.Scan() {
		line++
		label := strings.TrimSpace(sc.Text())
		if label == "" {
			continue
		}
		label = norm.NFC.String(label)
		if err := errors.ValidateLabel(label); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		labels = append(labels, label)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read names")
	}
	return labels, nil
}

// Read reads labels from the file at path. A missing file is reported as
// [errors.ErrCodeNamesNotFound].
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNamesNotFound, err, "names file %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	labels, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return labels, nil
}
