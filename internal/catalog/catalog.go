package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Star is one catalog record. Coordinates are in degrees.
type Star struct {
	ID             uint32
	RightAscension float64
	Declination    float64
}

// Catalog is a fixed, ordered sequence of stars. It is fully populated by
// Load or Parse and never mutated afterwards; identity of a star is its
// index, not its ID field.
type Catalog []Star

const maxLineBytes = 1024 * 1024

// Load reads a whitespace-delimited star catalog from path.
func Load(path string, maxRecords int) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", path, err)
	}
	defer f.Close()

	cat, err := Parse(f, maxRecords)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %q: %w", path, err)
	}
	return cat, nil
}

// Parse reads records from r, one per line: ID, right ascension and
// declination separated by whitespace. Blank lines are skipped. A line with
// more than three columns or an unparsable field fails with its line number.
// maxRecords caps the number of records accepted (0 = unlimited).
func Parse(r io.Reader, maxRecords int) (Catalog, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var cat Catalog
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", lineNo, len(fields))
		}

		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q", lineNo, fields[0])
		}
		ra, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid right ascension %q", lineNo, fields[1])
		}
		dec, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid declination %q", lineNo, fields[2])
		}

		if maxRecords > 0 && len(cat) >= maxRecords {
			return nil, fmt.Errorf("line %d: catalog exceeds record cap %d", lineNo, maxRecords)
		}
		cat = append(cat, Star{ID: uint32(id), RightAscension: ra, Declination: dec})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	return cat, nil
}
