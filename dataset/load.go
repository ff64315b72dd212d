package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

const maxLineBytes = 16 << 20

// Load parses exactly n records of d features from r.
func Load(r io.Reader, n, d int) (*Dataset, error) {
	if n <= 0 || d <= 0 {
		return nil, &DataFormatError{Reason: fmt.Sprintf("invalid shape %dx%d", n, d), Expected: 1, Actual: min(n, d)}
	}

	data := make([]float64, 0, n*d)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	records := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, isSeparator)
		if len(fields) != d {
			return nil, &DataFormatError{Line: line, Reason: "feature count mismatch", Expected: d, Actual: len(fields)}
		}
		if records == n {
			return nil, &DataFormatError{Line: line, Reason: "more records than configured", Expected: n, Actual: n + 1}
		}
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &DataFormatError{Line: line, Reason: fmt.Sprintf("field %d is not numeric", i+1), Expected: d, Actual: i, cause: err}
			}
			data = append(data, v)
		}
		records++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if records != n {
		return nil, &DataFormatError{Reason: "record count mismatch", Expected: n, Actual: records}
	}

	return FromFlat(data, n, d)
}

// LoadFile opens path and calls Load.
func LoadFile(path string, n, d int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(f, n, d)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ';'
}
