package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/lmbm"
	"github.com/hupe1980/lmbclust/validity"
)

// ErrMalformed is returned (wrapped in *FormatError) for unreadable tables.
var ErrMalformed = errors.New("report: malformed table")

// FormatError describes a malformed table line.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("report: line %d: %s", e.Line, e.Reason)
}

// Unwrap returns ErrMalformed.
func (e *FormatError) Unwrap() error { return ErrMalformed }

// Fixed columns of the indices table, before the validity indices.
const (
	ColK           = "k"
	ColObjective   = "objective"
	ColElapsed     = "elapsed_s"
	ColEvaluations = "evaluations"
	ColIterations  = "iterations"
	ColStatus      = "status"
)

var fixedColumns = []string{ColK, ColObjective, ColElapsed, ColEvaluations, ColIterations, ColStatus}

// CenterSet holds the centers found for one k.
type CenterSet struct {
	K       int
	Centers [][]float64
}

// IndexRow is one row of the indices table.
type IndexRow struct {
	K           int
	Objective   float64
	Elapsed     time.Duration
	Evaluations int
	Iterations  int
	Status      lmbm.Status
	Indices     validity.Indices
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCenters writes every record's centers, ordered by k then center.
func WriteCenters(w io.Writer, res *lmbclust.Result) error {
	bw := bufio.NewWriter(w)
	for i := range res.Records {
		rec := &res.Records[i]
		for j := 0; j < rec.K; j++ {
			bw.WriteString(strconv.Itoa(rec.K))
			bw.WriteByte(' ')
			bw.WriteString(strconv.Itoa(j))
			for _, v := range rec.Center(j) {
				bw.WriteByte(' ')
				bw.WriteString(formatFloat(v))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// ParseCenters reads a table written by WriteCenters.
func ParseCenters(r io.Reader) ([]CenterSet, error) {
	var (
		sets []CenterSet
		dim  = -1
	)
	err := scanLines(r, func(line int, fields []string) error {
		if len(fields) < 3 {
			return &FormatError{Line: line, Reason: fmt.Sprintf("expected k, j and coordinates, got %d fields", len(fields))}
		}
		k, err := strconv.Atoi(fields[0])
		if err != nil || k < 1 {
			return &FormatError{Line: line, Reason: fmt.Sprintf("invalid k %q", fields[0])}
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return &FormatError{Line: line, Reason: fmt.Sprintf("invalid center index %q", fields[1])}
		}
		if dim < 0 {
			dim = len(fields) - 2
		} else if len(fields)-2 != dim {
			return &FormatError{Line: line, Reason: fmt.Sprintf("expected %d coordinates, got %d", dim, len(fields)-2)}
		}

		if len(sets) == 0 || sets[len(sets)-1].K != k {
			if len(sets) > 0 && k <= sets[len(sets)-1].K {
				return &FormatError{Line: line, Reason: fmt.Sprintf("k=%d out of order", k)}
			}
			sets = append(sets, CenterSet{K: k})
		}
		set := &sets[len(sets)-1]
		if j != len(set.Centers) || j >= k {
			return &FormatError{Line: line, Reason: fmt.Sprintf("unexpected center %d for k=%d", j, k)}
		}

		center := make([]float64, dim)
		for c, f := range fields[2:] {
			if center[c], err = strconv.ParseFloat(f, 64); err != nil {
				return &FormatError{Line: line, Reason: fmt.Sprintf("invalid coordinate %q", f)}
			}
		}
		set.Centers = append(set.Centers, center)
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, set := range sets {
		if len(set.Centers) != set.K {
			return nil, fmt.Errorf("%w: k=%d has %d centers", ErrMalformed, set.K, len(set.Centers))
		}
	}
	return sets, nil
}

// WriteIndices writes the header and one row per record.
func WriteIndices(w io.Writer, res *lmbclust.Result) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("# ")
	bw.WriteString(strings.Join(append(append([]string(nil), fixedColumns...), validity.Names...), " "))
	bw.WriteByte('\n')

	for i := range res.Records {
		rec := &res.Records[i]
		cols := []string{
			strconv.Itoa(rec.K),
			formatFloat(rec.Objective),
			formatFloat(rec.Elapsed.Seconds()),
			strconv.Itoa(rec.Evaluations),
			strconv.Itoa(rec.Iterations),
			rec.Status.String(),
		}
		for _, name := range validity.Names {
			cols = append(cols, formatFloat(rec.Indices[name]))
		}
		bw.WriteString(strings.Join(cols, " "))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ParseIndices reads a table written by WriteIndices. Columns are matched by
// the header, so tables with a subset of the validity indices are accepted.
func ParseIndices(r io.Reader) ([]IndexRow, error) {
	var (
		header []string
		rows   []IndexRow
	)
	err := scanLines(r, func(line int, fields []string) error {
		if header == nil {
			if fields[0] != "#" || len(fields) < 3 {
				return &FormatError{Line: line, Reason: "missing column header"}
			}
			header = fields[1:]
			if header[0] != ColK || header[1] != ColObjective {
				return &FormatError{Line: line, Reason: "header must start with k and objective"}
			}
			return nil
		}
		if len(fields) != len(header) {
			return &FormatError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(fields))}
		}

		row := IndexRow{Indices: validity.Indices{}}
		for c, name := range header {
			if err := row.set(name, fields[c]); err != nil {
				return &FormatError{Line: line, Reason: fmt.Sprintf("column %s: %v", name, err)}
			}
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("%w: empty indices table", ErrMalformed)
	}
	return rows, nil
}

func (row *IndexRow) set(name, value string) error {
	var err error
	switch name {
	case ColK:
		row.K, err = strconv.Atoi(value)
	case ColEvaluations:
		row.Evaluations, err = strconv.Atoi(value)
	case ColIterations:
		row.Iterations, err = strconv.Atoi(value)
	case ColStatus:
		row.Status, err = lmbm.ParseStatus(value)
	case ColObjective:
		row.Objective, err = strconv.ParseFloat(value, 64)
	case ColElapsed:
		var s float64
		if s, err = strconv.ParseFloat(value, 64); err == nil {
			row.Elapsed = time.Duration(math.Round(s * float64(time.Second)))
		}
	default:
		var v float64
		if v, err = strconv.ParseFloat(value, 64); err == nil {
			row.Indices[name] = v
		}
	}
	return err
}

// scanLines calls fn with the fields of every non-blank line. A "#" is split
// off as its own field so headers parse uniformly.
func scanLines(r io.Reader, fn func(line int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "#"); ok {
			text = "# " + rest
		}
		if err := fn(line, strings.Fields(text)); err != nil {
			return err
		}
	}
	return sc.Err()
}
