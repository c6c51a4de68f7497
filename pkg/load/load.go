// Package load supplies raw cystometry signals to the analysis pipeline,
// either parsed from delimited text files or passed in directly as paired
// arrays.
package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urolab/cysto/pkg/analyze"
)

// FileSpec describes where the time and pressure columns live in a delimited
// text file. Column indices are zero based. SkipRows excludes headers and the
// unusable samples acquisition rigs tend to produce at the start of a file.
type FileSpec struct {
	Path        string
	TimeCol     int
	PressureCol int
	SkipRows    int
	Delim       rune // defaults to ',' when zero
}

// File reads the recording described by spec. Rows are parsed strictly: a row
// missing either column or holding a non-numeric value fails the load with
// its line number, rather than being silently dropped.
func File(spec FileSpec) (analyze.Signal, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return analyze.Signal{}, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	sig, err := Reader(f, spec)
	if err != nil {
		return analyze.Signal{}, fmt.Errorf("%s: %w", spec.Path, err)
	}
	return sig, nil
}

// Reader parses delimited text from r using the column layout in spec
// (spec.Path is ignored).
func Reader(r io.Reader, spec FileSpec) (analyze.Signal, error) {
	if spec.TimeCol < 0 || spec.PressureCol < 0 {
		return analyze.Signal{}, fmt.Errorf("column indices must be non-negative (time %d, pressure %d)",
			spec.TimeCol, spec.PressureCol)
	}
	delim := spec.Delim
	if delim == 0 {
		delim = ','
	}

	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var sig analyze.Signal
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return analyze.Signal{}, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++
		if line <= spec.SkipRows {
			continue
		}

		tv, err := field(record, spec.TimeCol, "time", line)
		if err != nil {
			return analyze.Signal{}, err
		}
		pv, err := field(record, spec.PressureCol, "pressure", line)
		if err != nil {
			return analyze.Signal{}, err
		}
		sig.Time = append(sig.Time, tv)
		sig.Pressure = append(sig.Pressure, pv)
	}

	if len(sig.Time) < 2 {
		return analyze.Signal{}, fmt.Errorf("%w: %d usable rows after skipping %d",
			analyze.ErrInsufficientData, len(sig.Time), spec.SkipRows)
	}
	return sig, nil
}

// FromArrays copies two equal-length sequences into a Signal, interpreting
// them as paired samples by position.
func FromArrays(time, pressure []float64) (analyze.Signal, error) {
	if len(time) != len(pressure) {
		return analyze.Signal{}, fmt.Errorf("%w: time has %d samples but pressure has %d",
			analyze.ErrInsufficientData, len(time), len(pressure))
	}
	return analyze.Signal{
		Time:     append([]float64(nil), time...),
		Pressure: append([]float64(nil), pressure...),
	}, nil
}

func field(record []string, col int, name string, line int) (float64, error) {
	if col >= len(record) {
		return 0, fmt.Errorf("line %d: %s column %d out of range (%d fields)", line, name, col, len(record))
	}
	v, err := strconv.ParseFloat(record[col], 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: invalid %s value %q", line, name, record[col])
	}
	return v, nil
}
