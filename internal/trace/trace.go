// Package trace loads recorded gaze samples from files.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/gazegrid/internal/model"
)

// Load reads a trace file. Each line holds "x y offset_ms" separated by
// whitespace or commas; blank lines and lines starting with # are skipped.
// Offsets are relative to base.
func Load(path string, base time.Time) ([]model.GazeSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only trace.
			_ = cerr
		}
	}()
	return Parse(file, base)
}

// Parse reads trace lines from r.
func Parse(r io.Reader, base time.Time) ([]model.GazeSample, error) {
	var samples []model.GazeSample
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sample, err := parseLine(line, base)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("trace is empty")
	}
	return samples, nil
}

func parseLine(line string, base time.Time) (model.GazeSample, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 3 {
		return model.GazeSample{}, fmt.Errorf("expected 3 fields (x y offset_ms), got %d", len(fields))
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.GazeSample{}, fmt.Errorf("invalid x %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return model.GazeSample{}, fmt.Errorf("invalid y %q", fields[1])
	}
	offset, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return model.GazeSample{}, fmt.Errorf("invalid offset %q", fields[2])
	}
	return model.GazeSample{
		Position: model.Position{X: x, Y: y},
		At:       base.Add(time.Duration(offset * float64(time.Millisecond))),
	}, nil
}
