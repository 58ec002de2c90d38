package processing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/killallgit/studio-api/pkg/errors"
)

// ParseSeconds parses a non-negative, finite number of seconds
func ParseSeconds(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperrors.MissingFieldError(field)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.InvalidRequest(field, fmt.Sprintf("%q is not a number", raw))
	}
	if v < 0 {
		return 0, apperrors.InvalidRequest(field, "must not be negative")
	}
	return v, nil
}

// Validate checks the trim window
func (p TrimParams) Validate() error {
	switch {
	case p.Start < 0:
		return apperrors.InvalidRequest("start_time", "must not be negative")
	case p.End <= p.Start:
		return apperrors.InvalidRequest("end_time", "must be greater than start_time")
	case p.Crossfade < 0:
		return apperrors.InvalidRequest("crossfade", "must not be negative")
	}
	return nil
}

// ParseSplitPoints parses "1.5,4.2,7.8" into strictly increasing positive
// offsets in seconds
func ParseSplitPoints(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.MissingFieldError("split_points")
	}

	parts := strings.Split(raw, ",")
	points := make([]float64, 0, len(parts))
	for i, part := range parts {
		v, err := ParseSeconds("split_points", part)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCodeMissingField) {
				return nil, apperrors.InvalidRequest("split_points", fmt.Sprintf("entry %d is empty", i+1))
			}
			return nil, err
		}
		if v == 0 {
			return nil, apperrors.InvalidRequest("split_points", "points must be greater than zero")
		}
		if len(points) > 0 && v <= points[len(points)-1] {
			return nil, apperrors.InvalidRequest("split_points", "points must be strictly increasing")
		}
		points = append(points, v)
	}
	return points, nil
}

// ParseEQValues parses one integer gain in dB per equalizer band
func ParseEQValues(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, apperrors.MissingFieldError("eq_values")
	}

	parts := strings.Split(raw, ",")
	if len(parts) != len(EQBands) {
		return nil, apperrors.InvalidRequest("eq_values",
			fmt.Sprintf("expected %d values, got %d", len(EQBands), len(parts)))
	}

	gains := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, apperrors.InvalidRequest("eq_values", fmt.Sprintf("%q is not an integer", strings.TrimSpace(part)))
		}
		if v < MinEQGain || v > MaxEQGain {
			return nil, apperrors.InvalidRequest("eq_values",
				fmt.Sprintf("%d dB is outside [%d, %d]", v, MinEQGain, MaxEQGain))
		}
		gains[i] = v
	}
	return gains, nil
}
