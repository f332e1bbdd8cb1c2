package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoordinatedParams is the number of values in a coordinated move:
// Vx Dx Vy Dy Va Da Vz Dz.
const CoordinatedParams = 8

// Command is one ASCII line understood by the firmware. Values are only
// produced by the constructors in this file.
type Command string

// Fixed commands with no parameters.
const (
	Probe    Command = "T1"
	ServoOn  Command = "S180"
	ServoOff Command = "S0"
	Cross    Command = "C1"
)

// String returns the command text.
func (c Command) String() string { return string(c) }

// Bytes returns the payload written to the transport.
func (c Command) Bytes() []byte { return []byte(c) }

// Axis identifies a single-axis move target.
type Axis byte

const (
	AxisX Axis = 'X'
	AxisY Axis = 'Y'
	AxisZ Axis = 'Z'
	AxisE Axis = 'E'
)

// ParseAxis accepts X, Y, Z or E in either case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	case "E":
		return AxisE, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrMalformedCommand, s)
}

// AxisMove builds a relative move of the given axis by a signed step count.
func AxisMove(axis Axis, steps string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(steps))
	if err != nil {
		return "", fmt.Errorf("%w: steps must be an integer, got %q", ErrMalformedCommand, steps)
	}
	return Command(fmt.Sprintf("%c%d", axis, n)), nil
}

// Coordinated encodes a free-form 8-parameter move. Tabs, commas and repeated
// spaces all separate tokens.
func Coordinated(text string) (Command, error) {
	tokens := Tokenize(text)
	if len(tokens) != CoordinatedParams {
		return "", &TokenCountError{Want: CoordinatedParams, Got: len(tokens)}
	}
	return Raw(strings.Join(tokens, " "))
}

// Tokenize splits coordinated-move input into its parameters.
func Tokenize(text string) []string {
	return strings.Fields(strings.NewReplacer("\t", " ", ",", " ").Replace(text))
}

// MaxExactInt is the largest magnitude a float64 holds without losing integer precision.
const MaxExactInt = 1 << 53

// Encodable reports whether v is finite and rounds to an exact integer.
func Encodable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) < MaxExactInt
}

// CurveCommand rounds each value with RoundHalfEven and joins them with spaces.
// A NaN, infinite or out-of-range value fails with ErrMalformedCommand.
func CurveCommand(values [CoordinatedParams]float64) (Command, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		if !Encodable(v) {
			return "", fmt.Errorf("%w: %s = %v is not an integer-representable number", ErrMalformedCommand, CurveFields[i], v)
		}
		parts[i] = strconv.FormatInt(RoundHalfEven(v), 10)
	}
	return Command(strings.Join(parts, " ")), nil
}

// RoundHalfEven rounds to the nearest integer, ties to even: 2.5 -> 2, 3.5 -> 4.
// v must satisfy Encodable.
func RoundHalfEven(v float64) int64 {
	return int64(math.RoundToEven(v))
}

// Raw validates a manually typed command. Surrounding whitespace is dropped;
// the rest must be printable ASCII.
func Raw(text string) (Command, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", fmt.Errorf("%w: empty command", ErrMalformedCommand)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return "", fmt.Errorf("%w: non-printable byte 0x%02x at offset %d", ErrMalformedCommand, s[i], i)
		}
	}
	return Command(s), nil
}
