package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the motionpanel domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrTransportUnavailable is returned when the command channel could not be opened.
	ErrTransportUnavailable = errors.New("motionpanel: transport unavailable")

	// ErrNoReply marks a receive that timed out. Sessions turn it into a
	// Reply with Received=false instead of returning it.
	ErrNoReply = errors.New("motionpanel: no reply")

	// ErrNotInitialized is returned when a command is sent before any channel exists.
	ErrNotInitialized = errors.New("motionpanel: channel not initialized")

	// ErrCommunication is returned when writing a command to an open channel fails.
	ErrCommunication = errors.New("motionpanel: communication error")

	// ErrMalformedCommand is returned when operator input cannot be encoded.
	ErrMalformedCommand = errors.New("motionpanel: malformed command")

	// ErrNoDataLoaded is returned when a curve is requested with no workbook loaded.
	ErrNoDataLoaded = errors.New("motionpanel: no data loaded")

	// ErrInvalidCell is returned when a curve row holds an empty or non-numeric cell.
	ErrInvalidCell = errors.New("motionpanel: invalid cell")

	// ErrUnknownCurve is returned when a curve name is not defined.
	ErrUnknownCurve = errors.New("motionpanel: unknown curve")
)

// InvalidCellError names the curve and the cell that aborted an extraction.
// Row and Col are 0-based grid indices.
type InvalidCellError struct {
	Curve string
	Field string
	Row   int
	Col   int
}

func (e *InvalidCellError) Error() string {
	return fmt.Sprintf("invalid value in curve %s: field %s (cell %s)", e.Curve, e.Field, CellRef(e.Row, e.Col))
}

// CellRef renders 0-based grid indices the way a spreadsheet shows them:
// CellRef(17, 5) is "F18".
func CellRef(row, col int) string {
	var letters []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return fmt.Sprintf("%s%d", letters, row+1)
}

// Unwrap lets errors.Is match ErrInvalidCell.
func (e *InvalidCellError) Unwrap() error { return ErrInvalidCell }

// TokenCountError reports a coordinated move with the wrong number of parameters.
type TokenCountError struct {
	Want int
	Got  int
}

func (e *TokenCountError) Error() string {
	return fmt.Sprintf("expected %d values, found %d", e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrMalformedCommand.
func (e *TokenCountError) Unwrap() error { return ErrMalformedCommand }
