// Package domain contains the command vocabulary and value types of motionpanel.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (sockets, files, logging) and holds only the rules
// for turning operator input and spreadsheet cells into firmware commands.
//
// # Entities
//
//   - [Cell]: a closed variant over the values a tabular source can hold
//   - [Command]: one ASCII command line accepted by the firmware
//   - [Curve]: a named spreadsheet row holding a coordinated move
//   - [CurveRow]: the 8 validated fields of a curve
//   - [Notification]: what the panel reports back to the operator
//
// # Rules
//
// Commands are built only through the codec functions in command.go, so a
// [Command] value is always well formed. Curve rows are all-or-nothing: a
// single unusable cell rejects the whole row.
package domain
