// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// The application core (internal/app) depends only on these interfaces.
// Adapters under internal/adapters implement them with sockets, serial
// ports, spreadsheet files, SQLite and zerolog.
//
// # Port Interfaces
//
//   - [Channel]: one open command channel to the firmware
//   - [Dialer]: opens a Channel to a target
//   - [Grid]: read-only access to a loaded spreadsheet
//   - [GridLoader]: loads a Grid from a file
//   - [Journal]: records command exchanges
//   - [StateRepository]: persists panel state between runs
//   - [Logger]: structured logging abstraction
package ports
