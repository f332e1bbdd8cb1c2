package domain

import (
	"fmt"
	"time"
)

// Severity grades an operator alert.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// NotificationKind tags the variant held by a Notification.
type NotificationKind int

const (
	NotifyLog NotificationKind = iota
	NotifyStatus
	NotifyAlert
)

// Notification is one message for the operator. Exactly one of the variant
// groups is meaningful, selected by Kind.
type Notification struct {
	Kind NotificationKind
	Time time.Time

	// NotifyLog and NotifyAlert
	Text string

	// NotifyStatus
	Connected bool

	// NotifyAlert
	Severity Severity
}

// LogLine returns a timestamped log notification.
func LogLine(at time.Time, text string) Notification {
	return Notification{Kind: NotifyLog, Time: at, Text: text}
}

// StatusChange returns a connection-status notification.
func StatusChange(at time.Time, connected bool, message string) Notification {
	return Notification{Kind: NotifyStatus, Time: at, Connected: connected, Text: message}
}

// Alert returns a user-facing warning or error.
func Alert(at time.Time, severity Severity, message string) Notification {
	return Notification{Kind: NotifyAlert, Time: at, Severity: severity, Text: message}
}

// String renders the notification as a timestamped panel line.
func (n Notification) String() string {
	ts := n.Time.Format("15:04:05")
	switch n.Kind {
	case NotifyStatus:
		state := "disconnected"
		if n.Connected {
			state = "connected"
		}
		if n.Text == "" {
			return fmt.Sprintf("[%s] status: %s", ts, state)
		}
		return fmt.Sprintf("[%s] status: %s (%s)", ts, state, n.Text)
	case NotifyAlert:
		return fmt.Sprintf("[%s] %s: %s", ts, n.Severity, n.Text)
	default:
		return fmt.Sprintf("[%s] %s", ts, n.Text)
	}
}
