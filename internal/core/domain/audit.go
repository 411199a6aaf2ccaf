package domain

import "time"

// AuthEventKind classifies entries in the authentication audit trail.
type AuthEventKind string

const (
	AuthEventLogin         AuthEventKind = "login"
	AuthEventLoginFailed   AuthEventKind = "login_failed"
	AuthEventRefresh       AuthEventKind = "refresh"
	AuthEventReuseDetected AuthEventKind = "reuse_detected"
	AuthEventLogout        AuthEventKind = "logout"
)

// AuthEvent is one audit-trail record. AccountID may be empty for failed
// logins where the identifier matched no account.
type AuthEvent struct {
	AccountID  string        `json:"account_id,omitempty"`
	Identifier string        `json:"identifier,omitempty"`
	Kind       AuthEventKind `json:"kind"`
	Timestamp  time.Time     `json:"timestamp"`
	Note       string        `json:"note,omitempty"`
}
