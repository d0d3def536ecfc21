package sync

import (
	"context"
	"time"
)

// SessionState is the connection state of a source session
type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionConnecting   SessionState = "connecting"
	SessionConnected    SessionState = "connected"
)

// Session is the connect/test/disconnect lifecycle around one batch
// run. It moves Disconnected → Connecting → Connected and back; a
// failed handshake classifies the cause and returns to Disconnected.
// A session belongs to a single batch run and is not safe for
// concurrent use; concurrent runs are excluded by the RunLock.
type Session struct {
	source      SourceCode
	state       SessionState
	connectedAt time.Time
}

// NewSession creates a disconnected session for a source
func NewSession(source SourceCode) *Session {
	return &Session{
		source: source,
		state:  SessionDisconnected,
	}
}

// Source returns the source this session targets
func (s *Session) Source() SourceCode {
	return s.source
}

// State returns the current session state
func (s *Session) State() SessionState {
	return s.state
}

// IsConnected reports whether the handshake succeeded and the session
// has not been released
func (s *Session) IsConnected() bool {
	return s.state == SessionConnected
}

// ConnectedAt returns when the handshake succeeded
func (s *Session) ConnectedAt() time.Time {
	return s.connectedAt
}

// Connect performs the adapter handshake. On failure the session
// returns to Disconnected and the error is always a *ConnectionError
// with a classified cause.
func (s *Session) Connect(ctx context.Context, adapter SourceAdapter, creds Credentials) error {
	s.state = SessionConnecting

	if err := adapter.TestConnection(ctx, creds); err != nil {
		s.state = SessionDisconnected
		return AsConnectionError(s.source, err)
	}

	s.state = SessionConnected
	s.connectedAt = time.Now()
	return nil
}

// Release returns the session to Disconnected. It is idempotent and
// must run on every exit path of a batch run.
func (s *Session) Release() {
	s.state = SessionDisconnected
}
