// Package printing turns the basket into printed labels and audit
// records. The pipeline runs as a small state machine so every print
// attempt has a traceable lifecycle.
package printing

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"medilabel/pkg/platform/sentinel"
)

type State string

const (
	StateIdle           State = "idle"
	StateValidating     State = "validating"
	StateRendering      State = "rendering"
	StateAuditingRemote State = "auditing_remote"
	StateAuditingLocal  State = "auditing_local"
	StateClearing       State = "clearing"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// transitions lists the legal edges. The only paths into Failed are a
// validation failure and a render failure; audit trouble never fails a
// session.
var transitions = map[State][]State{
	StateIdle:           {StateValidating},
	StateValidating:     {StateRendering, StateFailed},
	StateRendering:      {StateAuditingRemote, StateAuditingLocal, StateFailed},
	StateAuditingRemote: {StateAuditingLocal},
	StateAuditingLocal:  {StateClearing},
	StateClearing:       {StateDone},
}

// Session is one print attempt. It is not reused; every press of the
// print button creates a fresh one.
type Session struct {
	ID    string
	state State
}

// NewSession mints a fresh session. The timestamp prefix keeps local
// audit keys in chronological order across restarts.
func NewSession() *Session {
	id := fmt.Sprintf("%s-%s", time.Now().UTC().Format("20060102150405"), uuid.NewString())
	return &Session{ID: id, state: StateIdle}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) To(next State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("print session %s: %s -> %s: %w", s.ID, s.state, next, sentinel.ErrInvalidState)
}
