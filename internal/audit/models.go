// Package audit records which labels were printed for which patient.
// Every print session produces one record per basket line, written to a
// local always-on log and, when reachable, a remote registry.
package audit

import (
	"fmt"
	"time"
)

// Statuses stamped on local-log records so the registry can be
// reconciled by hand later.
const (
	StatusSynced    = "synced"
	StatusLocalOnly = "local_only"
)

// Record is one printed-label entry. One record is written per basket
// line regardless of how many copies of the label were printed.
type Record struct {
	PatientID   int       `json:"patientId"`
	PatientYear int       `json:"patientYear"`
	PatientName string    `json:"patientName"`
	DrugName    string    `json:"drugName"`
	Instruction string    `json:"instructionText"`
	PrintedBy   string    `json:"printedBy"`
	PrintedAt   time.Time `json:"printedAt"`

	// Reconciliation extras kept in the local log only.
	ExpiryDate string `json:"expiryDate,omitempty"`
	SessionID  string `json:"printSessionId,omitempty"`
	Quantity   int    `json:"printQuantity,omitempty"`
	Status     string `json:"status,omitempty"`
}

// registryPayload strips the local-only fields before a remote write.
func (r Record) registryPayload() Record {
	r.ExpiryDate = ""
	r.SessionID = ""
	r.Quantity = 0
	r.Status = ""
	return r
}

// RecordKey builds the local-log key for the n-th record of a session.
// Keys sort by session then by line position.
func RecordKey(sessionID string, index int) []byte {
	return []byte(fmt.Sprintf("audit/%s/%04d", sessionID, index))
}
