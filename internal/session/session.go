// Package session holds the mutable point-of-care state shared by the
// basket, auth, and printing surfaces: who is logged in and which
// patient the counter is currently serving.
package session

import (
	"sync"

	"medilabel/internal/operator"
	"medilabel/internal/patient"
)

// Context is the state of a single workstation session. One instance
// serves the whole process; all accessors are safe for concurrent use.
type Context struct {
	mu       sync.RWMutex
	operator *operator.Operator
	patient  *patient.Patient
}

func New() *Context {
	return &Context{}
}

func (c *Context) SetOperator(op operator.Operator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operator = &op
}

// ClearOperator logs the operator out.
func (c *Context) ClearOperator() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operator = nil
}

// Operator returns the logged-in operator, if any.
func (c *Context) Operator() (operator.Operator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.operator == nil {
		return operator.Operator{}, false
	}
	return *c.operator, true
}

func (c *Context) SetPatient(p patient.Patient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patient = &p
}

func (c *Context) ClearPatient() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patient = nil
}

// Patient returns the currently selected patient, if any.
func (c *Context) Patient() (patient.Patient, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.patient == nil {
		return patient.Patient{}, false
	}
	return *c.patient, true
}
