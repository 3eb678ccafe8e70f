// Package sync keeps the relational store consistent with document-store
// mutations. A watcher turns MongoDB change streams into ChangeEvents, a
// worker-pool dispatcher fans them out to one handler per collection, and any
// failure is caught at the dispatcher boundary and recorded in the failure
// registry instead of being re-thrown at the event source.
package sync

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Operation is the lifecycle event carried by a ChangeEvent
type Operation string

const (
	OpInsert  Operation = "insert"
	OpUpdate  Operation = "update"
	OpReplace Operation = "replace"
	OpDelete  Operation = "delete"
)

// ChangeEvent is one document mutation delivered by the document store.
// Delivery is at-least-once; EventID identifies a delivery for dedup.
type ChangeEvent struct {
	EventID    string
	Collection string
	Operation  Operation
	DocumentID string
	Before     bson.Raw
	After      bson.Raw
}

// Action maps the operation onto the failure-registry action kinds
func (e ChangeEvent) Action() string {
	switch e.Operation {
	case OpInsert:
		return "create"
	case OpDelete:
		return "delete"
	default:
		return "update"
	}
}

// SyncError describes a failed relational mutation with enough context for the
// failure registry to make it replayable.
type SyncError struct {
	Action     string
	EntityType string
	EntityID   string
	Payload    interface{}
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %s %s: %v", e.Action, e.EntityType, e.EntityID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func syncErr(action, entityType, entityID string, payload interface{}, err error) *SyncError {
	return &SyncError{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		Err:        err,
	}
}
