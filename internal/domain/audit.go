package domain

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// MinAuditReasonLength is the shortest acceptable justification for a
// non-create audit action. The log is the only durable evidence of why a
// financial record changed, so this is a hard precondition.
const MinAuditReasonLength = 5

// AuditAction classifies a privileged mutation.
type AuditAction string

const (
	AuditActionCreate        AuditAction = "create"
	AuditActionUpdate        AuditAction = "update"
	AuditActionChangeStatus  AuditAction = "change_status"
	AuditActionLogicalCancel AuditAction = "logical_cancel"
)

// IsValid checks if the action is known.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionChangeStatus, AuditActionLogicalCancel:
		return true
	}
	return false
}

// RequiresReason reports whether the action needs an operator justification.
func (a AuditAction) RequiresReason() bool {
	return a != AuditActionCreate
}

// JSON is a free-form field map captured before/after a mutation.
type JSON map[string]any

// AuditLog is an immutable record of a privileged mutation: who, what, which
// fields changed and why. Prior records are never updated or deleted.
type AuditLog struct {
	ID            string
	ActorID       string
	ActorRole     Role
	Action        AuditAction
	EntityTable   string
	EntityID      string
	ChangedFields []string
	Previous      JSON
	New           JSON
	Reason        string
	Source        string
	CreatedAt     time.Time
}

// DiffStates computes the set of keys whose serialized value differs between
// previous and next, with the before/after values restricted to those keys.
// Values are normalized through JSON so that equivalent representations
// (int vs float64, struct vs map) compare equal.
func DiffStates(previous, next JSON) (changed []string, before, after JSON) {
	keys := make(map[string]bool, len(previous)+len(next))
	for k := range previous {
		keys[k] = true
	}
	for k := range next {
		keys[k] = true
	}

	before = JSON{}
	after = JSON{}
	for k := range keys {
		prevVal := normalizeValue(previous[k])
		nextVal := normalizeValue(next[k])
		if reflect.DeepEqual(prevVal, nextVal) {
			continue
		}
		changed = append(changed, k)
		if _, ok := previous[k]; ok {
			before[k] = prevVal
		}
		if _, ok := next[k]; ok {
			after[k] = nextVal
		}
	}

	sort.Strings(changed)
	return changed, before, after
}

// normalizeValue round-trips a value through JSON so deep comparison does not
// depend on the caller's concrete types.
func normalizeValue(v any) any {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}

	return out
}

// MarshalState converts a domain object into a JSON field map for auditing.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
