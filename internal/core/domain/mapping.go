package domain

import "errors"

// MapStatus is the outcome class of a mapping call.
type MapStatus int

const (
	// StatusMapped indicates a record was produced.
	StatusMapped MapStatus = iota

	// StatusNotApplicable indicates the item is not handled by this mapping.
	StatusNotApplicable

	// StatusFailed indicates the item should have been mapped but could not be.
	StatusFailed
)

// String returns the string representation.
func (s MapStatus) String() string {
	switch s {
	case StatusMapped:
		return "mapped"
	case StatusNotApplicable:
		return "not_applicable"
	case StatusFailed:
		return "failed"
	default:
		return unknownDescription
	}
}

// MapResult is the outcome of mapping one content item.
type MapResult struct {
	// Status classifies the outcome.
	Status MapStatus

	// Record holds the mapped fields. Nil unless Status is StatusMapped.
	Record *FieldRecord

	// Err explains a not-applicable or failed outcome.
	Err error
}

// Mapped returns a successful result.
func Mapped(record *FieldRecord) MapResult {
	return MapResult{Status: StatusMapped, Record: record}
}

// NotApplicable returns a result for an item outside this mapping.
func NotApplicable(reason error) MapResult {
	return MapResult{Status: StatusNotApplicable, Err: reason}
}

// Failed returns a result for an item that could not be mapped.
func Failed(err error) MapResult {
	return MapResult{Status: StatusFailed, Err: err}
}

// IsAbsent returns true if no record was produced.
func (r MapResult) IsAbsent() bool {
	return r.Status != StatusMapped || r.Record == nil
}

// IsNotFound returns true if the failure was a missing mapping, schema or
// document.
func (r MapResult) IsNotFound() bool {
	return r.Status == StatusFailed && errors.Is(r.Err, ErrNotFound)
}
