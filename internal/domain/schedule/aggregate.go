// Package schedule implements the medication schedule aggregate.
package schedule

import (
	"encoding/json"
	"errors"
	"time"
)

// Status represents schedule status
type Status string

const (
	StatusDraft      Status = "draft"
	StatusRequested  Status = "requested"
	StatusGenerated  Status = "generated"
	StatusFallback   Status = "fallback"
	StatusDelivered  Status = "delivered"
	StatusSuperseded Status = "superseded"
	StatusCancelled  Status = "cancelled"
)

// Aggregate represents the medication schedule aggregate root
type Aggregate struct {
	id               string
	version          int
	status           Status
	patientID        string
	culture          string
	language         string
	idempotencyKey   string
	medicationCount  int
	doseCount        int
	conflictCount    int
	degradedSections []string
	deliveryChannel  string
	messageID        string
	requestedAt      time.Time
	createdAt        time.Time
	updatedAt        time.Time
	changes          []*Event
}

// NewAggregate creates a new schedule aggregate
func NewAggregate(id string) *Aggregate {
	return &Aggregate{
		id:        id,
		status:    StatusDraft,
		createdAt: time.Now().UTC(),
		updatedAt: time.Now().UTC(),
		changes:   make([]*Event, 0),
	}
}

// ID returns the aggregate ID
func (a *Aggregate) ID() string { return a.id }

// Version returns the current version
func (a *Aggregate) Version() int { return a.version }

// Status returns the current status
func (a *Aggregate) Status() Status { return a.status }

// PatientID returns the patient the schedule belongs to
func (a *Aggregate) PatientID() string { return a.patientID }

// DoseCount returns the number of scheduled doses
func (a *Aggregate) DoseCount() int { return a.doseCount }

// Changes returns uncommitted events
func (a *Aggregate) Changes() []*Event { return a.changes }

// ClearChanges clears uncommitted events
func (a *Aggregate) ClearChanges() { a.changes = make([]*Event, 0) }

// Request records the incoming generation request
func (a *Aggregate) Request(data *ScheduleRequestedData) error {
	if a.status != StatusDraft {
		return errors.New("schedule already requested")
	}

	event, err := NewEvent(a.id, EventScheduleRequested, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(data.PatientID, data.Culture, data.IdempotencyKey)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// MarkGenerated records a successful personalized generation
func (a *Aggregate) MarkGenerated(data *ScheduleGeneratedData) error {
	if a.status != StatusRequested {
		return errors.New("schedule not in requested state")
	}

	event, err := NewEvent(a.id, EventScheduleGenerated, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.patientID, a.culture, a.idempotencyKey)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// MarkFellBack records a degradation to the conservative default schedule
func (a *Aggregate) MarkFellBack(reason string, doseCount int) error {
	if a.status != StatusRequested {
		return errors.New("schedule not in requested state")
	}

	data := &ScheduleFellBackData{
		ScheduleID: a.id,
		PatientID:  a.patientID,
		Reason:     reason,
		DoseCount:  doseCount,
		FellBackAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventScheduleFellBack, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.patientID, a.culture, a.idempotencyKey)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// MarkDelivered records successful delivery to the household
func (a *Aggregate) MarkDelivered(channel, messageID string) error {
	if a.status != StatusGenerated && a.status != StatusFallback {
		return errors.New("schedule not generated")
	}

	data := &ScheduleDeliveredData{
		ScheduleID:  a.id,
		Channel:     channel,
		MessageID:   messageID,
		DeliveredAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventScheduleDelivered, data)
	if err != nil {
		return err
	}

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// Supersede records replacement by a newer schedule for the same patient
func (a *Aggregate) Supersede(supersededBy string) error {
	if a.status != StatusGenerated && a.status != StatusFallback && a.status != StatusDelivered {
		return errors.New("only a generated, fallback, or delivered schedule can be superseded")
	}

	data := &ScheduleSupersededData{
		ScheduleID:   a.id,
		SupersededBy: supersededBy,
		SupersededAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventScheduleSuperseded, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.patientID, a.culture, a.idempotencyKey)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// Cancel withdraws a schedule before or after delivery
func (a *Aggregate) Cancel(reason string) error {
	switch a.status {
	case StatusRequested, StatusGenerated, StatusFallback, StatusDelivered:
	default:
		return errors.New("schedule cannot be cancelled in its current state")
	}

	data := &ScheduleCancelledData{
		ScheduleID:  a.id,
		Reason:      reason,
		CancelledAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventScheduleCancelled, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.patientID, a.culture, a.idempotencyKey)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// apply applies an event to update state
func (a *Aggregate) apply(event *Event) {
	a.version++
	a.updatedAt = event.Timestamp

	switch event.EventType {
	case EventScheduleRequested:
		a.applyRequested(event)
	case EventScheduleGenerated:
		a.applyGenerated(event)
	case EventScheduleFellBack:
		a.applyFellBack(event)
	case EventScheduleDelivered:
		a.applyDelivered(event)
	case EventScheduleSuperseded:
		a.status = StatusSuperseded
	case EventScheduleCancelled:
		a.status = StatusCancelled
	}
}

func (a *Aggregate) applyRequested(event *Event) {
	var data ScheduleRequestedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusRequested
	a.patientID = data.PatientID
	a.culture = data.Culture
	a.language = data.Language
	a.idempotencyKey = data.IdempotencyKey
	a.medicationCount = data.MedicationCount
	a.requestedAt = data.RequestedAt
}

func (a *Aggregate) applyGenerated(event *Event) {
	var data ScheduleGeneratedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusGenerated
	a.doseCount = data.DoseCount
	a.conflictCount = data.ConflictCount
	a.degradedSections = data.DegradedSections
}

func (a *Aggregate) applyFellBack(event *Event) {
	var data ScheduleFellBackData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusFallback
	a.doseCount = data.DoseCount
}

func (a *Aggregate) applyDelivered(event *Event) {
	var data ScheduleDeliveredData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusDelivered
	a.deliveryChannel = data.Channel
	a.messageID = data.MessageID
}

// LoadFromHistory rebuilds state from events
func (a *Aggregate) LoadFromHistory(events []*Event) {
	for _, event := range events {
		a.apply(event)
	}
}
