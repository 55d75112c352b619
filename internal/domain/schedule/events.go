// Package schedule implements the medication schedule aggregate and domain events.
package schedule

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event
type EventType string

const (
	EventScheduleRequested  EventType = "ScheduleRequested"
	EventScheduleGenerated  EventType = "ScheduleGenerated"
	EventScheduleFellBack   EventType = "ScheduleFellBack"
	EventScheduleDelivered  EventType = "ScheduleDelivered"
	EventScheduleSuperseded EventType = "ScheduleSuperseded"
	EventScheduleCancelled  EventType = "ScheduleCancelled"
)

// Event represents a domain event
type Event struct {
	ID             string          `json:"id"`
	AggregateID    string          `json:"aggregate_id"`
	AggregateType  string          `json:"aggregate_type"`
	EventType      EventType       `json:"event_type"`
	EventData      json.RawMessage `json:"event_data"`
	Version        int             `json:"version"`
	Timestamp      time.Time       `json:"timestamp"`
	PatientID      string          `json:"patient_id,omitempty"`
	Culture        string          `json:"culture,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CorrelationID  string          `json:"correlation_id,omitempty"`
}

// NewEvent creates a new event
func NewEvent(aggregateID string, eventType EventType, data interface{}) (*Event, error) {
	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: "MedicationSchedule",
		EventType:     eventType,
		EventData:     eventData,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// ScheduleRequestedData contains the original generation request.
type ScheduleRequestedData struct {
	ScheduleID      string          `json:"schedule_id"`
	PatientID       string          `json:"patient_id"`
	Culture         string          `json:"culture"`
	Language        string          `json:"language,omitempty"`
	MedicationCount int             `json:"medication_count"`
	IdempotencyKey  string          `json:"idempotency_key,omitempty"`
	OccasionKey     string          `json:"occasion_key,omitempty"`
	RequestPayload  json.RawMessage `json:"request_payload,omitempty"`
	RequestedAt     time.Time       `json:"requested_at"`
}

// ScheduleGeneratedData contains the generation outcome.
type ScheduleGeneratedData struct {
	ScheduleID          string          `json:"schedule_id"`
	PatientID           string          `json:"patient_id"`
	DoseCount           int             `json:"dose_count"`
	ConflictCount       int             `json:"conflict_count"`
	RecommendationCount int             `json:"recommendation_count"`
	DegradedSections    []string        `json:"degraded_sections,omitempty"`
	SchedulePayload     json.RawMessage `json:"schedule_payload,omitempty"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// ScheduleFellBackData records a degradation to the default schedule.
type ScheduleFellBackData struct {
	ScheduleID string    `json:"schedule_id"`
	PatientID  string    `json:"patient_id"`
	Reason     string    `json:"reason"`
	DoseCount  int       `json:"dose_count"`
	FellBackAt time.Time `json:"fell_back_at"`
}

// ScheduleSupersededData records replacement by a newer schedule.
type ScheduleSupersededData struct {
	ScheduleID   string    `json:"schedule_id"`
	SupersededBy string    `json:"superseded_by"`
	SupersededAt time.Time `json:"superseded_at"`
}

// ScheduleCancelledData records cancellation of a schedule.
type ScheduleCancelledData struct {
	ScheduleID  string    `json:"schedule_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// ScheduleDeliveredData contains delivery details.
type ScheduleDeliveredData struct {
	ScheduleID  string    `json:"schedule_id"`
	Channel     string    `json:"channel"`
	MessageID   string    `json:"message_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// WithAuditInfo sets audit fields
func (e *Event) WithAuditInfo(patientID, culture, idempotencyKey string) *Event {
	e.PatientID = patientID
	e.Culture = culture
	e.IdempotencyKey = idempotencyKey
	return e
}
