package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Event Interface and Base Event
// -----------------------------------------------------------------------------

// Event represents a domain event
type Event interface {
	// EventID returns the unique identifier for this event
	EventID() uuid.UUID
	// EventType returns the type name of this event
	EventType() string
	// OccurredAt returns when this event occurred
	OccurredAt() time.Time
	// AggregateID returns the ID of the aggregate that produced this event
	AggregateID() string
	// AggregateType returns the type of aggregate that produced this event
	AggregateType() string
}

// BaseEvent provides common event fields
type BaseEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateKey  string    `json:"aggregate_id"`
	AggregateName string    `json:"aggregate_type"`
}

// NewBaseEvent creates a new BaseEvent
func NewBaseEvent(eventType, aggregateType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggregateKey:  aggregateID,
		AggregateName: aggregateType,
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateKey }
func (e BaseEvent) AggregateType() string { return e.AggregateName }

// -----------------------------------------------------------------------------
// Event Handler and Dispatcher
// -----------------------------------------------------------------------------

// EventHandler processes domain events
type EventHandler func(event Event)

// EventDispatcher manages event subscriptions and publishing
type EventDispatcher struct {
	mu          sync.RWMutex
	handlers    map[string][]EventHandler
	allHandlers []EventHandler // handlers for all events
}

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type
func (d *EventDispatcher) Subscribe(eventType string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (d *EventDispatcher) SubscribeAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.allHandlers = append(d.allHandlers, handler)
}

// Publish dispatches an event to all registered handlers
func (d *EventDispatcher) Publish(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	// Call type-specific handlers
	if handlers, ok := d.handlers[event.EventType()]; ok {
		for _, h := range handlers {
			h(event)
		}
	}

	// Call all-event handlers
	for _, h := range d.allHandlers {
		h(event)
	}
}

// PublishAll dispatches multiple events
func (d *EventDispatcher) PublishAll(events []Event) {
	for _, event := range events {
		d.Publish(event)
	}
}

// -----------------------------------------------------------------------------
// Attempt Events
// -----------------------------------------------------------------------------

// AttemptStartedEvent is published when a learner opens an exercise attempt
type AttemptStartedEvent struct {
	BaseEvent
	CourseID   string `json:"course_id"`
	LessonID   string `json:"lesson_id"`
	ExerciseID string `json:"exercise_id"`
}

// NewAttemptStartedEvent creates a new attempt started event
func NewAttemptStartedEvent(attemptID, courseID, lessonID, exerciseID string) AttemptStartedEvent {
	return AttemptStartedEvent{
		BaseEvent:  NewBaseEvent("attempt.started", "Attempt", attemptID),
		CourseID:   courseID,
		LessonID:   lessonID,
		ExerciseID: exerciseID,
	}
}

// HintRevealedEvent is published when a hint is disclosed to the learner
type HintRevealedEvent struct {
	BaseEvent
	ExerciseID string `json:"exercise_id"`
	HintIndex  int    `json:"hint_index"`
	HintsTotal int    `json:"hints_total"`
}

// NewHintRevealedEvent creates a new hint revealed event
func NewHintRevealedEvent(attemptID, exerciseID string, hintIndex, hintsTotal int) HintRevealedEvent {
	return HintRevealedEvent{
		BaseEvent:  NewBaseEvent("attempt.hint_revealed", "Attempt", attemptID),
		ExerciseID: exerciseID,
		HintIndex:  hintIndex,
		HintsTotal: hintsTotal,
	}
}

// SolutionRevealedEvent is published when the reference solution is disclosed
type SolutionRevealedEvent struct {
	BaseEvent
	ExerciseID string `json:"exercise_id"`
}

// NewSolutionRevealedEvent creates a new solution revealed event
func NewSolutionRevealedEvent(attemptID, exerciseID string) SolutionRevealedEvent {
	return SolutionRevealedEvent{
		BaseEvent:  NewBaseEvent("attempt.solution_revealed", "Attempt", attemptID),
		ExerciseID: exerciseID,
	}
}

// AttemptEvaluatedEvent is published when a submission finishes evaluation
type AttemptEvaluatedEvent struct {
	BaseEvent
	CourseID   string `json:"course_id"`
	LessonID   string `json:"lesson_id"`
	ExerciseID string `json:"exercise_id"`
	Score      int    `json:"score"`
	Passed     bool   `json:"passed"`
}

// NewAttemptEvaluatedEvent creates a new attempt evaluated event
func NewAttemptEvaluatedEvent(attemptID, courseID, lessonID, exerciseID string, score int, passed bool) AttemptEvaluatedEvent {
	return AttemptEvaluatedEvent{
		BaseEvent:  NewBaseEvent("attempt.evaluated", "Attempt", attemptID),
		CourseID:   courseID,
		LessonID:   lessonID,
		ExerciseID: exerciseID,
		Score:      score,
		Passed:     passed,
	}
}

// -----------------------------------------------------------------------------
// Progress Events
// -----------------------------------------------------------------------------

// LessonCompletedEvent is published the first time a lesson is marked complete
type LessonCompletedEvent struct {
	BaseEvent
	LessonID         string `json:"lesson_id"`
	CompletedLessons int    `json:"completed_lessons"`
}

// NewLessonCompletedEvent creates a new lesson completed event
func NewLessonCompletedEvent(courseID, lessonID string, completedLessons int) LessonCompletedEvent {
	return LessonCompletedEvent{
		BaseEvent:        NewBaseEvent("progress.lesson_completed", "Progress", courseID),
		LessonID:         lessonID,
		CompletedLessons: completedLessons,
	}
}
