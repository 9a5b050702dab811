package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Observer defines the interface for structured observability during a deployment.
type Observer interface {
	// Printf logs a free-form progress message.
	Printf(format string, v ...interface{})

	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured deployment event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name (e.g., "pre-requirement check")
	Message   string            // Human-readable message
	Resource  string            // Resource path or ID if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of deployment event.
type EventType string

const (
	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepSucceeded indicates a step exited with code zero.
	EventStepSucceeded EventType = "step.succeeded"
	// EventStepFailed indicates a step exited non-zero or was interrupted.
	EventStepFailed EventType = "step.failed"

	// EventStatusChanged indicates a new status was persisted.
	EventStatusChanged EventType = "status.changed"

	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted successfully.
	EventResourceDeleted EventType = "resource.deleted"
)

// ConsoleObserver implements Observer on top of a zerolog logger.
type ConsoleObserver struct {
	logger        zerolog.Logger
	contextFields map[string]string
}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver(logger zerolog.Logger) *ConsoleObserver {
	return &ConsoleObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	e := o.logger.Info()
	for _, k := range sortedKeys(o.contextFields) {
		e = e.Str(k, o.contextFields[k])
	}
	e.Msgf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Merge context fields
	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	e := o.logger.WithLevel(levelFor(event.Type)).
		Time("at", event.Timestamp).
		Str("event", string(event.Type))
	if event.Step != "" {
		e = e.Str("step", event.Step)
	}
	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	for _, k := range sortedKeys(event.Fields) {
		e = e.Str(k, event.Fields[k])
	}
	e.Msg(event.Message)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &ConsoleObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

func levelFor(t EventType) zerolog.Level {
	switch t {
	case EventStepFailed:
		return zerolog.ErrorLevel
	case EventStatusChanged:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepSucceeded logs a successful step.
func LogStepSucceeded(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepSucceeded,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a failed step with its exit code.
func LogStepFailed(observer Observer, step string, exitCode int) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: fmt.Sprintf("failed with exit code %d", exitCode),
		Fields: map[string]string{
			"exit_code": fmt.Sprint(exitCode),
		},
	})
}

// LogStatusChanged logs a persisted status transition.
func LogStatusChanged(observer Observer, deploymentID, status string) {
	observer.Event(Event{
		Type:     EventStatusChanged,
		Resource: deploymentID,
		Message:  "status " + status,
		Fields: map[string]string{
			"status": status,
		},
	})
}

// LogResourceDeleting logs a resource deletion start event.
func LogResourceDeleting(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("deleting %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceDeleted logs a successful resource deletion event.
func LogResourceDeleted(observer Observer, step, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Step:     step,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s deleted", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}
