package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted      EventType = "SearchStarted"
	EventSearchSuperseded   EventType = "SearchSuperseded"
	EventNextBatchRequested EventType = "NextBatchRequested"
	EventBatchLoaded        EventType = "BatchLoaded"
	EventFetchFailed        EventType = "FetchFailed"
	EventFilterChanged      EventType = "FilterChanged"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
	EventConfigChanged      EventType = "ConfigChanged"
	EventError              EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a search enters its debounce window
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchSupersededEvent is emitted when a pending search is replaced by a
// newer one before its debounce window expired
type SearchSupersededEvent struct {
	Query string
}

func (e SearchSupersededEvent) Type() EventType { return EventSearchSuperseded }

// NextBatchRequestedEvent is emitted when a load-more fetch begins
type NextBatchRequestedEvent struct {
	Query string
	Page  int
}

func (e NextBatchRequestedEvent) Type() EventType { return EventNextBatchRequested }

// BatchLoadedEvent is emitted when a fetch completes and its results were
// merged into the accumulated list
type BatchLoadedEvent struct {
	Query string
	Page  int
	Count int
	Final bool // fewer results than the batch size, pagination exhausted
}

func (e BatchLoadedEvent) Type() EventType { return EventBatchLoaded }

// FetchFailedEvent is emitted when a fetch returns an error
type FetchFailedEvent struct {
	Query string
	Page  int
	Err   error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// FilterChangedEvent is emitted when the controller's filter value is replaced
type FilterChangedEvent struct {
	Filter any
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path         string
	DatabasePath string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// ConfigChangedEvent is emitted when configuration needs to be saved
type ConfigChangedEvent struct {
	LastKind string // last selected kind filter
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
