package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDocument  = "document"
	FieldDocuments = "documents"
	FieldRecords   = "records"
	FieldDuration  = "duration_ms"
	FieldWindow    = "window_weeks"
	FieldWorkers   = "workers"
	FieldPath      = "path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCollector = "collector"
	ComponentStorage   = "storage"
	ComponentReport    = "report"
	ComponentMetrics   = "metrics"
)

// Operations defines standard operation names
const (
	OpCollect   = "collect"
	OpAggregate = "aggregate"
	OpSummarize = "summarize"
	OpRender    = "render"
	OpExport    = "export"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRunID adds the run identifier
func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithDocument adds the document name and the records taken from it
func (f LogFields) WithDocument(name string, records int) LogFields {
	f[FieldDocument] = name
	f[FieldRecords] = records
	return f
}

// WithDuration adds an elapsed time in milliseconds
func (f LogFields) WithDuration(ms int64) LogFields {
	f[FieldDuration] = ms
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
