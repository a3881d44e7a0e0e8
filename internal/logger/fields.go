package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, carried on the context logger through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldIngestionID is the ingestion a log line belongs to
	FieldIngestionID = "ingestion_id"

	// FieldBatchID is the batch a log line belongs to
	FieldBatchID = "batch_id"

	// FieldPriority is the priority class of the ingestion
	FieldPriority = "priority"
)

// Metric fields, attached per entry for aggregation and alerting.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"
)
