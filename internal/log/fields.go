package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldDataset    = "dataset"
	FieldRowsIn     = "rows_in"
	FieldRowsKept   = "rows_kept"
	FieldRowsDrop   = "rows_dropped"
	FieldReason     = "reason"
	FieldFile       = "file"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentCleaner   = "cleaner"
	ComponentReporter  = "reporter"
	ComponentDashboard = "dashboard"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentExport    = "export"
	ComponentCache     = "cache"
	ComponentHTTP      = "http"
)

// Operations defines standard operation names.
const (
	OpLoad    = "load"
	OpClean   = "clean"
	OpSave    = "save"
	OpRender  = "render"
	OpPublish = "publish"
	OpExport  = "export"
	OpStartup = "startup"
	OpShutdown = "shutdown"
)
