package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldChatID     = "chat_id"
	FieldError      = "error"
	FieldAmount     = "amount"
	FieldCategory   = "category"
	FieldMonth      = "month"
	FieldSheetsRef  = "sheets_ref"
	FieldDuration   = "duration_ms"
	FieldStatusCode = "status_code"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentBot       = "bot"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentBackend   = "backend"
	ComponentHTTP      = "http"
	ComponentRateLimit = "rate_limit"
)
