package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUser       = "user"
	FieldMonth      = "month"
	FieldCategory   = "category"
	FieldRecords    = "records"
	FieldAmount     = "amount_cents"
	FieldRunID      = "run_id"
	FieldArtifact   = "artifact"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentView    = "view"
	ComponentStorage = "storage"
	ComponentML      = "ml"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentTrainer = "trainer"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpAdd      = "add"
	OpReplace  = "replace"
	OpReset    = "reset"
	OpView     = "view"
	OpTrain    = "train"
	OpPredict  = "predict"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
