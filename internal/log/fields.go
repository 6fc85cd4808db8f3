package log

// Standard field keys so log output stays queryable across packages.
const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "url"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldClientIP  = "client_ip"
	FieldError     = "error"
	FieldTxID      = "id"
	FieldCurrency  = "currency"
)

// Component names used with WithComponent.
const (
	ComponentHTTP       = "http"
	ComponentController = "controller"
	ComponentLedger     = "ledger"
	ComponentEvents     = "events"
	ComponentAudit      = "audit"
	ComponentWorker     = "worker"
)
