package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldMode       = "mode"
	FieldProvider   = "provider"
	FieldAmountBRL  = "amount_brl"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentStore      = "store"
	ComponentRates      = "rates"
	ComponentSession    = "session"
	ComponentBackend    = "backend"
	ComponentCLI        = "cli"
	ComponentClient     = "client"
	ComponentLocalStore = "localstore"
)

// Operations defines standard operation names
const (
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
	OpFetch  = "fetch"
)
