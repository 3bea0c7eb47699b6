package constants

const (
	// Context keys
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"

	// Database defaults
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"

	// Slot regeneration runs every other week at midnight.
	RegenerationCronSpec = "0 0 */14 * *"
	// RegenerationHorizonWeeks is how far ahead slots are generated.
	RegenerationHorizonWeeks = 2

	// Weekly map bounds
	SlotIntervalMinMinutes = 1
	SlotIntervalMaxMinutes = 120
)
