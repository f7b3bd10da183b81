package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Timeouts
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Attendance scan windows. The entry window straddles the scheduled start,
// the exit window straddles the scheduled end, and the anchor (host QR
// screen) is visible from shortly before start until well after end.
const (
	AnchorVisibleBeforeStart = 10 * time.Minute
	AnchorVisibleAfterEnd    = 30 * time.Minute
	ScanWindowHalfWidth      = 15 * time.Minute
	TokenTTL                 = 60 * time.Second
	TokenSignatureHexLen     = 16
)

// Commitment phase thresholds, measured before the scheduled start.
const (
	IntentionOpensBeforeStart    = 3 * time.Hour
	StatusUpdateOpensBeforeStart = 1 * time.Hour
	ArrivalOpensBeforeStart      = AnchorVisibleBeforeStart
)

// Cache
const (
	ReadinessCacheTTL = 15 * time.Second
	BlockDuration     = 15 * time.Minute
	VerifyMaxAttempts = 10
)
