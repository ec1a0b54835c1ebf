package domain

// Default configuration values
const (
	DefaultSlotStepMinutes = 30
	DefaultPageSize        = 10
	MaxPageSize            = 100
)

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxCustomerNameLength  = 200
	MaxCustomerPhoneLength = 32
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
