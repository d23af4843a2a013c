// Package constants provides shared constants for the gpa-calculator application.
package constants

// DateLayout is the date format used in report headers and export file names.
const DateLayout = "2006-01-02"

// Numeric constants
const (
	// DecimalPrecision is the precision for GPA and percentage rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// RoundTripTolerance is the tolerance for GPA/percentage round trips
	RoundTripTolerance = 0.01

	// MaxCreditsPerCourse is the ceiling the course entry form allows.
	// The engines accept larger values; only configuration warnings use it.
	MaxCreditsPerCourse = 6.0

	// DefaultCourseCredits is the credit value a freshly added course row starts with
	DefaultCourseCredits = 3.0
)

// Performance tier thresholds, expressed as percentages of the scale maximum.
const (
	OutstandingThreshold  = 90.0
	ExcellentThreshold    = 80.0
	GoodThreshold         = 70.0
	SatisfactoryThreshold = 60.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Draft store keys. These match the keys the browser front end wrote to local storage.
const (
	SemesterDraftKey   = "semester-gpa-data"
	CumulativeDraftKey = "cumulative-gpa-data"
)

// Draft store backends
const (
	DraftBackendMemory = "memory"
	DraftBackendFile   = "file"
	DraftBackendSQLite = "sqlite"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultDraftDir is the directory under the user's home where drafts live
	DefaultDraftDir = ".gpa-calculator"

	// EnvPrefix is the prefix for environment overrides (e.g. GPA_SCALE)
	EnvPrefix = "GPA"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
