package datagen

import "time"

// Config holds configuration for dataset generation and the smoke run.
type Config struct {
	Rows    int           // employees to generate
	Seed    int64         // random seed; equal seeds give equal datasets
	BaseURL string        // service base URL for the smoke run
	Timeout time.Duration // HTTP request timeout
}

// Default configuration constants.
const (
	DefaultRows    = 1470
	DefaultSeed    = 42
	DefaultBaseURL = "http://localhost:9080"
	DefaultTimeout = 30 * time.Second
)

// Columns is the header of a generated dataset.
var Columns = []string{
	"EmployeeID", "Age", "Department", "JobRole", "MonthlyIncome",
	"YearsAtCompany", "DistanceFromHome", "JobSatisfaction", "OverTime", "Attrition",
}
