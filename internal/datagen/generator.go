// Package datagen produces synthetic employee datasets and drives a
// running service with them.
package datagen

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/okian/attrition/internal/domain/table"
)

type role struct {
	department string
	title      string
	baseIncome float64
}

var roles = []role{
	{"Sales", "Sales Executive", 6500},
	{"Sales", "Sales Representative", 2600},
	{"Sales", "Manager", 16000},
	{"Research & Development", "Research Scientist", 3200},
	{"Research & Development", "Laboratory Technician", 3100},
	{"Research & Development", "Manufacturing Director", 7200},
	{"Research & Development", "Healthcare Representative", 7500},
	{"Research & Development", "Research Director", 16000},
	{"Human Resources", "Human Resources", 4200},
}

// Attrition log-odds contributions.
const (
	baseLogOdds       = -2.6
	overtimeLogOdds   = 1.5
	youngLogOdds      = 0.8
	lowIncomeLogOdds  = 0.7
	newHireLogOdds    = 0.6
	farLogOdds        = 0.4
	satisfiedLogOdds  = -0.35
	youngAge          = 26
	lowIncome         = 3000
	newHireYears      = 2
	farDistance       = 20
	maxYearsAtCompany = 40
)

// Generate builds a deterministic synthetic workforce of cfg.Rows employees.
func Generate(cfg Config) (*table.Table, error) {
	if cfg.Rows < 0 {
		return nil, fmt.Errorf("%w: rows %d", ErrInvalidConfig, cfg.Rows)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	rows := make([]table.Record, cfg.Rows)
	for i := range rows {
		rec, err := generateEmployee(rng)
		if err != nil {
			return nil, fmt.Errorf("employee %d: %w", i, err)
		}
		rows[i] = rec
	}
	return table.New(Columns, rows), nil
}

// Write generates a dataset and writes it as CSV.
func Write(w io.Writer, cfg Config) error {
	t, err := Generate(cfg)
	if err != nil {
		return err
	}
	return table.Export(w, t)
}

func generateEmployee(rng *rand.Rand) (table.Record, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, fmt.Errorf("employee id: %w", err)
	}

	r := roles[rng.Intn(len(roles))]
	age := clamp(math.Round(36+rng.NormFloat64()*9), 18, 60)
	income := math.Round(r.baseIncome * (0.7 + 0.6*rng.Float64()) * (1 + (age-18)/80))
	years := clamp(math.Floor(rng.ExpFloat64()*6), 0, math.Min(maxYearsAtCompany, age-18))
	distance := float64(1 + rng.Intn(29))
	satisfaction := float64(1 + rng.Intn(4))
	overtime := rng.Float64() < 0.28

	logOdds := baseLogOdds + satisfiedLogOdds*(satisfaction-2.5)
	if overtime {
		logOdds += overtimeLogOdds
	}
	if age < youngAge {
		logOdds += youngLogOdds
	}
	if income < lowIncome {
		logOdds += lowIncomeLogOdds
	}
	if years < newHireYears {
		logOdds += newHireLogOdds
	}
	if distance > farDistance {
		logOdds += farLogOdds
	}
	left := rng.Float64() < 1/(1+math.Exp(-logOdds))

	return table.Record{
		"EmployeeID":       table.Text(id.String()),
		"Age":              table.Number(age),
		"Department":       table.Text(r.department),
		"JobRole":          table.Text(r.title),
		"MonthlyIncome":    table.Number(income),
		"YearsAtCompany":   table.Number(years),
		"DistanceFromHome": table.Number(distance),
		"JobSatisfaction":  table.Number(satisfaction),
		"OverTime":         table.Text(yesNo(overtime)),
		"Attrition":        table.Text(yesNo(left)),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
