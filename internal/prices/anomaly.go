package prices

import "github.com/Livo-Africa/accountbot/internal/models"

// Status classifies an amount against a trained range.
type Status string

const (
	StatusNoData Status = "no-data"
	StatusBelow  Status = "below"
	StatusAbove  Status = "above"
	StatusWithin Status = "within"
)

// Evaluation is the outcome of one anomaly check.
type Evaluation struct {
	Status Status
	Range  *models.PriceRange
	// Difference is the distance from the violated bound; zero for
	// within and no-data.
	Difference float64
}

// Anomalous reports whether the evaluation should open a correction.
func (e Evaluation) Anomalous() bool {
	return e.Status == StatusAbove || e.Status == StatusBelow
}

// Evaluate compares amount against a trained range. Pure and stateless;
// a nil range means no data.
func Evaluate(r *models.PriceRange, amount float64) Evaluation {
	if r == nil {
		return Evaluation{Status: StatusNoData}
	}
	switch {
	case amount < r.Min:
		return Evaluation{Status: StatusBelow, Range: r, Difference: r.Min - amount}
	case amount > r.Max:
		return Evaluation{Status: StatusAbove, Range: r, Difference: amount - r.Max}
	}
	return Evaluation{Status: StatusWithin, Range: r}
}
