package orchestration

import (
	"github.com/agbru/factcalc/internal/factorial"
)

// GetCalculatorsToRun resolves an --algo value. "all" returns every
// registered strategy in name order; an unknown name returns nil.
func GetCalculatorsToRun(algo string, factory factorial.CalculatorFactory) []factorial.Calculator {
	if algo == "all" {
		keys := factory.List()
		calculators := make([]factorial.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(algo); err == nil {
		return []factorial.Calculator{calc}
	}
	return nil
}
