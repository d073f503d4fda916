package trigger

import (
	"fmt"
	"time"

	"github.com/sealbound/pactkeeper/internal/models"
)

// FireEvent signals that a contract's trigger matched at the current tick.
type FireEvent struct {
	Contract  *models.Contract
	Condition *models.Condition
	MatchedAt time.Time
}

// ScanError records a single contract's evaluation failure. A bad condition
// row never aborts the scan for the remaining contracts.
type ScanError struct {
	ContractID  int
	ConditionID int
	Err         error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("contract %d condition %d: %v", e.ContractID, e.ConditionID, e.Err)
}

// Scan evaluates every active contract's conditions against nowLocal and
// returns one fire event per matching contract. Conditions are OR-ed: the
// contract fires if any single condition matches, and the first match wins.
// Inactive (exhausted one-shot) conditions and non-active contracts are
// skipped.
func Scan(nowLocal time.Time, contracts []*models.ContractWithConditions) ([]FireEvent, []ScanError) {
	var events []FireEvent
	var errs []ScanError

	for _, contract := range contracts {
		if !contract.IsActive() {
			continue
		}
		for _, cond := range contract.Conditions {
			if !cond.Active {
				continue
			}
			spec, err := Parse(cond)
			if err != nil {
				errs = append(errs, ScanError{
					ContractID:  contract.ContractID,
					ConditionID: cond.ConditionID,
					Err:         err,
				})
				continue
			}
			if spec.Matches(nowLocal) {
				events = append(events, FireEvent{
					Contract:  &contract.Contract,
					Condition: cond,
					MatchedAt: nowLocal,
				})
				break
			}
		}
	}

	return events, errs
}
