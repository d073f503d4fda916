package trigger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbound/pactkeeper/internal/models"
)

func activeContract(id int, conds ...*models.Condition) *models.ContractWithConditions {
	return &models.ContractWithConditions{
		Contract: models.Contract{
			ContractID: id,
			UserID:     1,
			Title:      "test pact",
			Status:     models.StatusActive,
		},
		Conditions: conds,
	}
}

func timeCond(id int, value string) *models.Condition {
	return &models.Condition{ConditionID: id, Type: models.ConditionTime, Value: value, IsRecurring: true, Active: true}
}

func dayCond(id int, value string) *models.Condition {
	return &models.Condition{ConditionID: id, Type: models.ConditionDay, Value: value, IsRecurring: true, Active: true}
}

func TestScanFiresOnAnyCondition(t *testing.T) {
	// 2024-01-16 is a Tuesday; the time condition misses but the day matches.
	now := time.Date(2024, 1, 16, 9, 15, 0, 0, time.UTC)
	contract := activeContract(1, timeCond(1, "07:00"), dayCond(2, "Tuesday"))

	events, errs := Scan(now, []*models.ContractWithConditions{contract})
	require.Empty(t, errs)
	require.Len(t, events, 1, "conditions are OR-ed, one match suffices")
	assert.Equal(t, 1, events[0].Contract.ContractID)
	assert.Equal(t, 2, events[0].Condition.ConditionID)
}

func TestScanFiresOncePerContractPerTick(t *testing.T) {
	// Both conditions match at Tuesday 07:00; still one event.
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
	contract := activeContract(1, timeCond(1, "07:00"), dayCond(2, "Tuesday"))

	events, errs := Scan(now, []*models.ContractWithConditions{contract})
	require.Empty(t, errs)
	assert.Len(t, events, 1)
}

func TestScanNoMatch(t *testing.T) {
	now := time.Date(2024, 1, 16, 9, 15, 0, 0, time.UTC)
	contract := activeContract(1, timeCond(1, "07:00"), dayCond(2, "Friday"))

	events, errs := Scan(now, []*models.ContractWithConditions{contract})
	assert.Empty(t, errs)
	assert.Empty(t, events)
}

func TestScanSkipsNonActiveContracts(t *testing.T) {
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
	for _, status := range []models.ContractStatus{models.StatusPaused, models.StatusCompleted, models.StatusFailed} {
		contract := activeContract(1, timeCond(1, "07:00"))
		contract.Status = status
		events, _ := Scan(now, []*models.ContractWithConditions{contract})
		assert.Empty(t, events, "status %s must not fire", status)
	}
}

func TestScanSkipsInactiveConditions(t *testing.T) {
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
	cond := timeCond(1, "07:00")
	cond.Active = false
	events, _ := Scan(now, []*models.ContractWithConditions{activeContract(1, cond)})
	assert.Empty(t, events)
}

func TestScanOneShotFiresExactlyOnce(t *testing.T) {
	// Simulate 1000 one-minute ticks; the window covers 07:00 on two
	// consecutive days. After the first fire the condition is deactivated,
	// as the scheduler does, so exactly one event is seen.
	cond := &models.Condition{ConditionID: 1, Type: models.ConditionTime, Value: "07:00", IsRecurring: false, Active: true}
	contract := activeContract(1, cond)

	start := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	fired := 0
	for i := 0; i < 1000; i++ {
		now := start.Add(time.Duration(i*2) * time.Minute)
		events, errs := Scan(now, []*models.ContractWithConditions{contract})
		require.Empty(t, errs)
		for _, ev := range events {
			fired++
			if !ev.Condition.IsRecurring {
				ev.Condition.Active = false
			}
		}
	}
	assert.Equal(t, 1, fired)
}

func TestScanMalformedConditionIsolated(t *testing.T) {
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
	bad := activeContract(1, timeCond(1, "not-a-time"))
	good := activeContract(2, timeCond(2, "07:00"))

	events, errs := Scan(now, []*models.ContractWithConditions{bad, good})

	require.Len(t, errs, 1, "malformed row reported, scan continues")
	assert.Equal(t, 1, errs[0].ContractID)
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Contract.ContractID)
}

func TestScanMalformedConditionDoesNotMaskSibling(t *testing.T) {
	now := time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
	contract := activeContract(1, timeCond(1, "25:99"), timeCond(2, "07:00"))

	events, errs := Scan(now, []*models.ContractWithConditions{contract})
	assert.Len(t, errs, 1)
	require.Len(t, events, 1, "a good sibling condition still fires the contract")
	assert.Equal(t, 2, events[0].Condition.ConditionID)
}
