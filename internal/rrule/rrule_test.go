package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbound/pactkeeper/internal/models"
)

func TestNextTriggerTimeCondition(t *testing.T) {
	cond := &models.Condition{ConditionID: 1, Type: models.ConditionTime, Value: "07:30", Active: true}

	// Before 07:30: fires later today.
	now := time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)
	next, err := NextTrigger(cond, now, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 1, 16, 7, 30, 0, 0, time.UTC), next.UTC())

	// After 07:30: fires tomorrow.
	now = time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC)
	next, err = NextTrigger(cond, now, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 1, 17, 7, 30, 0, 0, time.UTC), next.UTC())
}

func TestNextTriggerDayCondition(t *testing.T) {
	cond := &models.Condition{ConditionID: 1, Type: models.ConditionDay, Value: "Friday", Active: true}

	// 2024-01-16 is a Tuesday; next Friday is the 19th.
	now := time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)
	next, err := NextTrigger(cond, now, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Friday, next.Weekday())
	assert.Equal(t, 19, next.Day())
}

func TestNextTriggerTagIsNil(t *testing.T) {
	cond := &models.Condition{ConditionID: 1, Type: models.ConditionLocation, Value: "gym", Active: true}
	next, err := NextTrigger(cond, time.Now(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextTriggerInactiveIsNil(t *testing.T) {
	cond := &models.Condition{ConditionID: 1, Type: models.ConditionTime, Value: "07:30", Active: false}
	next, err := NextTrigger(cond, time.Now(), time.UTC)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextTriggerAcrossPicksEarliest(t *testing.T) {
	now := time.Date(2024, 1, 16, 6, 0, 0, 0, time.UTC)
	conds := []*models.Condition{
		{ConditionID: 1, Type: models.ConditionTime, Value: "09:00", Active: true},
		{ConditionID: 2, Type: models.ConditionTime, Value: "07:30", Active: true},
		{ConditionID: 3, Type: models.ConditionSituation, Value: "tired", Active: true},
	}
	next := NextTriggerAcross(conds, now, time.UTC)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2024, 1, 16, 7, 30, 0, 0, time.UTC), next.UTC())
}

func TestNextTriggerAcrossAllManual(t *testing.T) {
	conds := []*models.Condition{
		{ConditionID: 1, Type: models.ConditionLocation, Value: "gym", Active: true},
	}
	assert.Nil(t, NextTriggerAcross(conds, time.Now(), time.UTC))
}
