package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/notify"
)

type fakeContracts struct {
	contracts []*models.ContractWithConditions
	err       error
}

func (f *fakeContracts) GetActiveWithConditions(context.Context) ([]*models.ContractWithConditions, error) {
	return f.contracts, f.err
}

type fakeConditions struct {
	deactivated []int
}

func (f *fakeConditions) Deactivate(_ context.Context, conditionID int) error {
	f.deactivated = append(f.deactivated, conditionID)
	return nil
}

type recordedRow struct {
	contractID int
	userID     int64
	at         time.Time
}

type fakeLedger struct {
	rows       []recordedRow
	messageIDs map[int]int
	nextID     int
	seen       map[string]int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{messageIDs: make(map[int]int), seen: make(map[string]int)}
}

func (f *fakeLedger) Record(_ context.Context, contractID int, userID int64, triggeredAt time.Time) (int, bool, error) {
	key := fmt.Sprintf("%d@%s", contractID, triggeredAt.Truncate(time.Minute).Format("2006-01-02T15:04"))
	if id, ok := f.seen[key]; ok {
		return id, false, nil
	}
	f.nextID++
	f.seen[key] = f.nextID
	f.rows = append(f.rows, recordedRow{contractID: contractID, userID: userID, at: triggeredAt})
	return f.nextID, true, nil
}

func (f *fakeLedger) SetLastMessageID(_ context.Context, reminderID, messageID int) error {
	f.messageIDs[reminderID] = messageID
	return nil
}

type fakeSettings struct {
	settings map[int64]*models.UserSettings
}

func (f *fakeSettings) GetOrCreate(_ context.Context, userID int64) (*models.UserSettings, error) {
	if s, ok := f.settings[userID]; ok {
		return s, nil
	}
	return models.NewDefaultUserSettings(userID), nil
}

type fakeDispatcher struct {
	sent    []notify.Request
	failFor map[int64]bool
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req notify.Request) (int, error) {
	if f.failFor[req.UserID] {
		return 0, notify.ErrDispatchFailed
	}
	f.sent = append(f.sent, req)
	return 1000 + req.ReminderID, nil
}

func contractAt(id int, userID int64, hhmm string) *models.ContractWithConditions {
	return &models.ContractWithConditions{
		Contract: models.Contract{ContractID: id, UserID: userID, Title: "pact", Status: models.StatusActive},
		Conditions: []*models.Condition{
			{ConditionID: id * 10, ContractID: id, Type: models.ConditionTime, Value: hhmm, IsRecurring: true, Active: true},
		},
	}
}

func newTestScheduler(contracts *fakeContracts, dispatcher *fakeDispatcher) (*Scheduler, *fakeLedger, *fakeConditions) {
	ledger := newFakeLedger()
	conds := &fakeConditions{}
	s := New(contracts, conds, ledger, &fakeSettings{}, dispatcher)
	return s, ledger, conds
}

func TestCheckRecordsAndDispatches(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "12:30")}}
	dispatcher := &fakeDispatcher{}
	s, ledger, _ := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)

	require.Len(t, ledger.rows, 1)
	assert.Equal(t, 1, ledger.rows[0].contractID)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, int64(7), dispatcher.sent[0].UserID)
	assert.Equal(t, 1001, ledger.messageIDs[dispatcher.sent[0].ReminderID])
}

func TestCheckNoMatchNoWork(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 31, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "12:30")}}
	dispatcher := &fakeDispatcher{}
	s, ledger, _ := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)

	assert.Empty(t, ledger.rows)
	assert.Empty(t, dispatcher.sent)
}

func TestDispatchFailureDoesNotBlockOtherContracts(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{
		contractAt(1, 7, "12:30"),
		contractAt(2, 8, "12:30"),
	}}
	dispatcher := &fakeDispatcher{failFor: map[int64]bool{7: true}}
	s, ledger, _ := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)

	// Both ledger rows exist even though one delivery failed.
	assert.Len(t, ledger.rows, 2)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, int64(8), dispatcher.sent[0].UserID)
}

func TestRepeatTickSameMinuteIsIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "12:30")}}
	dispatcher := &fakeDispatcher{}
	s, ledger, _ := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)
	s.Check(context.Background(), now.Add(10*time.Second))

	assert.Len(t, ledger.rows, 1, "one reminder per contract per matched minute")
	assert.Len(t, dispatcher.sent, 1)
}

func TestOneShotConditionRetired(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contract := contractAt(1, 7, "12:30")
	contract.Conditions[0].IsRecurring = false
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contract}}
	dispatcher := &fakeDispatcher{}
	s, _, conds := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)

	assert.Equal(t, []int{10}, conds.deactivated)
}

func TestRecurringConditionNotRetired(t *testing.T) {
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "12:30")}}
	dispatcher := &fakeDispatcher{}
	s, _, conds := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), now)

	assert.Empty(t, conds.deactivated)
}

func TestQuietHoursRecordWithoutDispatch(t *testing.T) {
	now := time.Date(2024, 1, 16, 23, 0, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "23:00")}}
	dispatcher := &fakeDispatcher{}
	ledger := newFakeLedger()
	settings := &fakeSettings{settings: map[int64]*models.UserSettings{
		7: {UserID: 7, Timezone: "UTC", QuietStart: "22:00", QuietEnd: "08:00", RemindersEnabled: true},
	}}
	s := New(contracts, &fakeConditions{}, ledger, settings, dispatcher)

	s.Check(context.Background(), now)

	assert.Len(t, ledger.rows, 1, "the due reminder is still recorded")
	assert.Empty(t, dispatcher.sent, "no delivery during quiet hours")
}

func TestTimezoneAwareMatching(t *testing.T) {
	// 12:30 UTC is 07:30 in New York; the user's 07:30 condition fires.
	now := time.Date(2024, 1, 16, 12, 30, 0, 0, time.UTC)
	contracts := &fakeContracts{contracts: []*models.ContractWithConditions{contractAt(1, 7, "07:30")}}
	dispatcher := &fakeDispatcher{}
	ledger := newFakeLedger()
	settings := &fakeSettings{settings: map[int64]*models.UserSettings{
		7: {UserID: 7, Timezone: "America/New_York", QuietStart: "22:00", QuietEnd: "06:00", RemindersEnabled: true},
	}}
	s := New(contracts, &fakeConditions{}, ledger, settings, dispatcher)

	s.Check(context.Background(), now)

	assert.Len(t, dispatcher.sent, 1)
}

func TestContractLoadErrorAbortsTickQuietly(t *testing.T) {
	contracts := &fakeContracts{err: errors.New("db down")}
	dispatcher := &fakeDispatcher{}
	s, ledger, _ := newTestScheduler(contracts, dispatcher)

	s.Check(context.Background(), time.Now())

	assert.Empty(t, ledger.rows)
	assert.Empty(t, dispatcher.sent)
}
