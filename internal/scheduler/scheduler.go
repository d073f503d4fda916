package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/sealbound/pactkeeper/internal/models"
	"github.com/sealbound/pactkeeper/internal/notify"
	"github.com/sealbound/pactkeeper/internal/trigger"
)

// ContractSource is the scheduler's read view of the contract store.
type ContractSource interface {
	GetActiveWithConditions(ctx context.Context) ([]*models.ContractWithConditions, error)
}

// ConditionStore deactivates exhausted one-shot conditions.
type ConditionStore interface {
	Deactivate(ctx context.Context, conditionID int) error
}

// Ledger is the scheduler's write view of the reminder ledger.
type Ledger interface {
	Record(ctx context.Context, contractID int, userID int64, triggeredAt time.Time) (int, bool, error)
	SetLastMessageID(ctx context.Context, reminderID int, messageID int) error
}

// SettingsSource resolves per-user timezone and quiet-hour preferences.
type SettingsSource interface {
	GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error)
}

// Scheduler runs the trigger scan on a fixed cadence. The cadence must stay
// at or below one minute: time conditions match an exact minute and a slower
// tick would miss them.
type Scheduler struct {
	contracts     ContractSource
	conditions    ConditionStore
	ledger        Ledger
	settings      SettingsSource
	dispatcher    notify.Dispatcher
	checkInterval time.Duration
	notifyCh      chan struct{}
}

func New(
	contracts ContractSource,
	conditions ConditionStore,
	ledger Ledger,
	settings SettingsSource,
	dispatcher notify.Dispatcher,
) *Scheduler {
	return &Scheduler{
		contracts:     contracts,
		conditions:    conditions,
		ledger:        ledger,
		settings:      settings,
		dispatcher:    dispatcher,
		checkInterval: 1 * time.Minute,
		notifyCh:      make(chan struct{}, 1),
	}
}

// SetInterval overrides the scan cadence. Values above one minute are
// ignored, exact-minute conditions would be missed.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d > 0 && d <= time.Minute {
		s.checkInterval = d
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	s.Check(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.Check(ctx, time.Now())
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.Check(ctx, time.Now())
		}
	}
}

// Check runs one scan tick: evaluate every active contract's conditions in
// its owner's timezone, record a ledger row for each match, retire one-shot
// conditions, and hand matches to the dispatcher. A failure on any single
// contract is logged and never stops the tick.
func (s *Scheduler) Check(ctx context.Context, now time.Time) {
	contracts, err := s.contracts.GetActiveWithConditions(ctx)
	if err != nil {
		log.Printf("Failed to load active contracts: %v", err)
		return
	}
	if len(contracts) == 0 {
		return
	}

	// Conditions are written in the owner's local clock, so group the scan
	// by user and evaluate at each user's local now.
	byUser := make(map[int64][]*models.ContractWithConditions)
	for _, c := range contracts {
		byUser[c.UserID] = append(byUser[c.UserID], c)
	}

	for userID, userContracts := range byUser {
		settings, err := s.settings.GetOrCreate(ctx, userID)
		if err != nil {
			log.Printf("Failed to get settings for user %d: %v", userID, err)
			settings = models.NewDefaultUserSettings(userID)
		}

		localNow := now.In(settings.Location())
		events, scanErrs := trigger.Scan(localNow, userContracts)
		for _, serr := range scanErrs {
			log.Printf("Skipping malformed condition: %v", serr)
		}

		for _, event := range events {
			s.fire(ctx, event, settings, now)
		}
	}
}

// FireManual records and retires a match produced outside the clock scan,
// such as a tag check-in. No dispatch happens: the user is already present.
func (s *Scheduler) FireManual(ctx context.Context, event trigger.FireEvent, now time.Time) (int, bool, error) {
	reminderID, created, err := s.ledger.Record(ctx, event.Contract.ContractID, event.Contract.UserID, now)
	if err != nil {
		return 0, false, err
	}
	if created {
		s.retireOneShot(ctx, event)
	}
	return reminderID, created, nil
}

func (s *Scheduler) fire(ctx context.Context, event trigger.FireEvent, settings *models.UserSettings, now time.Time) {
	// The ledger row is the authoritative record that a reminder was due.
	// It is written before any dispatch attempt and survives delivery
	// failure.
	reminderID, created, err := s.ledger.Record(ctx, event.Contract.ContractID, event.Contract.UserID, now)
	if err != nil {
		log.Printf("Failed to record reminder for contract %d: %v", event.Contract.ContractID, err)
		return
	}
	if !created {
		// Another scan already handled this contract-minute.
		return
	}

	s.retireOneShot(ctx, event)

	if !settings.RemindersEnabled {
		return
	}
	if settings.IsQuietHours(now) {
		log.Printf("Quiet hours for user %d, reminder %d recorded without dispatch", event.Contract.UserID, reminderID)
		return
	}

	messageID, err := s.dispatcher.Dispatch(ctx, notify.Request{
		UserID:        event.Contract.UserID,
		ReminderID:    reminderID,
		ContractTitle: event.Contract.Title,
		ContractBody:  event.Contract.Body,
	})
	if err != nil {
		log.Printf("Failed to dispatch reminder %d for contract %d: %v", reminderID, event.Contract.ContractID, err)
		return
	}

	if err := s.ledger.SetLastMessageID(ctx, reminderID, messageID); err != nil {
		log.Printf("Failed to save message id for reminder %d: %v", reminderID, err)
	}
	log.Printf("Sent reminder %d to user %d (contract %d)", reminderID, event.Contract.UserID, event.Contract.ContractID)
}

func (s *Scheduler) retireOneShot(ctx context.Context, event trigger.FireEvent) {
	if event.Condition.IsRecurring {
		return
	}
	// One-shot exhaustion retires the matched condition only; sibling
	// conditions keep the contract firing.
	if err := s.conditions.Deactivate(ctx, event.Condition.ConditionID); err != nil {
		log.Printf("Failed to deactivate one-shot condition %d: %v", event.Condition.ConditionID, err)
	}
}
