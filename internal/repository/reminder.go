package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sealbound/pactkeeper/internal/database"
	"github.com/sealbound/pactkeeper/internal/models"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Record appends a pending reminder to the ledger. triggeredAt is truncated
// to the minute, and the (contract, minute) pair is unique, so overlapping
// scans of the same tick cannot produce duplicate rows. Returns the reminder
// id and whether a new row was created.
func (r *ReminderRepository) Record(ctx context.Context, contractID int, userID int64, triggeredAt time.Time) (int, bool, error) {
	minute := triggeredAt.Truncate(time.Minute)

	var reminderID int
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (contract_id, user_id, triggered_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (contract_id, triggered_at) DO NOTHING
		 RETURNING reminder_id`,
		contractID, userID, minute,
	).Scan(&reminderID)
	if err == nil {
		return reminderID, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	// Conflict: the row for this minute already exists.
	err = r.db.Pool.QueryRow(ctx,
		`SELECT reminder_id FROM reminders WHERE contract_id = $1 AND triggered_at = $2`,
		contractID, minute,
	).Scan(&reminderID)
	if err != nil {
		return 0, false, err
	}
	return reminderID, false, nil
}

func (r *ReminderRepository) GetByID(ctx context.Context, reminderID int) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	var response string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT reminder_id, contract_id, user_id, triggered_at, response, responded_at, reflection_note, last_message_id
		 FROM reminders WHERE reminder_id = $1`,
		reminderID,
	).Scan(&reminder.ReminderID, &reminder.ContractID, &reminder.UserID, &reminder.TriggeredAt,
		&response, &reminder.RespondedAt, &reminder.ReflectionNote, &reminder.LastMessageID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	reminder.Response = models.ReminderResponse(response)
	return reminder, nil
}

// Respond records the user's verdict on a pending reminder. The update is
// guarded on the response still being empty, so a second response fails with
// ErrAlreadyResponded and leaves the stored row untouched.
func (r *ReminderRepository) Respond(ctx context.Context, reminderID int, response models.ReminderResponse, note string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders
		 SET response = $1, responded_at = NOW(), reflection_note = $2
		 WHERE reminder_id = $3 AND response = ''`,
		response, note, reminderID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: distinguish missing from already responded.
	var exists bool
	err = r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reminders WHERE reminder_id = $1)`, reminderID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyResponded
}

func (r *ReminderRepository) GetPendingByUserID(ctx context.Context, userID int64) ([]*models.ReminderWithContract, error) {
	return r.queryWithContract(ctx,
		`SELECT r.reminder_id, r.contract_id, r.user_id, r.triggered_at, r.response,
		        r.responded_at, r.reflection_note, r.last_message_id, c.title
		 FROM reminders r JOIN contracts c ON c.contract_id = r.contract_id
		 WHERE r.user_id = $1 AND r.response = ''
		 ORDER BY r.triggered_at DESC`,
		userID,
	)
}

func (r *ReminderRepository) GetHistoryByUserID(ctx context.Context, userID int64, limit int) ([]*models.ReminderWithContract, error) {
	return r.queryWithContract(ctx,
		`SELECT r.reminder_id, r.contract_id, r.user_id, r.triggered_at, r.response,
		        r.responded_at, r.reflection_note, r.last_message_id, c.title
		 FROM reminders r JOIN contracts c ON c.contract_id = r.contract_id
		 WHERE r.user_id = $1
		 ORDER BY r.triggered_at DESC
		 LIMIT $2`,
		userID, limit,
	)
}

func (r *ReminderRepository) queryWithContract(ctx context.Context, sql string, args ...any) ([]*models.ReminderWithContract, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*models.ReminderWithContract
	for rows.Next() {
		rem := &models.ReminderWithContract{}
		var response string
		if err := rows.Scan(&rem.ReminderID, &rem.ContractID, &rem.UserID, &rem.TriggeredAt,
			&response, &rem.RespondedAt, &rem.ReflectionNote, &rem.LastMessageID, &rem.ContractTitle); err != nil {
			return nil, err
		}
		rem.Response = models.ReminderResponse(response)
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// GetKeptTimes returns the trigger timestamps of every kept reminder for the
// user, the streak calculator's input.
func (r *ReminderRepository) GetKeptTimes(ctx context.Context, userID int64) ([]time.Time, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT triggered_at FROM reminders WHERE user_id = $1 AND response = 'kept'`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// CountResponses returns the user's kept and broke totals.
func (r *ReminderRepository) CountResponses(ctx context.Context, userID int64) (kept, broke int, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE response = 'kept'),
		        COUNT(*) FILTER (WHERE response = 'broke')
		 FROM reminders WHERE user_id = $1`,
		userID,
	).Scan(&kept, &broke)
	return kept, broke, err
}

// ContractStats returns the per-contract response counts and the most recent
// trigger time.
func (r *ReminderRepository) ContractStats(ctx context.Context, contractID int) (kept, broke int, lastReminded *time.Time, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE response = 'kept'),
		        COUNT(*) FILTER (WHERE response = 'broke'),
		        MAX(triggered_at)
		 FROM reminders WHERE contract_id = $1`,
		contractID,
	).Scan(&kept, &broke, &lastReminded)
	return kept, broke, lastReminded, err
}

func (r *ReminderRepository) SetLastMessageID(ctx context.Context, reminderID int, messageID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET last_message_id = $1 WHERE reminder_id = $2`,
		messageID, reminderID,
	)
	return err
}
