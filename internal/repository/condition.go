package repository

import (
	"context"

	"github.com/sealbound/pactkeeper/internal/database"
	"github.com/sealbound/pactkeeper/internal/models"
)

type ConditionRepository struct {
	db *database.DB
}

func NewConditionRepository(db *database.DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

func (r *ConditionRepository) Create(ctx context.Context, cond *models.Condition) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO conditions (contract_id, type, value, is_recurring, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING condition_id`,
		cond.ContractID, cond.Type, cond.Value, cond.IsRecurring, cond.Active,
	).Scan(&cond.ConditionID)
}

func (r *ConditionRepository) GetByContractID(ctx context.Context, contractID int) ([]*models.Condition, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT condition_id, contract_id, type, value, is_recurring, active
		 FROM conditions WHERE contract_id = $1 ORDER BY condition_id`,
		contractID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conditions []*models.Condition
	for rows.Next() {
		cond := &models.Condition{}
		if err := rows.Scan(&cond.ConditionID, &cond.ContractID, &cond.Type,
			&cond.Value, &cond.IsRecurring, &cond.Active); err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

// Deactivate marks a one-shot condition as exhausted so it never fires again.
func (r *ConditionRepository) Deactivate(ctx context.Context, conditionID int) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE conditions SET active = false WHERE condition_id = $1`,
		conditionID,
	)
	return err
}

func (r *ConditionRepository) Delete(ctx context.Context, conditionID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM conditions d
		 USING contracts c
		 WHERE d.condition_id = $1 AND d.contract_id = c.contract_id AND c.user_id = $2`,
		conditionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveTagConditions returns the user's active contracts that carry an
// active tag condition matching the checked-in tag. This is the external
// signal path for location/situation conditions, which the clock scan never
// matches on its own.
func (r *ConditionRepository) FindActiveTagConditions(ctx context.Context, userID int64, tag string) ([]*models.ContractWithConditions, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT c.contract_id, c.user_id, c.title, c.body, c.category, c.status, c.signature, c.created_at,
		        d.condition_id, d.type, d.value, d.is_recurring, d.active
		 FROM contracts c
		 JOIN conditions d ON d.contract_id = c.contract_id
		 WHERE c.user_id = $1 AND c.status = 'active' AND d.active = true
		   AND d.type IN ('location_tag', 'situation_tag')
		   AND d.value ILIKE $2
		 ORDER BY c.contract_id`,
		userID, tag,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ContractWithConditions
	byID := make(map[int]*models.ContractWithConditions)
	for rows.Next() {
		contract := models.Contract{}
		cond := &models.Condition{}
		if err := rows.Scan(&contract.ContractID, &contract.UserID, &contract.Title, &contract.Body,
			&contract.Category, &contract.Status, &contract.Signature, &contract.CreatedAt,
			&cond.ConditionID, &cond.Type, &cond.Value, &cond.IsRecurring, &cond.Active); err != nil {
			return nil, err
		}
		cond.ContractID = contract.ContractID

		cw, ok := byID[contract.ContractID]
		if !ok {
			cw = &models.ContractWithConditions{Contract: contract}
			byID[contract.ContractID] = cw
			result = append(result, cw)
		}
		cw.Conditions = append(cw.Conditions, cond)
	}
	return result, rows.Err()
}
