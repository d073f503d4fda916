package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sealbound/pactkeeper/internal/database"
	"github.com/sealbound/pactkeeper/internal/models"
)

type ContractRepository struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO contracts (user_id, title, body, category, status, signature)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING contract_id, created_at`,
		contract.UserID, contract.Title, contract.Body, contract.Category, contract.Status, contract.Signature,
	).Scan(&contract.ContractID, &contract.CreatedAt)
}

func (r *ContractRepository) GetByID(ctx context.Context, contractID int, userID int64) (*models.Contract, error) {
	contract := &models.Contract{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT contract_id, user_id, title, body, category, status, signature, created_at
		 FROM contracts WHERE contract_id = $1 AND user_id = $2`,
		contractID, userID,
	).Scan(&contract.ContractID, &contract.UserID, &contract.Title, &contract.Body,
		&contract.Category, &contract.Status, &contract.Signature, &contract.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *ContractRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Contract, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT contract_id, user_id, title, body, category, status, signature, created_at
		 FROM contracts WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*models.Contract
	for rows.Next() {
		contract := &models.Contract{}
		if err := rows.Scan(&contract.ContractID, &contract.UserID, &contract.Title, &contract.Body,
			&contract.Category, &contract.Status, &contract.Signature, &contract.CreatedAt); err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

// GetActiveWithConditions loads every active contract together with its
// conditions, across all users. This is the scheduler's per-tick working set.
func (r *ContractRepository) GetActiveWithConditions(ctx context.Context) ([]*models.ContractWithConditions, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT c.contract_id, c.user_id, c.title, c.body, c.category, c.status, c.signature, c.created_at,
		        d.condition_id, d.type, d.value, d.is_recurring, d.active
		 FROM contracts c
		 LEFT JOIN conditions d ON d.contract_id = c.contract_id
		 WHERE c.status = 'active'
		 ORDER BY c.contract_id`,
		)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ContractWithConditions
	byID := make(map[int]*models.ContractWithConditions)

	for rows.Next() {
		contract := models.Contract{}
		var condID *int
		var condType *string
		var condValue *string
		var condRecurring, condActive *bool

		if err := rows.Scan(&contract.ContractID, &contract.UserID, &contract.Title, &contract.Body,
			&contract.Category, &contract.Status, &contract.Signature, &contract.CreatedAt,
			&condID, &condType, &condValue, &condRecurring, &condActive); err != nil {
			return nil, err
		}

		cw, ok := byID[contract.ContractID]
		if !ok {
			cw = &models.ContractWithConditions{Contract: contract}
			byID[contract.ContractID] = cw
			result = append(result, cw)
		}
		if condID != nil {
			cw.Conditions = append(cw.Conditions, &models.Condition{
				ConditionID: *condID,
				ContractID:  contract.ContractID,
				Type:        models.ConditionType(*condType),
				Value:       *condValue,
				IsRecurring: *condRecurring,
				Active:      *condActive,
			})
		}
	}
	return result, rows.Err()
}

// UpdateStatus enforces the contract status machine: the update only applies
// when the stored status allows the transition.
func (r *ContractRepository) UpdateStatus(ctx context.Context, contractID int, userID int64, to models.ContractStatus) error {
	contract, err := r.GetByID(ctx, contractID, userID)
	if err != nil {
		return err
	}
	if !contract.CanTransition(to) {
		return ErrInvalidTransition
	}
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE contracts SET status = $1 WHERE contract_id = $2 AND user_id = $3 AND status = $4`,
		to, contractID, userID, contract.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *ContractRepository) SetSignature(ctx context.Context, contractID int, userID int64, signature string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE contracts SET signature = $1 WHERE contract_id = $2 AND user_id = $3`,
		signature, contractID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContractRepository) Delete(ctx context.Context, contractID int, userID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM contracts WHERE contract_id = $1 AND user_id = $2`,
		contractID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContractRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

func (r *ContractRepository) CountByStatus(ctx context.Context, userID int64, status models.ContractStatus) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts WHERE user_id = $1 AND status = $2`, userID, status,
	).Scan(&count)
	return count, err
}
