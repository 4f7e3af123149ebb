package postgres

import (
	"context"
	"database/sql"
	"errors"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type branchRepository struct {
	db *sql.DB
}

func NewBranchRepository(db *sql.DB) repository.BranchRepository {
	return &branchRepository{db: db}
}

const branchColumns = `branch_id, branch_name, address, phone, email, opening_hours, created_date`

func scanBranch(row interface{ Scan(...any) error }) (*domain.Branch, error) {
	b := &domain.Branch{}
	var phone, email, hours sql.NullString
	err := row.Scan(&b.ID, &b.Name, &b.Address, &phone, &email, &hours, &b.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBranchNotFound
		}
		return nil, err
	}
	b.Phone = phone.String
	b.Email = email.String
	b.OpeningHours = hours.String
	return b, nil
}

func (r *branchRepository) Create(ctx context.Context, b *domain.Branch) error {
	query := `INSERT INTO branches (branch_name, address, phone, email, opening_hours, created_date)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING branch_id`
	return r.db.QueryRowContext(ctx, query, b.Name, b.Address, nullString(b.Phone),
		nullString(b.Email), nullString(b.OpeningHours), b.CreatedDate).Scan(&b.ID)
}

func (r *branchRepository) GetByID(ctx context.Context, id int32) (*domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE branch_id = $1`
	return scanBranch(r.db.QueryRowContext(ctx, query, id))
}

func (r *branchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY branch_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []domain.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *b)
	}
	return branches, rows.Err()
}
