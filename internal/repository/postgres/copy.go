package postgres

import (
	"context"
	"database/sql"
	"errors"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type copyRepository struct {
	db *sql.DB
}

func NewCopyRepository(db *sql.DB) repository.CopyRepository {
	return &copyRepository{db: db}
}

const copyColumns = `copy_id, material_id, branch_id, barcode, copy_status, copy_condition,
	location, acquired_date`

func scanCopy(row interface{ Scan(...any) error }) (*domain.Copy, error) {
	c := &domain.Copy{}
	var location sql.NullString
	err := row.Scan(&c.ID, &c.MaterialID, &c.BranchID, &c.Barcode, &c.Status, &c.Condition,
		&location, &c.AcquiredDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCopyNotFound
		}
		return nil, err
	}
	c.Location = location.String
	return c, nil
}

func (r *copyRepository) Create(ctx context.Context, c *domain.Copy) error {
	query := `INSERT INTO copies (material_id, branch_id, barcode, copy_status, copy_condition, location, acquired_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING copy_id`
	return r.db.QueryRowContext(ctx, query, c.MaterialID, c.BranchID, c.Barcode, c.Status,
		c.Condition, nullString(c.Location), c.AcquiredDate).Scan(&c.ID)
}

func (r *copyRepository) GetByID(ctx context.Context, id int32) (*domain.Copy, error) {
	query := `SELECT ` + copyColumns + ` FROM copies WHERE copy_id = $1`
	return scanCopy(r.db.QueryRowContext(ctx, query, id))
}

func (r *copyRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.Copy, error) {
	query := `SELECT ` + copyColumns + ` FROM copies WHERE barcode = $1`
	return scanCopy(r.db.QueryRowContext(ctx, query, barcode))
}

func (r *copyRepository) Update(ctx context.Context, c *domain.Copy) error {
	query := `UPDATE copies SET branch_id = $2, copy_status = $3, copy_condition = $4, location = $5
	          WHERE copy_id = $1`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.BranchID, c.Status, c.Condition, nullString(c.Location))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCopyNotFound
	}
	return nil
}

func (r *copyRepository) ListByMaterial(ctx context.Context, materialID int32) ([]domain.Copy, error) {
	query := `SELECT ` + copyColumns + ` FROM copies WHERE material_id = $1 ORDER BY copy_id`
	rows, err := r.db.QueryContext(ctx, query, materialID)
	if err != nil {
		return nil, err
	}
	return collectCopies(rows)
}

func (r *copyRepository) ListByBranch(ctx context.Context, branchID int32, page, pageSize int32) ([]domain.Copy, int32, error) {
	var total int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM copies WHERE branch_id = $1`, branchID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + copyColumns + ` FROM copies WHERE branch_id = $1 ORDER BY copy_id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, branchID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	copies, err := collectCopies(rows)
	return copies, total, err
}

func collectCopies(rows *sql.Rows) ([]domain.Copy, error) {
	defer rows.Close()

	var copies []domain.Copy
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		copies = append(copies, *c)
	}
	return copies, rows.Err()
}
