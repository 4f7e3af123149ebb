package postgres

import (
	"context"
	"database/sql"
	"errors"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type materialRepository struct {
	db *sql.DB
}

func NewMaterialRepository(db *sql.DB) repository.MaterialRepository {
	return &materialRepository{db: db}
}

const materialColumns = `material_id, isbn, title, subtitle, publication_year, language, pages,
	material_type, description, cover_image_url, created_date`

func scanMaterial(row interface{ Scan(...any) error }) (*domain.Material, error) {
	m := &domain.Material{}
	var isbn, subtitle, description, coverURL sql.NullString
	var year, pages sql.NullInt32
	err := row.Scan(&m.ID, &isbn, &m.Title, &subtitle, &year, &m.Language, &pages,
		&m.MaterialType, &description, &coverURL, &m.CreatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMaterialNotFound
		}
		return nil, err
	}
	m.ISBN = isbn.String
	m.Subtitle = subtitle.String
	m.PublicationYear = year.Int32
	m.Pages = pages.Int32
	m.Description = description.String
	m.CoverImageURL = coverURL.String
	return m, nil
}

func (r *materialRepository) Create(ctx context.Context, m *domain.Material) error {
	query := `INSERT INTO materials (isbn, title, subtitle, publication_year, language, pages,
	            material_type, description, cover_image_url, created_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING material_id`
	return r.db.QueryRowContext(ctx, query, nullString(m.ISBN), m.Title, nullString(m.Subtitle),
		nullInt32(m.PublicationYear), m.Language, nullInt32(m.Pages), m.MaterialType,
		nullString(m.Description), nullString(m.CoverImageURL), m.CreatedDate).Scan(&m.ID)
}

func (r *materialRepository) GetByID(ctx context.Context, id int32) (*domain.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE material_id = $1`
	return scanMaterial(r.db.QueryRowContext(ctx, query, id))
}

func (r *materialRepository) Update(ctx context.Context, m *domain.Material) error {
	query := `UPDATE materials SET isbn = $2, title = $3, subtitle = $4, publication_year = $5,
	            language = $6, pages = $7, material_type = $8, description = $9
	          WHERE material_id = $1`
	res, err := r.db.ExecContext(ctx, query, m.ID, nullString(m.ISBN), m.Title, nullString(m.Subtitle),
		nullInt32(m.PublicationYear), m.Language, nullInt32(m.Pages), m.MaterialType,
		nullString(m.Description))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func (r *materialRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE material_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}

func (r *materialRepository) Search(ctx context.Context, query string, materialType string, page, pageSize int32) ([]domain.Material, int32, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if query != "" {
		args = append(args, "%"+query+"%")
		n := len(args)
		where += ` AND (title ILIKE $` + itoa(n) + ` OR subtitle ILIKE $` + itoa(n) + ` OR isbn ILIKE $` + itoa(n) + `)`
	}
	if materialType != "" {
		args = append(args, materialType)
		where += ` AND material_type = $` + itoa(len(args))
	}

	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	listQuery := `SELECT ` + materialColumns + ` FROM materials` + where +
		` ORDER BY title LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, err
		}
		materials = append(materials, *m)
	}
	return materials, total, rows.Err()
}

func (r *materialRepository) SetCoverImageURL(ctx context.Context, id int32, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE materials SET cover_image_url = $2 WHERE material_id = $1`, id, url)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMaterialNotFound
	}
	return nil
}
