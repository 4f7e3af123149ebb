package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/logger"
	"openshelf-backend/internal/repository"
	"openshelf-backend/internal/storage"
)

type catalogService struct {
	materialRepo repository.MaterialRepository
	copyRepo     repository.CopyRepository
	branchRepo   repository.BranchRepository
	store        storage.Storage
}

func NewCatalogService(
	materialRepo repository.MaterialRepository,
	copyRepo repository.CopyRepository,
	branchRepo repository.BranchRepository,
	store storage.Storage,
) CatalogService {
	return &catalogService{
		materialRepo: materialRepo,
		copyRepo:     copyRepo,
		branchRepo:   branchRepo,
		store:        store,
	}
}

func (s *catalogService) CreateMaterial(ctx context.Context, m *domain.Material) error {
	m.CreatedDate = time.Now()
	if err := s.materialRepo.Create(ctx, m); err != nil {
		return err
	}
	logger.Info("material created", "material_id", m.ID, "title", m.Title)
	return nil
}

func (s *catalogService) GetMaterial(ctx context.Context, id int32) (*domain.Material, []domain.Copy, error) {
	m, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	copies, err := s.copyRepo.ListByMaterial(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return m, copies, nil
}

func (s *catalogService) UpdateMaterial(ctx context.Context, m *domain.Material) error {
	return s.materialRepo.Update(ctx, m)
}

func (s *catalogService) DeleteMaterial(ctx context.Context, id int32) error {
	return s.materialRepo.Delete(ctx, id)
}

func (s *catalogService) SearchMaterials(ctx context.Context, query, materialType string, page, pageSize int32) ([]domain.Material, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.materialRepo.Search(ctx, query, materialType, page, pageSize)
}

func (s *catalogService) UploadCoverImage(ctx context.Context, materialID int32, filename, contentType string, data io.Reader) (string, error) {
	if _, err := s.materialRepo.GetByID(ctx, materialID); err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("covers/%d/%s%s", materialID, uuid.New().String(), ext)
	if err := s.store.Save(ctx, key, data); err != nil {
		return "", err
	}

	url := s.store.URL(key)
	if err := s.materialRepo.SetCoverImageURL(ctx, materialID, url); err != nil {
		_ = s.store.Delete(ctx, key)
		return "", err
	}
	logger.Info("cover image uploaded", "material_id", materialID, "key", key)
	return url, nil
}

func (s *catalogService) AddCopy(ctx context.Context, c *domain.Copy) error {
	if _, err := s.materialRepo.GetByID(ctx, c.MaterialID); err != nil {
		return err
	}
	if _, err := s.branchRepo.GetByID(ctx, c.BranchID); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = domain.CopyAvailable
	}
	if c.Condition == "" {
		c.Condition = domain.ConditionGood
	}
	c.AcquiredDate = time.Now()
	if err := s.copyRepo.Create(ctx, c); err != nil {
		return err
	}
	logger.Info("copy added", "copy_id", c.ID, "material_id", c.MaterialID, "barcode", c.Barcode)
	return nil
}

func (s *catalogService) GetCopyByBarcode(ctx context.Context, barcode string) (*domain.Copy, error) {
	return s.copyRepo.GetByBarcode(ctx, barcode)
}

func (s *catalogService) UpdateCopy(ctx context.Context, c *domain.Copy) error {
	return s.copyRepo.Update(ctx, c)
}

func (s *catalogService) ListCopiesByBranch(ctx context.Context, branchID, page, pageSize int32) ([]domain.Copy, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.copyRepo.ListByBranch(ctx, branchID, page, pageSize)
}

func (s *catalogService) CreateBranch(ctx context.Context, b *domain.Branch) error {
	b.CreatedDate = time.Now()
	return s.branchRepo.Create(ctx, b)
}

func (s *catalogService) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branchRepo.List(ctx)
}
