package service

import (
	"context"
	"time"

	"openshelf-backend/internal/domain"
	"openshelf-backend/internal/repository"
)

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) DailyCirculation(ctx context.Context, branchID *int32, day time.Time) (*domain.DailyCirculationReport, error) {
	return s.reportRepo.DailyCirculation(ctx, branchID, day)
}
