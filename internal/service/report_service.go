package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/sponsor-cards/internal/repository"
)

// DefaultScanLimit is how many audit entries the dashboard shows.
const DefaultScanLimit = 200

// Dashboard is the admin overview.
type Dashboard struct {
	Totals     repository.CardTotals     `json:"totals"`
	PerSponsor []repository.SponsorUsage `json:"perSponsor"`
	Scans      []repository.ScanView     `json:"scans"`
}

// ReportService aggregates read-only views.  It has no invariants of its
// own; an empty store produces zero totals and empty lists.
type ReportService struct {
	reports   *repository.ReportRepo
	scans     *repository.ScanRepo
	scanLimit int
}

// NewReportService returns a ReportService.  A non-positive scanLimit
// falls back to DefaultScanLimit.
func NewReportService(reports *repository.ReportRepo, scans *repository.ScanRepo, scanLimit int) *ReportService {
	if scanLimit <= 0 {
		scanLimit = DefaultScanLimit
	}
	return &ReportService{reports: reports, scans: scans, scanLimit: scanLimit}
}

// Dashboard collects totals by status, redemptions per sponsor and the
// most recent audit entries.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	totals, err := s.reports.Totals(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("totals: %w", err)
	}
	per, err := s.reports.PerSponsor(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("per sponsor: %w", err)
	}
	scans, err := s.scans.ListRecent(ctx, s.scanLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("recent scans: %w", err)
	}
	return Dashboard{Totals: totals, PerSponsor: per, Scans: scans}, nil
}

// PublicAvailability lists sponsors with their remaining uses.
func (s *ReportService) PublicAvailability(ctx context.Context) ([]repository.SponsorAvailability, error) {
	return s.reports.Availability(ctx)
}
