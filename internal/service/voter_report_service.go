package service

import (
	"context"
	"time"

	"quad/internal/cache"
	"quad/internal/models"
	"quad/internal/observability"
	"quad/internal/repository"
	"quad/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// MinBirthYearOption is the earliest year offered in filter forms.
const MinBirthYearOption = 1900

// VoterReportService answers voter queries and builds summarized reports.
type VoterReportService struct {
	voterRepo repository.VoterRepository
	reportTTL time.Duration
	now       func() time.Time
}

// NewVoterReportService returns a service whose reports are cached for
// reportTTL. A non-positive TTL disables report caching.
func NewVoterReportService(voterRepo repository.VoterRepository, reportTTL time.Duration) *VoterReportService {
	return &VoterReportService{voterRepo: voterRepo, reportTTL: reportTTL, now: time.Now}
}

// QueryVoters returns the records matching every set field of criteria.
func (s *VoterReportService) QueryVoters(ctx context.Context, criteria models.VoterCriteria) ([]models.VoterRecord, error) {
	if err := validation.Struct(criteria); err != nil {
		return nil, err
	}
	return s.voterRepo.Query(ctx, criteria)
}

func (s *VoterReportService) GetVoter(ctx context.Context, id uint) (*models.VoterRecord, error) {
	return s.voterRepo.GetByID(ctx, id)
}

// Report summarizes every record matching criteria and returns the page
// selected by Limit and Offset alongside the summary.
func (s *VoterReportService) Report(ctx context.Context, criteria models.VoterCriteria) (*models.VoterReport, error) {
	if err := validation.Struct(criteria); err != nil {
		return nil, err
	}

	span, ctx := observability.NewSpan(ctx, "voter_report.report")
	defer span.End()

	var report models.VoterReport
	build := func() error {
		built, err := s.buildReport(ctx, criteria)
		if err != nil {
			return err
		}
		report = *built
		return nil
	}

	var err error
	if s.reportTTL > 0 {
		var key string
		if key, err = cache.VoterReportKey(criteria); err == nil {
			err = cache.Aside(ctx, key, &report, s.reportTTL, build)
		}
	} else {
		err = build()
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("total", report.Summary.Total))
	return &report, nil
}

func (s *VoterReportService) buildReport(ctx context.Context, criteria models.VoterCriteria) (*models.VoterReport, error) {
	all := criteria
	all.Limit, all.Offset = 0, 0
	records, err := s.voterRepo.Query(ctx, all)
	if err != nil {
		return nil, err
	}

	page := records
	if criteria.Offset > 0 {
		page = page[min(criteria.Offset, len(page)):]
	}
	if criteria.Limit > 0 && len(page) > criteria.Limit {
		page = page[:criteria.Limit]
	}

	return &models.VoterReport{
		Criteria: criteria,
		Records:  page,
		Summary:  Summarize(records),
	}, nil
}

// FilterOptions lists the values a criteria form can offer.
func (s *VoterReportService) FilterOptions(ctx context.Context) (*models.VoterFilterOptions, error) {
	var opts models.VoterFilterOptions
	err := cache.Aside(ctx, cache.VoterOptionsKey, &opts, cache.DefaultReportTTL, func() error {
		parties, err := s.voterRepo.Parties(ctx)
		if err != nil {
			return err
		}
		opts.Parties = parties
		for y := MinBirthYearOption; y <= s.now().Year(); y++ {
			opts.Years = append(opts.Years, y)
		}
		for score := 0; score <= len(models.Elections); score++ {
			opts.Scores = append(opts.Scores, score)
		}
		opts.Elections = append([]models.Election(nil), models.Elections...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &opts, nil
}
