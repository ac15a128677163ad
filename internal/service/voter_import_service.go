package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"quad/internal/cache"
	"quad/internal/models"
	"quad/internal/observability"
	"quad/internal/repository"
	"quad/internal/voterimport"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultImportBatchSize is used when no batch size is configured.
const DefaultImportBatchSize = 500

// ImportResult reports the outcome of one LoadRecords call.
type ImportResult struct {
	BatchID   string                     `json:"batch_id"`
	Succeeded int                        `json:"succeeded"`
	Failed    []*models.RecordParseError `json:"-"`
}

// FailedCount is the number of rows that were not stored.
func (r *ImportResult) FailedCount() int {
	return len(r.Failed)
}

// VoterImportService loads voter roll files.
type VoterImportService struct {
	voterRepo repository.VoterRepository
	batchSize int
}

func NewVoterImportService(voterRepo repository.VoterRepository, batchSize int) *VoterImportService {
	if batchSize <= 0 {
		batchSize = DefaultImportBatchSize
	}
	return &VoterImportService{voterRepo: voterRepo, batchSize: batchSize}
}

type pendingRow struct {
	line int
	raw  []string
}

// LoadRecords parses src and stores every valid row. Malformed rows are
// logged and returned in Failed; they never abort the import. A batch that
// the database rejects is retried row by row so one bad row only costs itself.
// The returned error is set only when src itself cannot be read.
func (s *VoterImportService) LoadRecords(ctx context.Context, src io.Reader) (*ImportResult, error) {
	result := &ImportResult{BatchID: uuid.NewString()}

	span, ctx := observability.NewSpan(ctx, "voter_import.load_records",
		attribute.String("batch_id", result.BatchID))
	defer span.End()

	reader := voterimport.NewReader(src)
	batch := make([]models.VoterRecord, 0, s.batchSize)
	rows := make([]pendingRow, 0, s.batchSize)

	reject := func(perr *models.RecordParseError) {
		result.Failed = append(result.Failed, perr)
		observability.VoterImportRows.WithLabelValues("failed").Inc()
		observability.LogRowRejected(ctx, result.BatchID, perr.Line, perr.Raw, perr)
	}

	flush := func() {
		if len(batch) == 0 {
			return
		}
		stored := s.storeBatch(ctx, batch, rows, reject)
		result.Succeeded += stored
		observability.VoterImportRows.WithLabelValues("stored").Add(float64(stored))
		batch = batch[:0]
		rows = rows[:0]
	}

	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *models.RecordParseError
		if errors.As(err, &perr) {
			reject(perr)
			continue
		}
		if err != nil {
			flush()
			span.SetError(err)
			return result, err
		}

		record.ImportBatch = result.BatchID
		batch = append(batch, *record)
		rows = append(rows, pendingRow{line: reader.Line(), raw: reader.Raw()})
		if len(batch) == s.batchSize {
			flush()
		}
	}
	flush()

	span.AddAttributes(
		attribute.Int("succeeded", result.Succeeded),
		attribute.Int("failed", result.FailedCount()),
	)
	observability.GlobalLogger.InfoContext(ctx, "voter import finished",
		slog.String("batch_id", result.BatchID),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.FailedCount()),
	)
	if result.Succeeded > 0 {
		cache.InvalidateVoterReports(ctx)
	}
	return result, nil
}

func (s *VoterImportService) storeBatch(
	ctx context.Context,
	batch []models.VoterRecord,
	rows []pendingRow,
	reject func(*models.RecordParseError),
) int {
	if err := s.voterRepo.CreateBatch(ctx, batch, len(batch)); err == nil {
		return len(batch)
	}

	stored := 0
	for i := range batch {
		record := batch[i]
		record.ID = 0
		if err := s.voterRepo.Create(ctx, &record); err != nil {
			reject(&models.RecordParseError{Line: rows[i].line, Raw: rows[i].raw, Err: err})
			continue
		}
		stored++
	}
	return stored
}
