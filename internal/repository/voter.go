package repository

import (
	"context"
	"errors"

	"quad/internal/models"
	"quad/internal/observability"

	"github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// VoterRepository defines the interface for voter roll data operations
type VoterRepository interface {
	CreateBatch(ctx context.Context, records []models.VoterRecord, batchSize int) error
	Create(ctx context.Context, record *models.VoterRecord) error
	GetByID(ctx context.Context, id uint) (*models.VoterRecord, error)
	Query(ctx context.Context, criteria models.VoterCriteria) ([]models.VoterRecord, error)
	Count(ctx context.Context, criteria models.VoterCriteria) (int64, error)
	Parties(ctx context.Context) ([]string, error)
}

type voterRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewVoterRepository creates a new voter repository
func NewVoterRepository(db *gorm.DB) VoterRepository {
	return &voterRepository{db: db, log: observability.NewRepoLogger("voter_records")}
}

// CreateBatch inserts records in chunks of batchSize inside one transaction.
// Either every record is stored or none is.
func (r *voterRepository) CreateBatch(ctx context.Context, records []models.VoterRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(records)
	}
	defer observability.TrackQuery("create_batch", "voter_records")()

	if err := r.db.WithContext(ctx).CreateInBatches(&records, batchSize).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"rows": len(records), "import_batch": records[0].ImportBatch})
	return nil
}

func (r *voterRepository) Create(ctx context.Context, record *models.VoterRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *voterRepository) GetByID(ctx context.Context, id uint) (*models.VoterRecord, error) {
	var record models.VoterRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Voter", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &record, nil
}

// criteriaConditions turns criteria into a conjunction. An empty result
// means the criteria select every record.
func criteriaConditions(c models.VoterCriteria) squirrel.And {
	conds := squirrel.And{}
	if c.Party != nil {
		conds = append(conds, squirrel.Eq{"party": *c.Party})
	}
	if c.MinBirthYear != nil {
		conds = append(conds, squirrel.GtOrEq{"birth_year": *c.MinBirthYear})
	}
	if c.MaxBirthYear != nil {
		conds = append(conds, squirrel.LtOrEq{"birth_year": *c.MaxBirthYear})
	}
	if c.Score != nil {
		conds = append(conds, squirrel.Eq{"voter_score": *c.Score})
	}
	for _, e := range c.ParticipatedIn {
		col := e.Column()
		if col == "" {
			continue
		}
		conds = append(conds, squirrel.Eq{col: true})
	}
	return conds
}

func (r *voterRepository) filtered(ctx context.Context, c models.VoterCriteria) (*gorm.DB, error) {
	query := r.db.WithContext(ctx).Model(&models.VoterRecord{})
	conds := criteriaConditions(c)
	if len(conds) == 0 {
		return query, nil
	}
	where, args, err := conds.ToSql()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return query.Where(where, args...), nil
}

// Query returns the records matching every set criterion, in id order.
func (r *voterRepository) Query(ctx context.Context, c models.VoterCriteria) ([]models.VoterRecord, error) {
	defer observability.TrackQuery("query", "voter_records")()

	query, err := r.filtered(ctx, c)
	if err != nil {
		return nil, err
	}
	records := []models.VoterRecord{}
	if err := paginate(query.Order("id"), c.Limit, c.Offset).Find(&records).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return records, nil
}

// Count ignores Limit and Offset.
func (r *voterRepository) Count(ctx context.Context, c models.VoterCriteria) (int64, error) {
	query, err := r.filtered(ctx, c)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *voterRepository) Parties(ctx context.Context) ([]string, error) {
	var parties []string
	if err := r.db.WithContext(ctx).
		Model(&models.VoterRecord{}).
		Distinct("party").
		Where("party <> ''").
		Order("party").
		Pluck("party", &parties).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return parties, nil
}
