package service

import (
	"context"

	"quad/internal/models"
)

type friendRepoStub struct {
	addFn            func(context.Context, uint, uint) (bool, error)
	removeFn         func(context.Context, uint, uint) (bool, error)
	areFriendsFn     func(context.Context, uint, uint) (bool, error)
	getFriendIDsFn   func(context.Context, uint) ([]uint, error)
	getFriendsFn     func(context.Context, uint) ([]models.Profile, error)
	getSuggestionsFn func(context.Context, uint, int) ([]models.FriendSuggestion, error)
	getRankedFn      func(context.Context, uint, int) ([]models.FriendSuggestion, error)
}

func (s *friendRepoStub) Add(ctx context.Context, a, b uint) (bool, error) {
	return s.addFn(ctx, a, b)
}
func (s *friendRepoStub) Remove(ctx context.Context, a, b uint) (bool, error) {
	return s.removeFn(ctx, a, b)
}
func (s *friendRepoStub) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return s.areFriendsFn(ctx, a, b)
}
func (s *friendRepoStub) GetFriendIDs(ctx context.Context, id uint) ([]uint, error) {
	return s.getFriendIDsFn(ctx, id)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, id uint) ([]models.Profile, error) {
	return s.getFriendsFn(ctx, id)
}
func (s *friendRepoStub) GetSuggestions(ctx context.Context, id uint, limit int) ([]models.FriendSuggestion, error) {
	return s.getSuggestionsFn(ctx, id, limit)
}
func (s *friendRepoStub) GetRankedSuggestions(ctx context.Context, id uint, limit int) ([]models.FriendSuggestion, error) {
	return s.getRankedFn(ctx, id, limit)
}

type profileRepoStub struct {
	createFn   func(context.Context, *models.Profile) error
	getByIDFn  func(context.Context, uint) (*models.Profile, error)
	getByIDsFn func(context.Context, []uint) ([]models.Profile, error)
	updateFn   func(context.Context, *models.Profile) error
	listFn     func(context.Context, int, int) ([]models.Profile, error)
	existsFn   func(context.Context, uint) (bool, error)
	statsFn    func(context.Context, uint) (*models.ProfileStats, error)
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.Profile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Profile, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.Profile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *profileRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *profileRepoStub) Stats(ctx context.Context, id uint) (*models.ProfileStats, error) {
	return s.statsFn(ctx, id)
}

type voterRepoStub struct {
	createBatchFn func(context.Context, []models.VoterRecord, int) error
	createFn      func(context.Context, *models.VoterRecord) error
	getByIDFn     func(context.Context, uint) (*models.VoterRecord, error)
	queryFn       func(context.Context, models.VoterCriteria) ([]models.VoterRecord, error)
	countFn       func(context.Context, models.VoterCriteria) (int64, error)
	partiesFn     func(context.Context) ([]string, error)
}

func (s *voterRepoStub) CreateBatch(ctx context.Context, records []models.VoterRecord, size int) error {
	return s.createBatchFn(ctx, records, size)
}
func (s *voterRepoStub) Create(ctx context.Context, r *models.VoterRecord) error {
	return s.createFn(ctx, r)
}
func (s *voterRepoStub) GetByID(ctx context.Context, id uint) (*models.VoterRecord, error) {
	return s.getByIDFn(ctx, id)
}
func (s *voterRepoStub) Query(ctx context.Context, c models.VoterCriteria) ([]models.VoterRecord, error) {
	return s.queryFn(ctx, c)
}
func (s *voterRepoStub) Count(ctx context.Context, c models.VoterCriteria) (int64, error) {
	return s.countFn(ctx, c)
}
func (s *voterRepoStub) Parties(ctx context.Context) ([]string, error) {
	return s.partiesFn(ctx)
}

func existingProfiles(ids ...uint) *profileRepoStub {
	known := make(map[uint]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &profileRepoStub{
		existsFn: func(_ context.Context, id uint) (bool, error) { return known[id], nil },
	}
}
