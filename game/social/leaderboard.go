package social

import (
	"context"
	"strconv"

	"github.com/mistfall/emberhold/cache"
	"github.com/mistfall/emberhold/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Leaderboard kinds.
const (
	RankHonor = "honor"
	RankLevel = "level"
)

// Entry is one leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	CharID int64  `json:"char_id"`
	Name   string `json:"name"`
	Class  string `json:"class"`
	Level  int    `json:"level"`
	Honor  int64  `json:"honor"`
}

// Leaderboard serves ranked character lists from a cache ZSet, with
// the database as both the source of the periodic refresh and the
// fallback when the cache is cold.
type Leaderboard struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

// NewLeaderboard wires the leaderboard service.
func NewLeaderboard(db *gorm.DB, c cache.Cache, logger *zap.Logger) *Leaderboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Leaderboard{db: db, cache: c, logger: logger}
}

func rankKey(kind string) string { return "rank:" + kind }

// Refresh rebuilds both rankings from the database. The scheduler runs
// it periodically; a failure leaves the previous scores serving.
func (l *Leaderboard) Refresh(ctx context.Context) error {
	var recs []model.Character
	if err := l.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return err
	}
	for _, rec := range recs {
		member := strconv.FormatInt(rec.ID, 10)
		if err := l.cache.ZAdd(ctx, rankKey(RankHonor), float64(rec.Honor), member); err != nil {
			return err
		}
		if err := l.cache.ZAdd(ctx, rankKey(RankLevel), float64(rec.Level), member); err != nil {
			return err
		}
	}
	return nil
}

// Update rescores one character in both rankings, typically on session
// commit.
func (l *Leaderboard) Update(ctx context.Context, charID int64, level int, honor int64) {
	member := strconv.FormatInt(charID, 10)
	if err := l.cache.ZAdd(ctx, rankKey(RankHonor), float64(honor), member); err != nil {
		l.logger.Warn("rank update failed", zap.Error(err))
		return
	}
	if err := l.cache.ZAdd(ctx, rankKey(RankLevel), float64(level), member); err != nil {
		l.logger.Warn("rank update failed", zap.Error(err))
	}
}

// Top returns the first n entries of a ranking. A cold cache falls
// back to a direct database query and triggers a refill.
func (l *Leaderboard) Top(ctx context.Context, kind string, n int) ([]Entry, error) {
	if n <= 0 {
		n = 10
	}
	members, err := l.cache.ZRevRange(ctx, rankKey(kind), 0, int64(n)-1)
	if err == nil && len(members) > 0 {
		return l.hydrate(ctx, members)
	}

	order := "honor DESC"
	if kind == RankLevel {
		order = "level DESC, exp DESC"
	}
	var recs []model.Character
	if err := l.db.WithContext(ctx).Order(order).Limit(n).Find(&recs).Error; err != nil {
		return nil, err
	}
	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn("rank refill failed", zap.Error(err))
	}
	out := make([]Entry, len(recs))
	for i, rec := range recs {
		out[i] = entryOf(i+1, &rec)
	}
	return out, nil
}

// hydrate resolves ZSet members back to display rows, keeping the
// cache's ordering.
func (l *Leaderboard) hydrate(ctx context.Context, members []string) ([]Entry, error) {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	var recs []model.Character
	if err := l.db.WithContext(ctx).Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Character, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, entryOf(len(out)+1, rec))
		}
	}
	return out, nil
}

func entryOf(rank int, rec *model.Character) Entry {
	return Entry{
		Rank:   rank,
		CharID: rec.ID,
		Name:   rec.Name,
		Class:  rec.Class,
		Level:  rec.Level,
		Honor:  rec.Honor,
	}
}
