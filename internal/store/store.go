// Package store holds the GORM-backed repositories for the roster, the
// game slate, and picks.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pickemgo/pickem-backend/internal/models"
)

// ErrDuplicatePick is returned when an insert loses the race for a turn
// (another pick already holds the same overall number for the week).
var ErrDuplicatePick = errors.New("store: duplicate pick")

// ErrNotFound wraps gorm.ErrRecordNotFound for callers outside the store.
var ErrNotFound = errors.New("store: not found")

// AutoMigrate creates or updates the schema for all persistent models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Player{}, &models.Game{}, &models.Pick{})
}

// PlayerStore reads and writes the roster.
type PlayerStore struct {
	db *gorm.DB
}

func NewPlayerStore(db *gorm.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

// Roster returns active players in base round-1 order.
func (s *PlayerStore) Roster(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("draft_slot asc").
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return players, nil
}

func (s *PlayerStore) Create(ctx context.Context, player *models.Player) error {
	if err := s.db.WithContext(ctx).Create(player).Error; err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GameStore reads and writes the weekly slate.
type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) Create(ctx context.Context, game *models.Game) error {
	if err := s.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (s *GameStore) Get(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).First(&game, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %d: %w", id, err)
	}
	return &game, nil
}

func (s *GameStore) ByWeek(ctx context.Context, season, week int) ([]models.Game, error) {
	var games []models.Game
	err := s.db.WithContext(ctx).
		Where("season = ? AND week = ?", season, week).
		Order("kickoff asc").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load games for week %d: %w", week, err)
	}
	return games, nil
}

// RecordResult stores a final score.
func (s *GameStore) RecordResult(ctx context.Context, id int64, awayScore, homeScore int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"away_score": awayScore,
			"home_score": homeScore,
			"final":      true,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to record result for game %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return nil
}

// PickStore reads and writes picks.
type PickStore struct {
	db *gorm.DB
}

func NewPickStore(db *gorm.DB) *PickStore {
	return &PickStore{db: db}
}

// Insert persists a pick. The unique index on (season, week,
// overall_number) arbitrates concurrent submissions for the same turn;
// losers get ErrDuplicatePick.
func (s *PickStore) Insert(ctx context.Context, pick *models.Pick) error {
	err := s.db.WithContext(ctx).Create(pick).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePick
	}
	if err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

// CountByKind returns how many ATS and O/U picks exist for a week.
func (s *PickStore) CountByKind(ctx context.Context, season, week int) (ats int64, ou int64, err error) {
	base := s.db.WithContext(ctx).Model(&models.Pick{}).
		Where("season = ? AND week = ?", season, week)

	if err := base.Session(&gorm.Session{}).Where("kind = ?", models.PickKindATS).Count(&ats).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count ats picks: %w", err)
	}
	if err := base.Session(&gorm.Session{}).Where("kind = ?", models.PickKindOU).Count(&ou).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count ou picks: %w", err)
	}
	return ats, ou, nil
}

func (s *PickStore) ByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	var picks []models.Pick
	err := s.db.WithContext(ctx).
		Where("season = ? AND week = ?", season, week).
		Order("overall_number asc").
		Find(&picks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for week %d: %w", week, err)
	}
	return picks, nil
}

func (s *PickStore) BySeason(ctx context.Context, season int) ([]models.Pick, error) {
	var picks []models.Pick
	err := s.db.WithContext(ctx).
		Where("season = ?", season).
		Order("week asc, overall_number asc").
		Find(&picks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for season %d: %w", season, err)
	}
	return picks, nil
}

func (s *PickStore) UpdateResult(ctx context.Context, id int64, result models.PickResult) error {
	err := s.db.WithContext(ctx).
		Model(&models.Pick{}).
		Where("id = ?", id).
		Update("result", result).Error
	if err != nil {
		return fmt.Errorf("failed to update pick %d result: %w", id, err)
	}
	return nil
}

// HasOUPick reports whether the player already holds their one O/U pick
// for the week.
func (s *PickStore) HasOUPick(ctx context.Context, season, week int, playerID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Pick{}).
		Where("season = ? AND week = ? AND player_id = ? AND kind = ?",
			season, week, playerID, models.PickKindOU).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ou pick: %w", err)
	}
	return count > 0, nil
}
