package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang-stock-sentinel/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPortfolioNotFound is returned when no account has been stored under a name.
var ErrPortfolioNotFound = errors.New("portfolio not found")

// PortfolioRepository stores paper-trading accounts as JSON documents.
type PortfolioRepository interface {
	Load(ctx context.Context, name string) (*entity.PortfolioAccount, error)
	Save(ctx context.Context, name string, account *entity.PortfolioAccount) error
}

// NewPortfolioRepository creates a GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

func (r *portfolioRepository) Load(ctx context.Context, name string) (*entity.PortfolioAccount, error) {
	var doc entity.PortfolioDocument
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioNotFound
		}
		return nil, err
	}

	var account entity.PortfolioAccount
	if err := json.Unmarshal(doc.State, &account); err != nil {
		return nil, fmt.Errorf("failed to decode portfolio %s: %w", name, err)
	}
	if account.Positions == nil {
		account.Positions = make(map[string]*entity.Position)
	}
	return &account, nil
}

// Save replaces the stored account state in a single transaction.
func (r *portfolioRepository) Save(ctx context.Context, name string, account *entity.PortfolioAccount) error {
	state, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode portfolio %s: %w", name, err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc := entity.PortfolioDocument{Name: name, State: state}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).Create(&doc).Error
	})
}
