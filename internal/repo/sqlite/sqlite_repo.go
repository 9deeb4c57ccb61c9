package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/repo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Sequence holds the last identifier handed out for a table. Rows are
// only ever incremented so ids stay unique across deletes.
type Sequence struct {
	Name  string `gorm:"primaryKey"`
	Value int    `gorm:"not null"`
}

type Repository struct {
	db *gorm.DB
}

// New opens (or creates) the sqlite database at path and migrates the
// schema.
func New(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(withBusyTimeout(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite ignores SELECT ... FOR UPDATE. A single connection serializes
	// the sequence transactions instead.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Item{}, &Sequence{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	r := &Repository{db: db}

	seq := Sequence{Name: "items"}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq).Error; err != nil {
		return nil, fmt.Errorf("failed to create item sequence: %w", err)
	}

	return r, nil
}

func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "_busy_timeout=") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_busy_timeout=5000"
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (r *Repository) CreateItem(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq Sequence
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&seq, "name = ?", "items").Error; err != nil {
			return fmt.Errorf("failed to load item sequence: %w", err)
		}

		seq.Value++
		if err := tx.Save(&seq).Error; err != nil {
			return fmt.Errorf("failed to save item sequence: %w", err)
		}

		item.ID = seq.Value

		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetItem(ctx context.Context, id int) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrItemNotFound
		}

		return nil, err
	}

	return &item, nil
}

func (r *Repository) ListItems(ctx context.Context) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete item: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return repo.ErrItemNotFound
	}

	return nil
}

// Compile-time check
var _ repo.ItemBackend = (*Repository)(nil)
