package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/DiceboySeries/v0-scrobble-mirror-app/internal/config"
)

// KVRecord is the single table behind the gorm backend: a flat key/value
// space, same shape the other providers expose.
type KVRecord struct {
	Key   string `gorm:"primaryKey;size:512"`
	Value []byte
}

// GormProvider stores records in a relational database. Postgres in
// production; tests open it over sqlite.
type GormProvider struct {
	db *gorm.DB
}

func NewGormProvider(db *gorm.DB) (*GormProvider, error) {
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, fmt.Errorf("migrate kv_records: %w", err)
	}
	return &GormProvider{db: db}, nil
}

// OpenPostgres connects using the configured database block.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func (g *GormProvider) Get(key string) ([]byte, bool, error) {
	var rec KVRecord
	err := g.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return rec.Value, true, nil
}

func (g *GormProvider) Set(key string, value []byte) error {
	rec := KVRecord{Key: key, Value: value}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (g *GormProvider) Delete(key string) error {
	if err := g.db.Delete(&KVRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (g *GormProvider) List(prefix string) ([]string, error) {
	var keys []string
	err := g.db.Model(&KVRecord{}).
		Where("key LIKE ?", prefix+"%").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("kv list %s: %w", prefix, err)
	}
	return keys, nil
}

func (g *GormProvider) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
