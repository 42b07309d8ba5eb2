// ABOUTME: Remote table service backed by gorm over Postgres or SQLite
// ABOUTME: Implements keyed upsert, id-batch delete and idempotent payment insert

package sync

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Supported remote drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type GormRemote struct {
	db *gorm.DB
}

// OpenGormRemote connects to the remote database. driver is DriverPostgres
// or DriverSQLite.
func OpenGormRemote(driver, dsn string) (*GormRemote, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown remote driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open remote: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get remote sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	return &GormRemote{db: db}, nil
}

func NewGormRemote(db *gorm.DB) *GormRemote {
	return &GormRemote{db: db}
}

// Migrate creates the customers, debts and payments tables.
func (g *GormRemote) Migrate(ctx context.Context) error {
	if err := g.db.WithContext(ctx).AutoMigrate(&CustomerPayload{}, &DebtPayload{}, &PaymentPayload{}); err != nil {
		return fmt.Errorf("failed to migrate remote tables: %w", err)
	}
	return nil
}

func (g *GormRemote) Upsert(ctx context.Context, table string, record any) error {
	if _, err := modelFor(table); err != nil {
		return err
	}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", table, err)
	}
	return nil
}

func (g *GormRemote) Delete(ctx context.Context, table string, ids []string) error {
	model, err := modelFor(table)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := g.db.WithContext(ctx).Where("id IN ?", ids).Delete(model).Error; err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// Insert appends rows. Rows whose id already exists are skipped so a retried
// batch does not fail on the rows that made it the first time.
func (g *GormRemote) Insert(ctx context.Context, table string, records any) error {
	if _, err := modelFor(table); err != nil {
		return err
	}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(records).Error
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (g *GormRemote) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get remote sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (g *GormRemote) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountRows returns the number of rows in a remote table.
func (g *GormRemote) CountRows(ctx context.Context, table string) (int64, error) {
	model, err := modelFor(table)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := g.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func modelFor(table string) (any, error) {
	switch table {
	case TableCustomers:
		return &CustomerPayload{}, nil
	case TableDebts:
		return &DebtPayload{}, nil
	case TablePayments:
		return &PaymentPayload{}, nil
	}
	return nil, fmt.Errorf("unknown remote table %q", table)
}
