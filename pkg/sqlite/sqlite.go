// Package sqlite owns the single file-backed store handle shared by every
// component. The handle is opened once at startup and passed by reference;
// nothing in this module reaches for a package-level database.
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type txContextKey string

const txKey txContextKey = "trx"

type Config struct {
	// Path is the database file path. ":memory:" opens a throwaway store.
	Path string `env:"SQLITE_PATH" default:"ledger.db"`
	// BusyTimeoutMS is handed to the driver so writers queue instead of
	// failing with SQLITE_BUSY.
	BusyTimeoutMS int `env:"SQLITE_BUSY_TIMEOUT" default:"5000"`
}

// DB wraps one gorm handle. Concurrent requests are serialized on a single
// connection, matching the one-logical-writer model of the store.
type DB struct {
	conn *gorm.DB
}

func Open(cfg Config, withDebug bool) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=%d", cfg.Path, cfg.BusyTimeoutMS)
	gcfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if withDebug {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}
	conn, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	// One connection: SQLite has a single writer anyway, and an in-memory
	// database exists per connection.
	sqlDB.SetMaxOpenConns(1)

	return &DB{conn: conn}, nil
}

// Wrap adopts an already-open gorm handle (tests).
func Wrap(conn *gorm.DB) *DB {
	return &DB{conn: conn}
}

// WithinTransaction runs fn inside one transaction. Conn calls made with the
// ctx passed to fn join that transaction.
func (d *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return d.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

// Conn returns the handle bound to ctx, joining an enclosing transaction
// when one is present.
func (d *DB) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return d.conn.WithContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
