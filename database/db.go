package database

import (
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"favor-bot/config"
	"favor-bot/database/model"
	"favor-bot/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initModels() error {
	models := []any{
		&model.Registration{},
		&model.BotUser{},
		&model.Setting{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			logger.Errorf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger gormlogger.Interface
	if config.IsDebug() {
		gormLogger = gormlogger.Default
	} else {
		gormLogger = gormlogger.Discard
	}

	c := &gorm.Config{
		Logger: gormLogger,
	}
	db, err = gorm.Open(sqlite.Open(dbPath), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")

	return initModels()
}

// InitTestDB opens an isolated in-memory database. Tests use it instead
// of InitDB so they never touch the real db folder.
func InitTestDB() error {
	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return err
	}
	if err := initModels(); err != nil {
		return err
	}
	// cache=shared keeps the memory db alive across reopens within one
	// test binary, so start every test from empty tables.
	db.Exec("DELETE FROM registrations")
	db.Exec("DELETE FROM bot_users")
	db.Exec("DELETE FROM settings")
	return nil
}

func CloseDB() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

// Checkpoint flushes the WAL into the main database file so a copy of the
// file is a complete backup.
func Checkpoint() error {
	return db.Exec("PRAGMA wal_checkpoint;").Error
}

// WithTx runs fn inside a transaction, committing on nil and rolling back
// on error.
func WithTx(fn func(tx *gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ReadDBFile checkpoints the WAL and returns the raw sqlite file, used by
// the backup job to ship the database to admin chats.
func ReadDBFile(dbPath string) ([]byte, error) {
	if err := Checkpoint(); err != nil {
		logger.Warning("wal checkpoint before backup failed:", err)
	}
	f, err := os.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
