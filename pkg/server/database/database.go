/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package database defines the storage models of the server and opens
// connections to the database
package database

import (
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Note{},
		&Token{},
	); err != nil {
		return errors.Wrap(err, "migrating the schema")
	}

	return nil
}

// getDBLogLevel maps the server log level to the level of the query logger
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func newLogger(level string) logger.Interface {
	return logger.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  getDBLogLevel(level),
		IgnoreRecordNotFoundError: true,
	})
}

// Open initializes the database connection
func Open(dbPath, logLevel string) (*gorm.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating database directory at %s", dir)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: newLogger(logLevel),
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening database conection")
	}

	return db, nil
}

// Close closes the underlying connection of db
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection")
	}

	return sqlDB.Close()
}
