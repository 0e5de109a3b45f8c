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
// Package database provides the SQLite storage backing the local note cache
// and the credential store
package database

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var defaultSchemaSQL string

// ErrNotFound is an error for a row that does not exist
var ErrNotFound = errors.New("not found")

// DB is a database handle that is either a connection pool or a transaction
// started from one. Writes are serialized through a single connection.
type DB struct {
	Conn *sql.DB
	Tx   *sql.Tx
}

// Open opens a connection to the SQLite database at the given path, creating
// the parent directory if necessary. In-memory DSNs are passed through.
func Open(dbPath string) (*DB, error) {
	if !strings.HasPrefix(dbPath, "file:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database connection")
	}

	// a single connection makes every transaction exclusive, which serializes
	// cache writes from the UI and from the sync engine
	conn.SetMaxOpenConns(1)

	return &DB{Conn: conn}, nil
}

// InitSchema creates the tables if they do not exist
func InitSchema(db *DB) error {
	if _, err := db.Exec(defaultSchemaSQL); err != nil {
		return errors.Wrap(err, "running schema sql")
	}

	return nil
}

// Begin starts a transaction
func (d *DB) Begin() (*DB, error) {
	if d.Tx != nil {
		return nil, errors.New("a transaction is already in progress")
	}

	tx, err := d.Conn.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "beginning a transaction")
	}

	return &DB{Conn: d.Conn, Tx: tx}, nil
}

// Commit commits the transaction
func (d *DB) Commit() error {
	if d.Tx == nil {
		return errors.New("not in a transaction")
	}

	return d.Tx.Commit()
}

// Rollback aborts the transaction
func (d *DB) Rollback() error {
	if d.Tx == nil {
		return errors.New("not in a transaction")
	}

	return d.Tx.Rollback()
}

// WithTx runs fn inside a transaction, committing on success and rolling back
// when fn returns an error
func (d *DB) WithTx(fn func(tx *DB) error) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}

// Exec executes a query without returning rows
func (d *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	if d.Tx != nil {
		return d.Tx.Exec(query, args...)
	}

	return d.Conn.Exec(query, args...)
}

// Query executes a query that returns rows
func (d *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	if d.Tx != nil {
		return d.Tx.Query(query, args...)
	}

	return d.Conn.Query(query, args...)
}

// QueryRow executes a query that returns at most one row
func (d *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	if d.Tx != nil {
		return d.Tx.QueryRow(query, args...)
	}

	return d.Conn.QueryRow(query, args...)
}

// Close closes the underlying connection
func (d *DB) Close() error {
	return d.Conn.Close()
}
