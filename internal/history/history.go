// ABOUTME: SQLite-backed recorder for every dispatched JSON-RPC call
// ABOUTME: Provides append and query access for the management API

package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Kinds of recorded calls.
const (
	KindRequest      = "request"
	KindNotification = "notification"
)

type DB struct {
	conn *sql.DB
}

// Exchange is one recorded call. RequestID holds the raw JSON text of the
// JSON-RPC id and is empty for notifications; Response is empty when no
// response was owed.
type Exchange struct {
	ID        int64
	Method    string
	Kind      string
	RequestID string
	Request   string
	Response  string
	CreatedAt time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// WAL mode keeps concurrent request handlers from blocking each other.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection. Safe on a nil receiver.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Record stores one dispatched call. Safe on a nil receiver so the
// dispatcher can run with history disabled.
func (db *DB) Record(method, kind, requestID string, request, response []byte) error {
	if db == nil {
		return nil
	}

	var respText sql.NullString
	if response != nil {
		respText = sql.NullString{String: string(response), Valid: true}
	}
	var idText sql.NullString
	if requestID != "" {
		idText = sql.NullString{String: requestID, Valid: true}
	}

	_, err := db.conn.Exec(
		`INSERT INTO exchanges (method, kind, jsonrpc_id, request, response)
		 VALUES (?, ?, ?, ?, ?)`,
		method, kind, idText, string(request), respText,
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first. Safe on a nil receiver.
func (db *DB) Recent(limit int) ([]Exchange, error) {
	if db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.conn.Query(
		`SELECT id, method, kind, jsonrpc_id, request, response, created_at
		 FROM exchanges ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		var e Exchange
		var requestID, response sql.NullString

		if err := rows.Scan(&e.ID, &e.Method, &e.Kind, &requestID, &e.Request, &response, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		if requestID.Valid {
			e.RequestID = requestID.String
		}
		if response.Valid {
			e.Response = response.String
		}
		exchanges = append(exchanges, e)
	}

	return exchanges, rows.Err()
}
