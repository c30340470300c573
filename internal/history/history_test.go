package history

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)

	err := db.Record("add", KindRequest, "1",
		[]byte(`{"jsonrpc":"2.0","method":"add","params":[1,2],"id":1}`),
		[]byte(`{"jsonrpc":"2.0","result":3,"id":1}`))
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	err = db.Record("log_message", KindNotification, "",
		[]byte(`{"jsonrpc":"2.0","method":"log_message","params":{"message":"x"}}`), nil)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	exchanges, err := db.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(exchanges))
	}

	// Newest first.
	if exchanges[0].Method != "log_message" {
		t.Errorf("expected log_message first, got %s", exchanges[0].Method)
	}
	if exchanges[0].Kind != KindNotification {
		t.Errorf("expected notification kind, got %s", exchanges[0].Kind)
	}
	if exchanges[0].Response != "" || exchanges[0].RequestID != "" {
		t.Errorf("notification must have no response or id: %+v", exchanges[0])
	}

	if exchanges[1].Method != "add" || exchanges[1].RequestID != "1" {
		t.Errorf("unexpected request exchange: %+v", exchanges[1])
	}
	if exchanges[1].Response == "" {
		t.Error("request exchange lost its response")
	}
}

func TestRecent_Limit(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		if err := db.Record("add", KindRequest, "1", []byte(`{}`), []byte(`{}`)); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	exchanges, err := db.Recent(3)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(exchanges) != 3 {
		t.Errorf("expected 3 exchanges, got %d", len(exchanges))
	}
}

func TestNilReceiver(t *testing.T) {
	var db *DB

	if err := db.Record("add", KindRequest, "1", []byte(`{}`), nil); err != nil {
		t.Errorf("nil Record returned error: %v", err)
	}
	exchanges, err := db.Recent(10)
	if err != nil || exchanges != nil {
		t.Errorf("nil Recent: got %v, %v", exchanges, err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("nil Close returned error: %v", err)
	}
}

func TestOpen_CreatesSchemaIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.sqlite")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if err := db.Record("add", KindRequest, "1", []byte(`{}`), []byte(`{}`)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	_ = db.Close()

	// Reopening must keep existing rows.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	exchanges, err := db.Recent(10)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(exchanges) != 1 {
		t.Errorf("expected 1 exchange after reopen, got %d", len(exchanges))
	}
}
