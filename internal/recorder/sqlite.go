package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TradeAdvisor/internal/model"
)

// SQLiteStore persists the signal log to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the history command can read while a scheduled run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite log store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_log (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp           TEXT NOT NULL,
			symbol              TEXT,
			timeframe           TEXT,
			price               REAL,
			signal              TEXT,
			entry_price         REAL,
			stop_loss_price     REAL,
			stop_loss_percent   TEXT,
			take_profit_price   REAL,
			take_profit_percent TEXT,
			position_size       REAL,
			leverage            INTEGER,
			capital             REAL,
			prediction_accuracy INTEGER,
			market_trend        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_log_ts ON signal_log(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(e *model.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO signal_log
		(timestamp, symbol, timeframe, price, signal,
		 entry_price, stop_loss_price, stop_loss_percent, take_profit_price, take_profit_percent,
		 position_size, leverage, capital, prediction_accuracy, market_trend)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.Timestamp.UTC().Format(time.RFC3339Nano), e.Symbol, e.Timeframe, e.Price, string(e.Signal),
		e.EntryPrice, e.StopLossPrice, e.StopLossPercent, e.TakeProfitPrice, e.TakeProfitPercent,
		e.PositionSize, e.Leverage, e.Capital, e.PredictionAccuracy, string(e.MarketTrend),
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadAll() ([]model.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT timestamp, symbol, timeframe, price, signal,
		entry_price, stop_loss_price, stop_loss_percent, take_profit_price, take_profit_percent,
		position_size, leverage, capital, prediction_accuracy, market_trend
		FROM signal_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	entries := []model.LogEntry{}
	for rows.Next() {
		var (
			e             model.LogEntry
			ts, sig, trnd string
		)
		if err := rows.Scan(&ts, &e.Symbol, &e.Timeframe, &e.Price, &sig,
			&e.EntryPrice, &e.StopLossPrice, &e.StopLossPercent, &e.TakeProfitPrice, &e.TakeProfitPercent,
			&e.PositionSize, &e.Leverage, &e.Capital, &e.PredictionAccuracy, &trnd); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		e.Signal = model.Recommendation(sig)
		e.MarketTrend = model.Trend(trnd)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite log store")
	return s.db.Close()
}
