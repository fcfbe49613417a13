// Package eventdb persists the observability records emitted by the
// sale engine into a relational database, PostgreSQL or SQLite. Records
// are append-only; the engine never reads them back on its hot path.
package eventdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"time"

	_ "github.com/lib/pq"        // PostgreSQL driver
	_ "modernc.org/sqlite"       // SQLite driver
	"github.com/curvemint/curved/internal/core/sale"
)

// Logger interface for dependency injection.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// DefaultLogger provides a basic logger implementation on the standard
// library logger.
type DefaultLogger struct {
	logger *log.Logger
}

// NewDefaultLogger creates a DefaultLogger on log.Default.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{logger: log.Default()}
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Printf("[DEBUG] "+msg, fields...)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.logger.Printf("[INFO] "+msg, fields...)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Printf("[WARN] "+msg, fields...)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.logger.Printf("[ERROR] "+msg, fields...)
}

// Event kinds as stored in the kind column.
const (
	KindSaleListed      = "sale_listed"
	KindSaleCompleted   = "sale_completed"
	KindRefundIssued    = "refund_issued"
	KindCreatorWithdrew = "creator_withdrew"
	KindOwnerWithdrew   = "owner_withdrew"
	KindFeeChanged      = "fee_changed"
)

// Event is one persisted record.
type Event struct {
	ID        int64
	Kind      string
	SaleID    string
	Account   string
	Amount    string
	FeeBps    uint32
	CreatedAt time.Time
}

// Store writes engine events to a relational database. It implements
// the engine's Recorder contract: failures are logged, never propagated,
// because events are recorded after the state transition committed.
type Store struct {
	db     *sql.DB
	config *Config
	logger Logger
}

// New creates a Store from the given configuration. Call Open before
// use.
func New(config *Config, logger Logger) (*Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Store{config: config, logger: logger}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS sale_events (
	id         INTEGER PRIMARY KEY %s,
	kind       TEXT NOT NULL,
	sale_id    TEXT NOT NULL DEFAULT '',
	account    TEXT NOT NULL DEFAULT '',
	amount     TEXT NOT NULL DEFAULT '',
	fee_bps    INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_events_kind ON sale_events(kind);
CREATE INDEX IF NOT EXISTS idx_sale_events_sale ON sale_events(sale_id);
`

// Open opens the database connection and initializes the schema.
func (s *Store) Open(ctx context.Context) error {
	connStr, err := s.config.BuildConnectionString()
	if err != nil {
		return err
	}

	db, err := sql.Open(s.config.Driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to open event database: %w", err)
	}

	db.SetMaxOpenConns(s.config.MaxOpenConns)
	db.SetMaxIdleConns(s.config.MaxIdleConns)
	db.SetConnMaxLifetime(s.config.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to event database: %w", err)
	}

	autoinc := "AUTOINCREMENT"
	if s.config.Driver == "postgres" {
		// Postgres has no AUTOINCREMENT; rely on an identity default.
		autoinc = "GENERATED ALWAYS AS IDENTITY"
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, autoinc)); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize event schema: %w", err)
	}

	s.db = db
	s.logger.Info("event database open: driver=%s", s.config.Driver)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) insert(e Event) {
	if s.db == nil {
		s.logger.Error("event dropped, database not open: kind=%s", e.Kind)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.DefaultTimeout)
	defer cancel()

	query := `INSERT INTO sale_events (kind, sale_id, account, amount, fee_bps, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		e.Kind, e.SaleID, e.Account, e.Amount, e.FeeBps, time.Now().UTC())
	if err != nil {
		s.logger.Error("failed to record event %s: %v", e.Kind, err)
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// SaleListed records a new listing.
func (s *Store) SaleListed(id sale.SaleID, receiver sale.AccountID, maxSupply *big.Int) {
	s.insert(Event{Kind: KindSaleListed, SaleID: id.String(), Account: receiver.String(), Amount: bigString(maxSupply)})
}

// SaleCompleted records a successful purchase.
func (s *Store) SaleCompleted(id sale.SaleID, buyer sale.AccountID, tokensTransferred *big.Int) {
	s.insert(Event{Kind: KindSaleCompleted, SaleID: id.String(), Account: buyer.String(), Amount: bigString(tokensTransferred)})
}

// RefundIssued records a partial-fill refund.
func (s *Store) RefundIssued(buyer sale.AccountID, amount *big.Int) {
	s.insert(Event{Kind: KindRefundIssued, Account: buyer.String(), Amount: bigString(amount)})
}

// CreatorWithdrew records a creator payout.
func (s *Store) CreatorWithdrew(creator sale.AccountID, amount *big.Int) {
	s.insert(Event{Kind: KindCreatorWithdrew, Account: creator.String(), Amount: bigString(amount)})
}

// OwnerWithdrew records a platform payout.
func (s *Store) OwnerWithdrew(owner sale.AccountID, amount *big.Int) {
	s.insert(Event{Kind: KindOwnerWithdrew, Account: owner.String(), Amount: bigString(amount)})
}

// FeeChanged records a fee rate update.
func (s *Store) FeeChanged(newFeeBps uint32) {
	s.insert(Event{Kind: KindFeeChanged, FeeBps: newFeeBps})
}

// Recent returns up to limit most recent events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query := `SELECT id, kind, sale_id, account, amount, fee_bps, created_at
		FROM sale_events ORDER BY id DESC LIMIT $1`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.SaleID, &e.Account, &e.Amount, &e.FeeBps, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// BySale returns all events recorded for one sale, oldest first.
func (s *Store) BySale(ctx context.Context, id sale.SaleID) ([]Event, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query := `SELECT id, kind, sale_id, account, amount, fee_bps, created_at
		FROM sale_events WHERE sale_id = $1 ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.SaleID, &e.Account, &e.Amount, &e.FeeBps, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
