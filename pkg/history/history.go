// Package history keeps battery samples in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/charlie0129/battbar/pkg/powerinfo"
	"github.com/charlie0129/battbar/pkg/render"
)

// DefaultLimit is used by Recent when limit is not positive.
const DefaultLimit = 20

// Sample is one recorded tick.
type Sample struct {
	ID         int64            `json:"id"`
	Session    string           `json:"session"`
	Time       time.Time        `json:"time"`
	Status     powerinfo.Status `json:"status"`
	Percentage int              `json:"percentage"`
	// ChargeRate, Remaining and FullCharge are nil when not reported.
	ChargeRate *int `json:"chargeRate,omitempty"`
	Remaining  *int `json:"remaining,omitempty"`
	FullCharge *int `json:"fullCharge,omitempty"`
}

// Store wraps a SQLite connection with WAL mode and migrations.
type Store struct {
	db      *sql.DB
	session string
	now     func() time.Time
}

// Open creates or opens the database at path. Every Store gets a new
// session id that is stamped on the samples it records.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create history directory for %s", path)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open history database %s", path)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, pkgerrors.Wrapf(err, "failed to ping history database %s", path)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:      db,
		session: uuid.NewString(),
		now:     time.Now,
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "failed to migrate history database")
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Session returns the id stamped on samples recorded by this store.
func (s *Store) Session() string {
	return s.session
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			status      TEXT NOT NULL,
			percentage  INTEGER NOT NULL,
			charge_rate INTEGER,
			remaining   INTEGER,
			full_charge INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_ts ON samples(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return pkgerrors.Wrapf(err, "failed to run migration %q", m)
		}
	}
	return nil
}

// Record stores sample. Session and Time are filled in when empty.
func (s *Store) Record(ctx context.Context, sample Sample) error {
	if sample.Session == "" {
		sample.Session = s.session
	}
	if sample.Time.IsZero() {
		sample.Time = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (session, timestamp, status, percentage, charge_rate, remaining, full_charge)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sample.Session,
		sample.Time.UnixMilli(),
		sample.Status.String(),
		sample.Percentage,
		nullable(sample.ChargeRate),
		nullable(sample.Remaining),
		nullable(sample.FullCharge),
	)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to insert sample")
	}
	return nil
}

// Recent returns up to limit samples, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Sample, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, timestamp, status, percentage, charge_rate, remaining, full_charge
		 FROM samples ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to query samples")
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			sample                       Sample
			ts                           int64
			status                       string
			rate, remaining, fullCharge sql.NullInt64
		)
		if err := rows.Scan(&sample.ID, &sample.Session, &ts, &status, &sample.Percentage, &rate, &remaining, &fullCharge); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to scan sample")
		}
		sample.Time = time.UnixMilli(ts)
		sample.Status = powerinfo.ParseStatus(status)
		sample.ChargeRate = fromNullable(rate)
		sample.Remaining = fromNullable(remaining)
		sample.FullCharge = fromNullable(fullCharge)
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read samples")
	}

	return samples, nil
}

// Sampled records real frames. Simulated and failed ticks are ignored.
func (s *Store) Sampled(report powerinfo.Report, state render.RenderState, err error) {
	if err != nil || state.Simulated || report.Status == powerinfo.NotPresent {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = s.Record(ctx, Sample{
		Status:     report.Status,
		Percentage: state.Percentage,
		ChargeRate: report.ChargeRate,
		Remaining:  report.Remaining,
		FullCharge: report.FullCharge,
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to record battery history")
	}
}

func nullable(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullable(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
