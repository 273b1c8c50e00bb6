package converter

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const catalogSchema = `CREATE TABLE IF NOT EXISTS captures (
	run_id VARCHAR(36) NOT NULL PRIMARY KEY,
	device VARCHAR(32) NOT NULL,
	name VARCHAR(255) NOT NULL,
	sequence BIGINT NOT NULL,
	capture_time VARCHAR(64) NOT NULL,
	frequency BIGINT NOT NULL,
	samples BIGINT NOT NULL,
	first_trigger_id INTEGER NOT NULL,
	last_trigger_id INTEGER NOT NULL,
	output_path VARCHAR(1024) NOT NULL,
	converted_at DATETIME NOT NULL
)`

const insertCapture = `INSERT INTO captures (run_id, device, name, sequence, capture_time, frequency, samples, first_trigger_id, last_trigger_id, output_path, converted_at) VALUES (:run_id, :device, :name, :sequence, :capture_time, :frequency, :samples, :first_trigger_id, :last_trigger_id, :output_path, :converted_at)`

// CaptureRecord is one published container in the catalog. Integer
// columns are signed to suit every driver.
type CaptureRecord struct {
	RunID          string    `db:"run_id"`
	Device         string    `db:"device"`
	Name           string    `db:"name"`
	Sequence       int64     `db:"sequence"`
	CaptureTime    string    `db:"capture_time"`
	Frequency      int64     `db:"frequency"`
	Samples        int64     `db:"samples"`
	FirstTriggerID int64     `db:"first_trigger_id"`
	LastTriggerID  int64     `db:"last_trigger_id"`
	OutputPath     string    `db:"output_path"`
	ConvertedAt    time.Time `db:"converted_at"`
}

// Catalog indexes published captures so that downstream tools can find
// files and detect missing sequence numbers without opening them.
type Catalog struct {
	db *sqlx.DB
}

func NewCatalog(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// ConnectToCatalog opens the catalog database selected by config.
func ConnectToCatalog(config Configuration) (*Catalog, error) {
	var dsn string
	switch config.DBDriver {
	case "mysql":
		port := "3306"
		dsn = fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", config.User, config.Passwd, config.Host, port, config.DBName)
	case "sqlite":
		dsn = config.DBName
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", config.DBDriver)
	}
	db, err := sqlx.Connect(config.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	if config.DBDriver == "sqlite" {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	return NewCatalog(db), nil
}

func (c *Catalog) EnsureSchema() error {
	if _, err := c.db.Exec(catalogSchema); err != nil {
		return fmt.Errorf("error creating captures table: %w", err)
	}
	return nil
}

func (c *Catalog) Record(record CaptureRecord) error {
	if _, err := c.db.NamedExec(insertCapture, record); err != nil {
		return fmt.Errorf("error recording capture %s: %w", record.RunID, err)
	}
	return nil
}

// LastSequence returns the highest sequence number recorded for the named
// unit. The boolean is false when the unit has no capture yet.
func (c *Catalog) LastSequence(name string) (uint64, bool, error) {
	var last sql.NullInt64
	query := c.db.Rebind("SELECT MAX(sequence) FROM captures WHERE name = ?")
	if err := c.db.Get(&last, query, name); err != nil {
		return 0, false, fmt.Errorf("error reading last sequence of %s: %w", name, err)
	}
	if !last.Valid {
		return 0, false, nil
	}
	return uint64(last.Int64), true, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func captureTime(meta CaptureMetadata) string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%06d%s",
		meta.Year, meta.Month, meta.Day, meta.Hours, meta.Minutes, meta.Seconds, meta.Microseconds, meta.Timezone)
}
