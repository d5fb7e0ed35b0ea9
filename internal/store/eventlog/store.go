package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ocobot/internal/trader"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type eventModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	EventID       string         `gorm:"column:event_uuid;index"`
	Type          string         `gorm:"column:type"`
	Symbol        string         `gorm:"column:symbol;index"`
	Payload       datatypes.JSON `gorm:"column:payload"`
	CreatedAtUnix int64          `gorm:"column:created_at;index"`
}

func (eventModel) TableName() string { return "event_log" }

// Store is an append-only audit trail of the events the trading loop
// processed. It is write-only at runtime: nothing reads it back, it exists
// so a run can be reconstructed afterwards.
type Store struct {
	db *gorm.DB
}

// New opens (or creates) the SQLite event log at path.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("event log: path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&eventModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// Single writer; no reason to hold more than one connection.
	sqlDB.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

func (s *Store) Append(evt trader.EventEnvelope) error {
	if s == nil || s.db == nil {
		return nil
	}
	model := eventModel{
		EventID:       evt.ID,
		Type:          string(evt.Type),
		Symbol:        strings.ToUpper(strings.TrimSpace(evt.Symbol)),
		Payload:       datatypes.JSON(evt.Payload),
		CreatedAtUnix: evt.CreatedAt.UnixMilli(),
	}
	return s.db.Create(&model).Error
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ trader.EventStore = (*Store)(nil)
