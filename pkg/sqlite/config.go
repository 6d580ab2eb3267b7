package sqlite

import "time"

type Config struct {
	Path        string        `env:"SQLITE_PATH" envDefault:"sessions.db"` // ":memory:" for a private in-memory database
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
	JournalMode string        `env:"SQLITE_JOURNAL_MODE" envDefault:"WAL"`
}
