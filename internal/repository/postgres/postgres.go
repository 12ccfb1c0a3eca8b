package postgres

import (
	"database/sql"

	"canna-backoffice-requests/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.DecisionRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		DecisionRepository: NewDecisionRepository(db),
	}
}

// Schema creates the audit table when it does not exist yet.
const Schema = `CREATE TABLE IF NOT EXISTS request_decisions (
	id           UUID PRIMARY KEY,
	request_type TEXT NOT NULL,
	request_id   INTEGER NOT NULL,
	verb         TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	detail       TEXT NOT NULL DEFAULT '',
	decided_by   TEXT NOT NULL DEFAULT '',
	decided_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS request_decisions_request_idx ON request_decisions (request_type, request_id);`

func (s *Store) Migrate() error {
	_, err := s.db.Exec(Schema)
	return err
}
