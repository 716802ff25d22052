package state

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Ledger records every finished upload so a recording is shipped to the
// remote exactly once, re-ticks and reruns included.
type Ledger struct {
	db *sql.DB
}

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS uploads (
	local_path  TEXT PRIMARY KEY,
	remote_path TEXT NOT NULL,
	size        INTEGER NOT NULL,
	uploaded_at TIMESTAMP NOT NULL
);`

func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) Uploaded(localPath string) (bool, error) {
	var remote string
	err := l.db.QueryRow(`SELECT remote_path FROM uploads WHERE local_path = ?`, localPath).Scan(&remote)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkUploaded records the transfer. It reports false when the file was
// already marked by somebody else, which callers treat as "don't ship again".
func (l *Ledger) MarkUploaded(localPath, remotePath string, size int64) (bool, error) {
	res, err := l.db.Exec(
		`INSERT OR IGNORE INTO uploads (local_path, remote_path, size, uploaded_at) VALUES (?, ?, ?, ?)`,
		localPath, remotePath, size, time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (l *Ledger) RemotePath(localPath string) (string, error) {
	var remote string
	err := l.db.QueryRow(`SELECT remote_path FROM uploads WHERE local_path = ?`, localPath).Scan(&remote)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return remote, err
}
