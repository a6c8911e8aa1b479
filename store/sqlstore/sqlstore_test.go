package sqlstore

import (
	"database/sql"
	"os"
	"testing"

	"github.com/battlesnakeio/nol/store/testsuite"
	"github.com/stretchr/testify/require"
)

func mustExec(db *sql.DB, sq string) {
	if _, err := db.Exec(sq); err != nil {
		panic(err)
	}
}

func TestSQLStore(t *testing.T) {
	url := os.Getenv("SQLSTORE_TEST_URL")
	if url == "" {
		t.Skip("SQLSTORE_TEST_URL not set, e.g. postgres://postgres@127.0.0.1:5433/postgres?sslmode=disable")
	}

	s, err := NewSQLStore(url, Options{MaxOpenConns: 10, MaxIdleConns: 5})
	require.NoError(t, err)
	defer s.Close()

	testsuite.Suite(t, s, func() {
		mustExec(s.db, "TRUNCATE games")
		mustExec(s.db, "TRUNCATE turns")
	})
}

func TestNewSQLStoreBadURL(t *testing.T) {
	_, err := NewSQLStore("postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", Options{})
	require.Error(t, err)
}
