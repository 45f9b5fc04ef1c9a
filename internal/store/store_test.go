package store

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InvalidConnection(t *testing.T) {
	cfg := Config{
		Host:     "invalid-host",
		Port:     5432,
		User:     "test",
		Password: "test",
		DBName:   "test",
		SSLMode:  "disable",
	}

	s, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), "failed to connect to store database")
}

func TestSaveSnapshot_ClearsAndInsertsWithinTransaction(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	s := &Store{DB: sqlx.NewDb(mockDB, "postgres")}

	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vault_files").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO vault_files").
		WithArgs("a.md", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = s.SaveSnapshot([]FileSnapshot{{Path: "a.md", ModTime: now}})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshot_RollsBackOnInsertError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = mockDB.Close() }()

	s := &Store{DB: sqlx.NewDb(mockDB, "postgres")}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM vault_files").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO vault_files").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = s.SaveSnapshot([]FileSnapshot{{Path: "a.md", ModTime: time.Now()}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
