package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-online/registrar-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func beginTx(t *testing.T, db *sqlx.DB, mock sqlmock.Sqlmock) *sqlx.Tx {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	return tx
}

func TestEnrollmentRepositoryCountBySectionTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM enrollments WHERE section_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(29))

	count, err := repo.CountBySectionTx(context.Background(), tx, 7)
	require.NoError(t, err)
	assert.Equal(t, 29, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM enrollments WHERE section_id = $1 AND student_id = $2 LIMIT 1`)).
		WithArgs(int64(7), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsTx(context.Background(), tx, 7, 42)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEnrollmentRepositoryExistsTxNone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM enrollments`)).
		WithArgs(int64(7), int64(42)).
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsTx(context.Background(), tx, 7, 42)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEnrollmentRepositoryInsertTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments`)).
		WithArgs(int64(7), int64(42), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{SectionID: 7, StudentID: 42}
	err := repo.InsertTx(context.Background(), tx, enrollment)
	require.NoError(t, err)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
}

func TestEnrollmentRepositoryDeleteTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments WHERE section_id = $1 AND student_id = $2`)).
		WithArgs(int64(7), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.DeleteTx(context.Background(), tx, 7, 42)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestEnrollmentRepositoryDeleteTxMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	tx := beginTx(t, db, mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM enrollments`)).
		WithArgs(int64(7), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.DeleteTx(context.Background(), tx, 7, 42)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestEnrollmentRepositoryListByProfessor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	enrolled := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"section_id", "student_id", "enrollment_date"}).
		AddRow(int64(7), int64(42), enrolled).
		AddRow(int64(8), int64(43), enrolled)

	mock.ExpectQuery(regexp.QuoteMeta(`INNER JOIN course_section cs ON cs.id = e.section_id`)).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	enrollments, err := repo.ListByProfessor(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, int64(42), enrollments[0].StudentID)
	assert.Equal(t, int64(8), enrollments[1].SectionID)
}
