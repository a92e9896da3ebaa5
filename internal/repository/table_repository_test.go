package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lironamy/wedding-us-sub001/internal/models"
)

func newTableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func tableRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "name", "number", "capacity", "type", "mode",
		"group_id", "family_label", "cluster_index", "locked", "zone",
		"guest_ids", "created_at", "updated_at",
	})
}

func TestTableRepositoryListByEvent(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	rows := tableRows().
		AddRow("t-1", "event-1", "שולחן 1", 1, 10, "mixed", "auto", nil, "", 0, false, "general", "{}", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM seating_tables WHERE event_id = $1 ORDER BY number ASC")).
		WithArgs("event-1").
		WillReturnRows(rows)

	found, err := repo.ListByEvent(context.Background(), "event-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "שולחן 1", found[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seating_tables")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	table := &models.SeatingTable{
		EventID: "event-1", Name: "שולחן 1", Number: 1,
		Capacity: 10, Type: models.TableMixed, Mode: models.TableModeAuto,
	}
	require.NoError(t, repo.Create(context.Background(), nil, table))
	require.NotEmpty(t, table.ID)
	require.False(t, table.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepositoryRenumberBatchTwoPhase(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	changes := []models.TableNumberChange{
		{TableID: "t-1", Number: 2},
		{TableID: "t-2", Number: 1},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seating_tables SET number = $1")).
		WithArgs(-2, sqlmock.AnyArg(), "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seating_tables SET number = $1")).
		WithArgs(-1, sqlmock.AnyArg(), "t-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seating_tables SET number = $1")).
		WithArgs(2, sqlmock.AnyArg(), "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seating_tables SET number = $1")).
		WithArgs(1, sqlmock.AnyArg(), "t-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RenumberBatch(context.Background(), changes))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepositoryRenumberBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	require.NoError(t, repo.RenumberBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepositorySetGuestList(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seating_tables SET guest_ids = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetGuestList(context.Background(), "t-1", []string{"g-1", "g-2"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTableRepositoryDeleteBatch(t *testing.T) {
	db, mock, cleanup := newTableRepoMock(t)
	defer cleanup()

	repo := NewTableRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seating_tables WHERE id = ANY($1)")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteBatch(context.Background(), []string{"t-1", "t-2"}))
	require.NoError(t, repo.DeleteBatch(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
