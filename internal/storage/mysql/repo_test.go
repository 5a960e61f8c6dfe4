package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_console/internal/domain"
	mysqlrepo "listing_console/internal/storage/mysql"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *mysqlrepo.Repo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, mysqlrepo.New(db)
}

func TestUpsertHierarchy_ReplacesLevel(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	zones := []domain.HierarchyEntity{
		{ID: "z1", Name: domain.L("Zone A", "Khu A"), ParentID: "p1", Status: "Active"},
		{ID: "z2", Name: domain.L("Zone B", ""), ParentID: "", Status: "Inactive"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO hierarchy_entities`).
		WithArgs(
			2, "z1", "p1", "Zone A", "Khu A", "Active", 0,
			2, "z2", nil, "Zone B", "", "Inactive", 1,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM hierarchy_entities WHERE level = \? AND id NOT IN \(\?,\?\)`).
		WithArgs(2, "z1", "z2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertHierarchy(context.Background(), domain.LevelZone, zones))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertOptions_EmptyListPrunesKind(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM master_options WHERE kind = \?$`).
		WithArgs("currencies").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertOptions(context.Background(), domain.KindCurrencies, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertOptions_RollsBackOnFailure(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO master_options`).
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := repo.UpsertOptions(context.Background(), domain.KindUnits, []domain.Option{{ID: "u1", Status: "Active"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHierarchy_ScansRows(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "parent_id", "name_en", "name_vi", "status"}).
		AddRow("b1", "z1", "Block 5", "Tòa 5", "Active").
		AddRow("b2", nil, "Block 6", "", "Active")
	mock.ExpectQuery(`SELECT id, parent_id, name_en, name_vi, status`).
		WithArgs(3).
		WillReturnRows(rows)

	got, err := repo.ListHierarchy(context.Background(), domain.LevelBlock)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.L("Block 5", "Tòa 5"), got[0].Name)
	assert.Equal(t, "z1", got[0].ParentID)
	assert.Equal(t, "", got[1].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOptions_Empty(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM master_options`).
		WithArgs("legalDocs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name_en", "name_vi", "status"}))

	got, err := repo.ListOptions(context.Background(), domain.KindLegalDocs)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Len(t, got, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogMiss(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO sync_misses`).
		WithArgs("zones", 404, "not found").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.LogMiss(context.Background(), domain.KindZones, 404, "not found"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
