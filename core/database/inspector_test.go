package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func columnRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("external_id", "VARCHAR(20)", "NO", "UNI", nil, "").
		AddRow("Email", "varchar(255)", "NO", "UNI", nil, "")
}

func TestGetTableColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `people`").WillReturnRows(columnRows())

	columns, err := GetTableColumns(db, "people")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "bigint unsigned", colMap["id"])
	assert.Equal(t, "varchar(20)", colMap["external_id"])
	assert.Equal(t, "varchar(255)", colMap["email"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableColumns_Error(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `events`").WillReturnError(errors.New("table doesn't exist"))

	cols, err := GetTableColumns(db, "events")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "events")
	assert.Nil(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `people`").WillReturnRows(columnRows())

	missing, err := MissingColumns(db, "people", []string{"id", "external_id", "email", "password_hash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"password_hash"}, missing)
}
