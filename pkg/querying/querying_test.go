package querying

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	return db, sqlDB
}

// ===================== SortingMap Tests =====================

func newBreweriesSortingMap() *SortingMap {
	return NewSortingMap().
		Add("name", "name").
		Add("countryOfOrigin", "country_of_origin").
		Add("foundedIn", "founded_in")
}

func TestResolve_EmptyKey_ReturnsFirstDeclared(t *testing.T) {
	m := newBreweriesSortingMap()

	column, err := m.Resolve("")

	assert.NoError(t, err)
	assert.Equal(t, "name", column)
}

func TestResolve_CaseInsensitive(t *testing.T) {
	m := newBreweriesSortingMap()

	column, err := m.Resolve("COUNTRYOFORIGIN")

	assert.NoError(t, err)
	assert.Equal(t, "country_of_origin", column)
}

func TestResolve_UnknownKey_LookupError(t *testing.T) {
	m := newBreweriesSortingMap()

	column, err := m.Resolve("bottleShape")

	assert.Empty(t, column)
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

func TestResolve_EmptyMap(t *testing.T) {
	m := NewSortingMap()

	_, err := m.Resolve("")

	assert.Error(t, err)
}

func TestKeys_DeclarationOrder(t *testing.T) {
	m := newBreweriesSortingMap()

	assert.Equal(t, []string{"name", "countryoforigin", "foundedin"}, m.Keys())
}

// ===================== Predicate Tests =====================

type brewery struct {
	ID              string
	Name            string
	CountryOfOrigin string
}

func TestApply_FilterThenSearch(t *testing.T) {
	db, sqlDB := newDryRunDB(t)
	defer sqlDB.Close()

	predicates := []Predicate{
		Equals("country_of_origin", "England"),
		Search("IPA", "name"),
	}

	var result []brewery
	stmt := Apply(db.Model(&brewery{}), predicates).Find(&result).Statement

	// Фильтр по точному совпадению идёт до поиска
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "country_of_origin = ")
	assert.Contains(t, sql, "name ILIKE ")
	assert.Less(t, strings.Index(sql, "country_of_origin"), strings.Index(sql, "ILIKE"))
	assert.Equal(t, []interface{}{"England", "%IPA%"}, stmt.Vars)
}

func TestApply_SingleFilter(t *testing.T) {
	db, sqlDB := newDryRunDB(t)
	defer sqlDB.Close()

	predicates := []Predicate{
		Equals("country_of_origin", "England"),
	}

	var result []brewery
	stmt := Apply(db.Model(&brewery{}), predicates).Find(&result).Statement

	assert.NotContains(t, stmt.SQL.String(), "ILIKE")
	assert.Equal(t, []interface{}{"England"}, stmt.Vars)
}

func TestSearch_MultipleColumns(t *testing.T) {
	db, sqlDB := newDryRunDB(t)
	defer sqlDB.Close()

	var result []brewery
	stmt := Apply(db.Model(&brewery{}), []Predicate{
		Search("porter", "name", "description"),
	}).Find(&result).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "name ILIKE ")
	assert.Contains(t, sql, "description ILIKE ")
	assert.Equal(t, []interface{}{"%porter%", "%porter%"}, stmt.Vars)
}

func TestSearch_TrimsWhitespace(t *testing.T) {
	db, sqlDB := newDryRunDB(t)
	defer sqlDB.Close()

	var result []brewery
	stmt := Apply(db.Model(&brewery{}), []Predicate{
		Search("  stout ", "name"),
	}).Find(&result).Statement

	assert.Equal(t, []interface{}{"%stout%"}, stmt.Vars)
}

func TestSort_Direction(t *testing.T) {
	db, sqlDB := newDryRunDB(t)
	defer sqlDB.Close()

	var result []brewery
	stmt := Apply(db.Model(&brewery{}), []Predicate{
		Sort("name", true),
	}).Find(&result).Statement

	assert.Contains(t, stmt.SQL.String(), "name DESC")
}
