package querying

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var ErrUnknownSortKey = errors.New("unknown sorting key")

// SortingMap - упорядоченное, регистронезависимое отображение
// ключей сортировки из запроса на колонки БД
// Первый добавленный ключ является сортировкой по умолчанию
type SortingMap struct {
	order   []string
	columns map[string]string
}

func NewSortingMap() *SortingMap {
	return &SortingMap{columns: make(map[string]string)}
}

// Add регистрирует ключ сортировки; порядок вызовов значим
func (m *SortingMap) Add(key, column string) *SortingMap {
	normalized := strings.ToLower(key)
	if _, exists := m.columns[normalized]; !exists {
		m.order = append(m.order, normalized)
	}
	m.columns[normalized] = column
	return m
}

// Resolve возвращает колонку для ключа сортировки
// Пустой ключ разрешается в первую объявленную колонку.
// Неизвестный непустой ключ - ошибка программиста: handlers обязаны
// валидировать ключ по Keys() до построения запроса
func (m *SortingMap) Resolve(key string) (string, error) {
	if len(m.order) == 0 {
		return "", errors.New("sorting map is empty")
	}

	if key == "" {
		return m.columns[m.order[0]], nil
	}

	column, ok := m.columns[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}

	return column, nil
}

// Keys возвращает зарегистрированные ключи в порядке объявления
func (m *SortingMap) Keys() []string {
	keys := make([]string, len(m.order))
	copy(keys, m.order)
	return keys
}

// Predicate - независимое условие выборки; предикаты объединяются через AND
// в порядке добавления (фильтры по точному совпадению первыми, поиск последним)
type Predicate func(*gorm.DB) *gorm.DB

// Equals - предикат точного совпадения по колонке
func Equals(column string, value interface{}) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s = ?", column), value)
	}
}

// Search - регистронезависимый substring-поиск по одной или нескольким колонкам
func Search(term string, columns ...string) Predicate {
	pattern := "%" + strings.TrimSpace(term) + "%"
	return func(db *gorm.DB) *gorm.DB {
		if len(columns) == 0 {
			return db
		}

		condition := fmt.Sprintf("%s ILIKE ?", columns[0])
		args := []interface{}{pattern}
		for _, column := range columns[1:] {
			condition += fmt.Sprintf(" OR %s ILIKE ?", column)
			args = append(args, pattern)
		}

		return db.Where(condition, args...)
	}
}

// Sort - предикат сортировки по разрешённой колонке
func Sort(column string, descending bool) Predicate {
	direction := "ASC"
	if descending {
		direction = "DESC"
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(fmt.Sprintf("%s %s", column, direction))
	}
}

// Apply применяет предикаты к запросу в порядке их добавления
func Apply(db *gorm.DB, predicates []Predicate) *gorm.DB {
	for _, predicate := range predicates {
		db = predicate(db)
	}
	return db
}
