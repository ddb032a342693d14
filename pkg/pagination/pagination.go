package pagination

import (
	"encoding/json"
	"math"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Params - параметры страницы из query string
type Params struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize приводит параметры к допустимым значениям
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Scope - gorm scope для применения offset/limit
func Scope(p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PageSize)
	}
}

// Metadata - метаданные страницы, отдаются в заголовке X-Pagination
type Metadata struct {
	TotalCount  int64 `json:"TotalCount"`
	PageSize    int   `json:"PageSize"`
	CurrentPage int   `json:"CurrentPage"`
	TotalPages  int   `json:"TotalPages"`
	HasNext     bool  `json:"HasNext"`
	HasPrevious bool  `json:"HasPrevious"`
}

func NewMetadata(totalCount int64, p Params) Metadata {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(p.PageSize)))
	}

	return Metadata{
		TotalCount:  totalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		HasNext:     p.Page < totalPages,
		HasPrevious: p.Page > 1,
	}
}

// SetHeader записывает метаданные в заголовок X-Pagination
func SetHeader(c *gin.Context, md Metadata) {
	data, err := json.Marshal(md)
	if err != nil {
		return
	}
	c.Header("X-Pagination", string(data))
}
