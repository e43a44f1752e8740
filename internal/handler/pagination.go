package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// maxPageSize caps the limit query parameter.
const maxPageSize = 500

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse creates a new PaginatedResponse.
func NewPaginatedResponse[T any](data []T, totalItems int64, page, limit int) PaginatedResponse[T] {
	if limit <= 0 {
		limit = 1
	}
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  (int(totalItems) + limit - 1) / limit,
			CurrentPage: page,
			PageSize:    limit,
		},
	}
}

// pageParams reads page and limit from the query. Without a limit the
// whole list is one page.
func pageParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return page, 0
	}
	return page, min(limit, maxPageSize)
}

// PaginateSlice cuts one page out of items. A limit of 0 returns every item.
func PaginateSlice[T any](items []T, page, limit int) PaginatedResponse[T] {
	total := len(items)
	if limit <= 0 {
		return NewPaginatedResponse(items, int64(total), 1, max(total, 1))
	}
	if page < 1 {
		page = 1
	}
	// Pages past the end are empty. Checking the page count first keeps
	// (page-1)*limit from overflowing.
	start := total
	if page-1 < (total+limit-1)/limit {
		start = (page - 1) * limit
	}
	end := min(start+limit, total)
	return NewPaginatedResponse(items[start:end], int64(total), page, limit)
}
