package httpx

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidPage 对应非正数的分页参数。
var ErrInvalidPage = errors.New("Page and pageSize must be greater than 0")

// Pagination 是分页响应中的元信息。
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
}

// NewPagination 计算总页数（向上取整）。
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{CurrentPage: page, PageSize: pageSize, TotalPages: totalPages, TotalItems: total}
}

// ParsePage 读取 page / pageSize 查询参数，缺省时分别为 1 和 defaultSize。
func ParsePage(r *http.Request, defaultSize int) (page, pageSize int, err error) {
	page, pageSize = 1, defaultSize
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, ErrInvalidPage
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, ErrInvalidPage
		}
	}
	if page <= 0 || pageSize <= 0 {
		return 0, 0, ErrInvalidPage
	}
	return page, pageSize, nil
}
