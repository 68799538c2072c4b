package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](data []T, q PageQuery, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}
}

// ParsePageQuery reads page, limit and searchParams, falling back to the
// defaults on absent or non-positive values.
func ParsePageQuery(c *fiber.Ctx) PageQuery {
	q := PageQuery{Page: DefaultPage, Limit: DefaultLimit}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		q.Limit = min(limit, MaxLimit)
	}
	q.Search = strings.TrimSpace(c.Query("searchParams"))
	return q
}

// Normalize applies the same defaults to values that did not come from a request.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	q.Limit = min(q.Limit, MaxLimit)
	q.Search = strings.TrimSpace(q.Search)
	return q
}
