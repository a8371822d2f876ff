package pagination

import (
	"net/url"
	"strconv"

	"gorm.io/gorm"

	"sns/internal/apperror"
	"sns/internal/config"
)

// Identifiable is satisfied by every entity embedding model.BaseModel.
type Identifiable interface {
	GetID() uint
}

// Scope lets callers pin fixed conditions (ownership, preloads) on top of the
// client-supplied filters. A nil scope is a no-op.
type Scope func(*gorm.DB) *gorm.DB

// PageResponse is the offset-mode envelope.
type PageResponse[T Identifiable] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

type Cursor struct {
	After *uint `json:"after"`
}

// CursorResponse is the cursor-mode envelope. Next is null on the last page.
type CursorResponse[T Identifiable] struct {
	Data   []T     `json:"data"`
	Cursor Cursor  `json:"cursor"`
	Count  int     `json:"count"`
	Next   *string `json:"next"`
}

// Paginate runs offset mode when the request carries a page number and cursor
// mode otherwise. The two modes are mutually exclusive per request.
func Paginate[T Identifiable](req *Request, db *gorm.DB, base Scope, path string) (interface{}, error) {
	if req.Page > 0 {
		return PagePaginate[T](req, db, base)
	}
	return CursorPaginate[T](req, db, base, path)
}

// PagePaginate counts every row matching the filters, then fetches one page
// with skip = take * (page - 1).
func PagePaginate[T Identifiable](req *Request, db *gorm.DB, base Scope) (*PageResponse[T], error) {
	var entity T

	countQuery := req.ApplyFilters(db.Model(&entity))
	if base != nil {
		countQuery = base(countQuery)
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "count query failed", err)
	}

	findQuery := req.ApplyOrders(req.ApplyFilters(db)).
		Limit(req.Take).
		Offset(req.Take * (req.Page - 1))
	if base != nil {
		findQuery = base(findQuery)
	}
	data := []T{}
	if err := findQuery.Find(&data).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "find query failed", err)
	}

	return &PageResponse[T]{Data: data, Total: total}, nil
}

// CursorPaginate fetches one page bounded by the compiled filters and emits a
// follow-up URL. A result shorter than take means end-of-data: no cursor and
// no next URL, even if rows outside the filter order would still match.
func CursorPaginate[T Identifiable](req *Request, db *gorm.DB, base Scope, path string) (*CursorResponse[T], error) {
	findQuery := req.ApplyOrders(req.ApplyFilters(db)).Limit(req.Take)
	if base != nil {
		findQuery = base(findQuery)
	}
	data := []T{}
	if err := findQuery.Find(&data).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "find query failed", err)
	}

	resp := &CursorResponse[T]{Data: data, Count: len(data)}

	if len(data) == 0 || len(data) < req.Take {
		return resp, nil
	}

	lastID := data[len(data)-1].GetID()
	resp.Cursor.After = &lastID

	next := nextURL(req, path, lastID)
	resp.Next = &next
	return resp, nil
}

// nextURL echoes every effective request parameter except the two cursor
// bound keys, then appends the bound matching the createdAt sort direction.
func nextURL(req *Request, path string, lastID uint) string {
	u := url.URL{
		Scheme: config.App.Protocol,
		Host:   config.App.Host,
		Path:   "/" + path,
	}

	query := url.Values{}
	for key := range req.params {
		if key == "where__id__more_than" || key == "where__id__less_than" {
			continue
		}
		query.Set(key, req.params.Get(key))
	}

	boundKey := "where__id__more_than"
	if req.createdAtDir == DESC {
		boundKey = "where__id__less_than"
	}
	query.Set(boundKey, strconv.FormatUint(uint64(lastID), 10))

	u.RawQuery = query.Encode()
	return u.String()
}
