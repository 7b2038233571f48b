package services

import (
	"context"

	"gorm.io/gorm"
)

// PerPage is the fixed page size of every job listing.
const PerPage = 9

// Page is one page of a listing. Pages past the end are empty, not errors.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func (p *Page[T]) Pages() int {
	if p.Total == 0 {
		return 0
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p *Page[T]) HasPrev() bool { return p.Page > 1 }
func (p *Page[T]) HasNext() bool { return p.Page < p.Pages() }
func (p *Page[T]) PrevNum() int  { return p.Page - 1 }
func (p *Page[T]) NextNum() int  { return p.Page + 1 }

// paginate counts the rows matched by query and loads the requested page in
// the given order. Associations named in preloads are loaded for the page
// only, never for the count.
func paginate[T any](ctx context.Context, query *gorm.DB, order string, page, perPage int, preloads ...string) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	p := &Page[T]{Page: page, PerPage: perPage, Items: []T{}}

	query = query.Session(&gorm.Session{})
	if err := query.WithContext(ctx).Count(&p.Total).Error; err != nil {
		return nil, err
	}
	if p.Total == 0 {
		return p, nil
	}

	find := query.WithContext(ctx)
	for _, name := range preloads {
		find = find.Preload(name)
	}
	err := find.
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&p.Items).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}
