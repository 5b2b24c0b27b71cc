package repositories

import "gorm.io/gorm"

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// paginate counts the query, applies offset/limit, and scans into dest.
// The count runs on a session clone so the caller's conditions are kept.
func paginate(query *gorm.DB, page, limit int, dest interface{}) (Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	if err := query.Offset((page - 1) * limit).Limit(limit).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}

	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}
