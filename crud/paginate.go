package crud

import (
	"fmt"

	"gorm.io/gorm"

	"vidtube/domain"
)

// paginate applies the uniform page/limit/sort contract to a prepared,
// filtered query. The total is counted against the same query that produces
// the page slice, so the totals can never describe a different filter than
// the returned items. The request must have been validated by the caller;
// the sort key goes into the ORDER BY clause as-is.
func paginate[T any](query *gorm.DB, req domain.PageRequest) (*domain.Page[T], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, dbError("paginate.count", err)
	}

	var items []T
	order := fmt.Sprintf("%s %s", req.SortBy, req.SortDir)
	err := query.
		Order(order).
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&items).Error
	if err != nil {
		return nil, dbError("paginate.find", err)
	}

	return domain.NewPage(items, req, total), nil
}
