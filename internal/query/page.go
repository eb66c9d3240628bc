package query

// PageInfo describes where a page of results sits in the full result set.
type PageInfo struct {
	Page  int  `json:"page"`
	Pages int  `json:"pages"`
	Count int  `json:"count"`
	Total int  `json:"total"`
	More  bool `json:"more"`
}

// Paginate derives PageInfo from the query options and the unredacted
// result. Without a limit the whole result is one page.
func Paginate[T any](opts Options, res Rows[T]) PageInfo {
	offset := 0
	if opts.Offset != nil {
		offset = *opts.Offset
	}

	pageSize := 1
	if opts.Limit != nil && *opts.Limit != 0 {
		pageSize = *opts.Limit
	}
	page := offset/pageSize + 1

	perPage := res.Total
	if opts.Limit != nil {
		perPage = *opts.Limit
	}
	if perPage == 0 {
		perPage = 1
	}
	pages := (res.Total + perPage - 1) / perPage

	return PageInfo{
		Page:  page,
		Pages: pages,
		Count: len(res.Rows),
		Total: res.Total,
		More:  pages > page,
	}
}
