package pagination

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is an offset page: 1-based page number and page size.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageRequest clamps page and size into range. Non-positive values take
// the defaults.
func NewPageRequest(page, pageSize int) *PageRequest {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &PageRequest{Page: page, PageSize: pageSize}
}

func (p *PageRequest) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *PageRequest) GetLimit() int {
	return p.PageSize
}

// PageResult is one page of Data out of Total matching items.
type PageResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
}

func NewPageResult(data interface{}, total int64, req *PageRequest) *PageResult {
	totalPages := 0
	if total > 0 && req.PageSize > 0 {
		totalPages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return &PageResult{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
	}
}
