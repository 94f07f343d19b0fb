package domain

import "strings"

type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortUpdatedAt   SortField = "updatedAt"
	SortName        SortField = "name"
	SortRole        SortField = "role"
	SortExperience  SortField = "experience"
	SortJoiningDate SortField = "joiningDate"
)

var SortFields = []SortField{SortCreatedAt, SortUpdatedAt, SortName, SortRole, SortExperience, SortJoiningDate}

func (s SortField) Valid() bool {
	for _, v := range SortFields {
		if s == v {
			return true
		}
	}
	return false
}

// ListQuery GET /developers 查询参数；sort 为 sortBy 的别名（前端使用 sort）
type ListQuery struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	SortBy string `form:"sortBy"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// DeveloperFilter 仓储层查询条件；Limit=0 表示不分页
type DeveloperFilter struct {
	Search string
	Role   Role
	SortBy SortField
	Desc   bool
	Offset int
	Limit  int
}

type DeveloperPage struct {
	Data       []Developer `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

// Filter 校验并转换为仓储查询条件，返回页码与全部违规项
func (q ListQuery) Filter() (DeveloperFilter, int, []string) {
	var errs []string
	f := DeveloperFilter{
		Search: strings.TrimSpace(q.Search),
		Role:   Role(strings.TrimSpace(q.Role)),
		SortBy: SortCreatedAt,
		Desc:   !strings.EqualFold(strings.TrimSpace(q.Order), "asc"),
	}
	if f.Role != "" && !f.Role.Valid() {
		errs = append(errs, "Role must be one of Frontend, Backend, Full-Stack.")
	}

	sortBy := strings.TrimSpace(q.SortBy)
	if sortBy == "" {
		sortBy = strings.TrimSpace(q.Sort)
	}
	if sortBy != "" {
		f.SortBy = SortField(sortBy)
		if !f.SortBy.Valid() {
			errs = append(errs, "sortBy must be one of createdAt, updatedAt, name, role, experience, joiningDate.")
		}
	}

	page := q.Page
	if page < 0 {
		errs = append(errs, "page must be a positive integer.")
	}
	if page <= 0 {
		page = 1
	}
	if q.Limit < 0 {
		errs = append(errs, "limit must be a positive integer.")
	}
	if q.Limit > 0 {
		f.Limit = q.Limit
		f.Offset = (page - 1) * q.Limit
	}
	return f, page, errs
}

// TotalPages 不分页时恒为 1；分页时向上取整
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
