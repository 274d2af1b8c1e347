package access

import (
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/google/uuid"
)

// Backend 查询的后端类型
type Backend string

const (
	BackendSQL      Backend = "sql"
	BackendDocument Backend = "document"
	BackendSearch   Backend = "search"
)

// QueryContext 一次查询的上下文
type QueryContext struct {
	// ID 每次查询唯一，用于日志和链路追踪
	ID      string
	Backend Backend
	// Source 表名、集合名或索引名
	Source string
	// Statement 实际执行的语句，SQL 后端为 SQL，其余后端为过滤条件的 JSON
	Statement string
	Filter    uquery.Predicate
	Sort      []uquery.SortField
	// Projection 返回字段的描述，SQL 后端已包含在 Statement 中，留空
	Projection string

	// Paged 为 true 时按 PageSize / PageIndex 分页
	Paged     bool
	PageSize  int
	PageIndex int
}

func NewQueryContext(backend Backend, source string, statement string) *QueryContext {
	return &QueryContext{
		ID:        uuid.NewString(),
		Backend:   backend,
		Source:    source,
		Statement: statement,
	}
}

// WithPage 设置分页请求，页码从 1 开始
func (qc *QueryContext) WithPage(pageSize, pageIndex int) *QueryContext {
	qc.Paged = true
	qc.PageSize = pageSize
	qc.PageIndex = pageIndex
	return qc
}
