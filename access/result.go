package access

import (
	"errors"
	"reflect"
	"time"

	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/mitchellh/mapstructure"
)

// ErrNoRecord 结果为空时无法映射到单个对象
var ErrNoRecord = errors.New("access: no record")

// Record 一行结果，列名到值
type Record map[string]any

// QueryResult 查询结果，分页查询时带上规范化后的分页信息
type QueryResult struct {
	Columns     []string `json:"columns"`
	Records     []Record `json:"records"`
	RecordCount int      `json:"record_count"`
	PageCount   int      `json:"page_count"`
	PageIndex   int      `json:"page_index"`
	PageSize    int      `json:"page_size"`
}

// NewPagedResult 按分页信息组装结果
func NewPagedResult(columns []string, records []Record, page paging.Page) *QueryResult {
	if records == nil {
		records = []Record{}
	}
	return &QueryResult{
		Columns:     columns,
		Records:     records,
		RecordCount: page.RecordCount,
		PageCount:   page.Count,
		PageIndex:   page.Index,
		PageSize:    page.Size,
	}
}

// NewResult 不分页的结果
func NewResult(columns []string, records []Record) *QueryResult {
	if records == nil {
		records = []Record{}
	}
	return &QueryResult{
		Columns:     columns,
		Records:     records,
		RecordCount: len(records),
	}
}

// Page 返回结果对应的分页信息
func (r *QueryResult) Page() paging.Page {
	return paging.Page{
		Size:        r.PageSize,
		Index:       r.PageIndex,
		Count:       r.PageCount,
		RecordCount: r.RecordCount,
	}
}

// Decode 把记录映射到 target，target 为 *[]T 时映射全部记录，为 *T 时只映射第一条
// 字段名匹配忽略大小写，可以用 column 标签指定列名
func (r *QueryResult) Decode(target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "column",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Slice {
		records := make([]map[string]any, 0, len(r.Records))
		for _, rec := range r.Records {
			records = append(records, rec)
		}
		return dec.Decode(records)
	}
	if len(r.Records) == 0 {
		return ErrNoRecord
	}
	return dec.Decode(map[string]any(r.Records[0]))
}
