package uquery

import (
	"encoding/json"
	"strings"

	"github.com/fyerfyer/fyer-uquery/ferr"
)

// SortMode 排序方向，JSON 中 0 为升序，1 为降序
type SortMode uint8

const (
	Asc SortMode = iota
	Desc
)

func (m SortMode) String() string {
	if m == Desc {
		return "DESC"
	}
	return "ASC"
}

type SortField struct {
	Name string
	Mode SortMode
}

// SortBuilder 构造排序列表，同名字段（忽略大小写）后加入的覆盖先加入的，并移动到末尾
type SortBuilder struct {
	fields []SortField
}

func NewSortBuilder(fields ...SortField) *SortBuilder {
	s := &SortBuilder{}
	for _, f := range fields {
		s.add(f.Name, f.Mode)
	}
	return s
}

func (s *SortBuilder) Ascending(names ...string) *SortBuilder {
	for _, name := range names {
		s.add(name, Asc)
	}
	return s
}

func (s *SortBuilder) Descending(names ...string) *SortBuilder {
	for _, name := range names {
		s.add(name, Desc)
	}
	return s
}

func (s *SortBuilder) add(name string, mode SortMode) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for i, f := range s.fields {
		if strings.EqualFold(f.Name, name) {
			s.fields = append(s.fields[:i], s.fields[i+1:]...)
			break
		}
	}
	s.fields = append(s.fields, SortField{Name: name, Mode: mode})
}

// Fields 返回排序列表的副本
func (s *SortBuilder) Fields() []SortField {
	res := make([]SortField, len(s.fields))
	copy(res, s.fields)
	return res
}

func (s *SortBuilder) Len() int {
	return len(s.fields)
}

// SerializeToJSON 单个字段输出对象，多个字段输出数组，没有字段输出 {}
func (s *SortBuilder) SerializeToJSON() string {
	var b strings.Builder
	switch len(s.fields) {
	case 0:
		return "{}"
	case 1:
		writeSortField(&b, s.fields[0])
		return b.String()
	}
	b.WriteByte('[')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeSortField(&b, f)
	}
	b.WriteByte(']')
	return b.String()
}

func writeSortField(b *strings.Builder, f SortField) {
	b.WriteByte('{')
	writeString(b, f.Name)
	b.WriteByte(':')
	if f.Mode == Desc {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteByte('}')
}

// DeserializeSort 解析排序 JSON，空串和 {} 都表示不排序
func DeserializeSort(data string) ([]SortField, error) {
	raw := json.RawMessage(strings.TrimSpace(data))
	if len(raw) == 0 || string(raw) == "{}" {
		return nil, nil
	}

	s := NewSortBuilder()
	var objects []json.RawMessage
	if firstByte(raw) == '[' {
		items, err := parseArray(raw)
		if err != nil {
			return nil, err
		}
		objects = items
	} else {
		objects = []json.RawMessage{raw}
	}

	for _, obj := range objects {
		members, err := parseObject(obj)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			mode, err := parseSortMode(m.value)
			if err != nil {
				return nil, err
			}
			s.add(m.key, mode)
		}
	}
	return s.Fields(), nil
}

func parseSortMode(raw json.RawMessage) (SortMode, error) {
	switch strings.TrimSpace(string(raw)) {
	case "0":
		return Asc, nil
	case "1":
		return Desc, nil
	}
	return Asc, ferr.ErrInvalidJSON(string(raw), "sort mode must be 0 or 1")
}
