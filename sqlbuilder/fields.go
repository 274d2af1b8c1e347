package sqlbuilder

import "strings"

type field struct {
	name  string
	alias string
}

// Fields 查询的列，没有列时输出 *
type Fields struct {
	items []field
}

func NewFields(names ...string) *Fields {
	return (&Fields{}).Add(names...)
}

// Add 去掉首尾空白，忽略空名字和重复的列
func (f *Fields) Add(names ...string) *Fields {
	for _, name := range names {
		f.add(name, "")
	}
	return f
}

func (f *Fields) AddAlias(name, alias string) *Fields {
	f.add(name, alias)
	return f
}

func (f *Fields) add(name, alias string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	for _, it := range f.items {
		if strings.EqualFold(it.name, name) {
			return
		}
	}
	f.items = append(f.items, field{name: name, alias: strings.TrimSpace(alias)})
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.items)
}

// Names 返回列名，不含别名
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}
	res := make([]string, 0, len(f.items))
	for _, it := range f.items {
		res = append(res, it.name)
	}
	return res
}

func (f *Fields) String() string {
	if f.Len() == 0 {
		return "*"
	}
	var sb strings.Builder
	for i, it := range f.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(it.name)
		if it.alias != "" {
			sb.WriteByte(' ')
			sb.WriteString(it.alias)
		}
	}
	return sb.String()
}
