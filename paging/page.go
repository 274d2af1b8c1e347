package paging

// Page 规范化之后的分页参数
type Page struct {
	Size        int
	Index       int
	Count       int
	RecordCount int
}

// Normalize 按统一规则修正分页参数
// pageSize 非正数或大于总数时取总数；pageIndex 非正数时取 1，大于总页数时取总页数。
// 总页数为 0 时，非正数的 pageIndex 会停在 1，正数的 pageIndex 会被收到 0
func Normalize(pageSize, pageIndex, recordCount int) Page {
	if recordCount < 0 {
		recordCount = 0
	}
	if pageSize <= 0 || pageSize > recordCount {
		pageSize = recordCount
	}

	pageCount := 0
	if pageSize > 0 {
		pageCount = (recordCount + pageSize - 1) / pageSize
	}

	if pageIndex <= 0 {
		pageIndex = 1
	} else if pageIndex > pageCount {
		pageIndex = pageCount
	}

	return Page{
		Size:        pageSize,
		Index:       pageIndex,
		Count:       pageCount,
		RecordCount: recordCount,
	}
}

// Window 以 0 为起点的左闭右开区间 [Start, End)
type Window struct {
	Start int
	End   int
}

func (p Page) Window() Window {
	start := (p.Index - 1) * p.Size
	if start < 0 {
		start = 0
	}
	end := p.Index * p.Size
	if end < start {
		end = start
	}
	return Window{Start: start, End: end}
}

func (w Window) Contains(pos int) bool {
	return pos >= w.Start && pos < w.End
}

func (w Window) Len() int {
	return w.End - w.Start
}
