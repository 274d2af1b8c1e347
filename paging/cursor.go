package paging

import "errors"

var errNoCurrent = errors.New("paging: cursor has no current item")

// Cursor 只能向前读取的结果流
type Cursor[T any] interface {
	Next() bool
	Current() (T, error)
	Err() error
}

type sliceCursor[T any] struct {
	items []T
	pos   int
}

// FromSlice 把内存中的结果包装成 Cursor
func FromSlice[T any](items []T) Cursor[T] {
	return &sliceCursor[T]{items: items, pos: -1}
}

func (s *sliceCursor[T]) Next() bool {
	if s.pos+1 >= len(s.items) {
		s.pos = len(s.items)
		return false
	}
	s.pos++
	return true
}

func (s *sliceCursor[T]) Current() (T, error) {
	var zero T
	if s.pos < 0 || s.pos >= len(s.items) {
		return zero, errNoCurrent
	}
	return s.items[s.pos], nil
}

func (s *sliceCursor[T]) Err() error {
	return nil
}

// Slice 单次顺序读取 cursor，只保留位于 w 内的行，读到上界后立即停止
// cursor 不会被重复读取，也不能在多个调用之间共享
func Slice[T any](c Cursor[T], w Window) ([]T, error) {
	res := make([]T, 0, max(w.Len(), 0))
	for pos := 0; pos < w.End && c.Next(); pos++ {
		if pos < w.Start {
			continue
		}
		item, err := c.Current()
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Collect 读取 cursor 的全部内容
func Collect[T any](c Cursor[T]) ([]T, error) {
	var res []T
	for c.Next() {
		item, err := c.Current()
		if err != nil {
			return nil, err
		}
		res = append(res, item)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
