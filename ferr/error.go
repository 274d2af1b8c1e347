package ferr

import (
	"errors"
	"fmt"
)

var (
	ErrParse               = errors.New("uquery: parse error")
	ErrUnsupportedOperator = errors.New("uquery: unsupported operator")
	ErrArgument            = errors.New("uquery: invalid argument")
	ErrDialect             = errors.New("uquery: invalid dialect")
	ErrExec                = errors.New("uquery: execution failed")
)

var (
	ErrNoCollection = errors.New("uquery: no collection found")
)

// ParseError 谓词或排序 JSON 不合法
type ParseError struct {
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("uquery: cannot parse %q: %s", e.Fragment, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnsupportedOperatorError 后端不支持某个操作符
type UnsupportedOperatorError struct {
	Backend string
	Op      string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("uquery: %s does not support operator %s", e.Backend, e.Op)
}

func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// ArgumentError 构造谓词或查询时参数不合法
type ArgumentError struct {
	Arg    string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("uquery: invalid argument %s: %s", e.Arg, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}

// DialectError 没有对应的数据库方言
type DialectError struct {
	Dialect any
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("uquery: invalid dialect: %v", e.Dialect)
}

func (e *DialectError) Is(target error) bool {
	return target == ErrDialect
}

// ExecError 执行语句失败，保留语句本身和底层错误
type ExecError struct {
	Statement string
	Err       error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("uquery: execute (%s): %v", e.Statement, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func (e *ExecError) Is(target error) bool {
	return target == ErrExec
}

func ErrInvalidJSON(fragment string, reason string) error {
	return &ParseError{Fragment: fragment, Reason: reason}
}

func ErrUnknownOperator(token string) error {
	return &ParseError{Fragment: token, Reason: "unknown operator token"}
}

func ErrUnsupported(backend string, op fmt.Stringer) error {
	return &UnsupportedOperatorError{Backend: backend, Op: op.String()}
}

func ErrInvalidArgument(arg string, reason string) error {
	return &ArgumentError{Arg: arg, Reason: reason}
}

func ErrInvalidDialect(v any) error {
	return &DialectError{Dialect: v}
}

func ErrExecFailed(statement string, err error) error {
	return &ExecError{Statement: statement, Err: err}
}
