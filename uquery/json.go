package uquery

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fyerfyer/fyer-uquery/ferr"
)

// TimeLayout 时间在 JSON 中的格式，反序列化时完全符合该格式的字符串会还原为 time.Time
const TimeLayout = "2006-01-02T15:04:05"

func serialize(p Predicate) string {
	var b strings.Builder
	writePredicate(&b, p)
	return b.String()
}

func writePredicate(b *strings.Builder, p Predicate) {
	switch v := p.(type) {
	case *FieldPredicate:
		b.WriteByte('{')
		writeString(b, v.key)
		b.WriteByte(':')
		if v.op == OpEq {
			writeValue(b, v.value)
		} else {
			b.WriteByte('{')
			writeString(b, v.op.Token())
			b.WriteByte(':')
			writeValue(b, v.value)
			b.WriteByte('}')
		}
		b.WriteByte('}')
	case *RelationPredicate:
		// 只剩一个子节点时不包装
		if len(v.children) == 1 {
			writePredicate(b, v.children[0])
			return
		}
		b.WriteString(`{"`)
		b.WriteString(v.relation.Token())
		b.WriteString(`":[`)
		for i, c := range v.children {
			if i > 0 {
				b.WriteByte(',')
			}
			writePredicate(b, c)
		}
		b.WriteString("]}")
	}
}

func writeValue(b *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		b.WriteString(formatFloat(v))
	case string:
		writeString(b, v)
	case time.Time:
		writeString(b, v.Format(TimeLayout))
	case []any:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	}
}

// formatFloat 浮点数总是带小数点或指数，保证反序列化后仍是浮点数
func formatFloat(f float64) string {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func writeString(b *strings.Builder, s string) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// 字符串编码不会失败
	_ = enc.Encode(s)
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Deserialize 从 JSON 还原谓词
func Deserialize(data string) (Predicate, error) {
	return parsePredicate(json.RawMessage(strings.TrimSpace(data)))
}

type member struct {
	key   string
	value json.RawMessage
}

func parsePredicate(raw json.RawMessage) (Predicate, error) {
	members, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ferr.ErrInvalidJSON(string(raw), "predicate object has no property")
	}

	// 只看第一个属性，其余忽略
	m := members[0]
	if rel, ok := relationOfToken(m.key); ok {
		return parseRelation(raw, rel, m.value)
	}
	if strings.HasPrefix(m.key, "$") {
		return nil, ferr.ErrUnknownOperator(m.key)
	}
	return parseField(raw, m.key, m.value)
}

func parseRelation(raw json.RawMessage, rel Relation, value json.RawMessage) (Predicate, error) {
	items, err := parseArray(value)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ferr.ErrInvalidJSON(string(raw), rel.Token()+" requires at least one predicate")
	}

	preds := make([]Predicate, 0, len(items))
	for _, item := range items {
		p, err := parsePredicate(item)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return newRelation(rel, preds), nil
}

func parseField(raw json.RawMessage, key string, value json.RawMessage) (Predicate, error) {
	op := OpEq
	operand := value

	if firstByte(value) == '{' {
		members, err := parseObject(value)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, ferr.ErrInvalidJSON(string(value), "operator object has no property")
		}
		var ok bool
		op, ok = OpOfToken(members[0].key)
		if !ok {
			return nil, ferr.ErrUnknownOperator(members[0].key)
		}
		operand = members[0].value
	}

	v, err := parseValue(operand)
	if err != nil {
		return nil, err
	}
	p, err := NewField(key, op, v)
	if err != nil {
		var argErr *ferr.ArgumentError
		if errors.As(err, &argErr) {
			return nil, ferr.ErrInvalidJSON(string(raw), argErr.Reason)
		}
		return nil, err
	}
	return p, nil
}

// parseValue 解析标量或标量数组
func parseValue(raw json.RawMessage) (any, error) {
	switch firstByte(raw) {
	case '[':
		items, err := parseArray(raw)
		if err != nil {
			return nil, err
		}
		vals := make([]any, 0, len(items))
		for _, item := range items {
			c := firstByte(item)
			if c == '[' || c == '{' {
				return nil, ferr.ErrInvalidJSON(string(raw), "array elements must be scalars")
			}
			v, err := parseScalar(item)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	case '{':
		return nil, ferr.ErrInvalidJSON(string(raw), "object is not a valid operand")
	}
	return parseScalar(raw)
}

func parseScalar(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ferr.ErrInvalidJSON(string(raw), err.Error())
	}

	switch val := v.(type) {
	case json.Number:
		s := val.String()
		if strings.ContainsAny(s, ".eE") {
			f, err := val.Float64()
			if err != nil {
				return nil, ferr.ErrInvalidJSON(s, err.Error())
			}
			return f, nil
		}
		i, err := val.Int64()
		if err != nil {
			return nil, ferr.ErrInvalidJSON(s, err.Error())
		}
		return i, nil
	case string:
		if len(val) == len(TimeLayout) {
			if t, err := time.ParseInLocation(TimeLayout, val, time.Local); err == nil {
				return t, nil
			}
		}
		return val, nil
	}
	// nil 或 bool
	return v, nil
}

func parseObject(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, raw, '{'); err != nil {
		return nil, err
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, ferr.ErrInvalidJSON(string(raw), err.Error())
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ferr.ErrInvalidJSON(string(raw), "expected property name")
		}
		var value json.RawMessage
		if err = dec.Decode(&value); err != nil {
			return nil, ferr.ErrInvalidJSON(string(raw), err.Error())
		}
		members = append(members, member{key: key, value: value})
	}

	if err := expectEnd(dec, raw, '}'); err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ferr.ErrInvalidJSON(string(raw), "empty object")
	}
	return members, nil
}

func parseArray(raw json.RawMessage) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := expectDelim(dec, raw, '['); err != nil {
		return nil, err
	}

	var items []json.RawMessage
	for dec.More() {
		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			return nil, ferr.ErrInvalidJSON(string(raw), err.Error())
		}
		items = append(items, item)
	}

	if err := expectEnd(dec, raw, ']'); err != nil {
		return nil, err
	}
	return items, nil
}

func expectDelim(dec *json.Decoder, raw json.RawMessage, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return ferr.ErrInvalidJSON(string(raw), err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return ferr.ErrInvalidJSON(string(raw), "expected "+string(want))
	}
	return nil
}

// expectEnd 读取结束符并确认后面没有多余内容
func expectEnd(dec *json.Decoder, raw json.RawMessage, want json.Delim) error {
	if err := expectDelim(dec, raw, want); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return ferr.ErrInvalidJSON(string(raw), "unexpected trailing data")
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	s := bytes.TrimLeft(raw, " \t\r\n")
	if len(s) == 0 {
		return 0
	}
	return s[0]
}
