package cachekey

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// Generator 为查询生成缓存键
// 键的格式为 prefix:backend:source:md5(statement)[:page]，超长时截断并追加整体哈希
type Generator struct {
	prefix     string
	maxKeySize int
}

func New(prefix string) *Generator {
	return &Generator{
		prefix:     prefix,
		maxKeySize: 200,
	}
}

// WithMaxKeySize 设置键的最大长度，小于 64 时不生效
func (g *Generator) WithMaxKeySize(size int) *Generator {
	if size >= 64 {
		g.maxKeySize = size
	}
	return g
}

// Generate pageSize 和 pageIndex 都为 0 时表示不分页
func (g *Generator) Generate(backend, source, statement string, pageSize, pageIndex int) string {
	var key strings.Builder

	key.WriteString(g.prefix)
	if len(g.prefix) > 0 && !strings.HasSuffix(g.prefix, ":") {
		key.WriteString(":")
	}

	key.WriteString(backend)
	key.WriteString(":")
	key.WriteString(source)
	key.WriteString(":")

	hash := md5.Sum([]byte(statement))
	key.WriteString(hex.EncodeToString(hash[:]))

	if pageSize != 0 || pageIndex != 0 {
		key.WriteString(":")
		key.WriteString(strconv.Itoa(pageSize))
		key.WriteString("x")
		key.WriteString(strconv.Itoa(pageIndex))
	}

	res := key.String()
	if len(res) > g.maxKeySize {
		sum := md5.Sum([]byte(res))
		res = res[:g.maxKeySize-32] + hex.EncodeToString(sum[:])
	}
	return res
}
