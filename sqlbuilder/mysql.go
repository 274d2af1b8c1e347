package sqlbuilder

import (
	"strconv"
	"time"

	"github.com/fyerfyer/fyer-uquery/paging"
)

type MySQL struct {
	BaseDialect
}

func (MySQL) Kind() Kind {
	return KindMySQL
}

func (MySQL) TimeLiteral(t time.Time) string {
	return "STR_TO_DATE('" + t.Format("2006-01-02 15:04:05") + "','%Y-%m-%d %k:%i:%s')"
}

func (MySQL) PageSQL(sql string, w paging.Window) (string, bool) {
	return "SELECT * FROM (" + sql + ") tmp LIMIT " + strconv.Itoa(w.Start) + ", " + strconv.Itoa(w.Len()), true
}
