package sqlbuilder

import (
	"strconv"
	"time"

	"github.com/fyerfyer/fyer-uquery/paging"
)

type Oracle struct {
	BaseDialect
}

func (Oracle) Kind() Kind {
	return KindOracle
}

func (Oracle) Like(key string, pattern string) string {
	return "REGEXP_LIKE(" + key + ",'" + pattern + "')"
}

// TimeLiteral 使用 24 小时制
func (Oracle) TimeLiteral(t time.Time) string {
	return "TO_DATE('" + t.Format("2006/01/02 15:04:05") + "','YYYY/MM/DD HH24:MI:SS')"
}

func (Oracle) TopN(sql string, n int) string {
	return "SELECT * FROM (" + sql + ") WHERE ROWNUM <= " + strconv.Itoa(n) + " ORDER BY ROWNUM"
}

// PageSQL 借助 rownum 分页，结果中多出的 RNUM 列由调用方去掉
func (Oracle) PageSQL(sql string, w paging.Window) (string, bool) {
	return "SELECT * FROM (SELECT rownum rnum, tmp.* FROM (" + sql + ") tmp) tmp WHERE rnum BETWEEN " +
		strconv.Itoa(w.Start+1) + " AND " + strconv.Itoa(w.End) + " ORDER BY rnum", true
}
