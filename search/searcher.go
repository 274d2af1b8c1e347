package search

import (
	"context"
	"encoding/json"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/olivere/elastic/v7"
)

// SearchRequest 一次检索，From / Size 由分页窗口计算
type SearchRequest struct {
	Index  string
	Query  elastic.Query
	From   int
	Size   int
	Sort   []uquery.SortField
	Fields []string
}

// Searcher 搜索引擎的最小访问接口
type Searcher interface {
	Count(ctx context.Context, index string, query elastic.Query) (int64, error)
	Search(ctx context.Context, req SearchRequest) ([]access.Record, error)
}

type ElasticSearcher struct {
	client *elastic.Client
}

func NewElasticSearcher(client *elastic.Client) *ElasticSearcher {
	return &ElasticSearcher{client: client}
}

// Connect 创建客户端，单节点或代理部署时关闭嗅探
func Connect(urls ...string) (*ElasticSearcher, error) {
	client, err := elastic.NewClient(elastic.SetURL(urls...), elastic.SetSniff(false))
	if err != nil {
		return nil, err
	}
	return NewElasticSearcher(client), nil
}

func (s *ElasticSearcher) Count(ctx context.Context, index string, query elastic.Query) (int64, error) {
	return s.client.Count(index).Query(query).Do(ctx)
}

func (s *ElasticSearcher) Search(ctx context.Context, req SearchRequest) ([]access.Record, error) {
	svc := s.client.Search(req.Index).Query(req.Query).From(req.From).Size(req.Size)
	for _, f := range req.Sort {
		svc = svc.Sort(f.Name, f.Mode == uquery.Asc)
	}
	if len(req.Fields) > 0 {
		svc = svc.FetchSourceContext(elastic.NewFetchSourceContext(true).Include(req.Fields...))
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return nil, err
	}
	if res.Hits == nil {
		return nil, nil
	}
	records := make([]access.Record, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		record := access.Record{}
		if len(hit.Source) > 0 {
			if err = json.Unmarshal(hit.Source, &record); err != nil {
				return nil, err
			}
		}
		records = append(records, record)
	}
	return records, nil
}
