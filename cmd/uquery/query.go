package main

import (
	"context"
	"errors"
	"strings"

	"github.com/fyerfyer/fyer-uquery/access"
	"github.com/fyerfyer/fyer-uquery/access/middleware/accesslog"
	"github.com/fyerfyer/fyer-uquery/access/middleware/cache"
	"github.com/fyerfyer/fyer-uquery/access/middleware/opentracing"
	"github.com/fyerfyer/fyer-uquery/access/middleware/prometheus"
	"github.com/fyerfyer/fyer-uquery/database"
	"github.com/fyerfyer/fyer-uquery/mongodb"
	"github.com/fyerfyer/fyer-uquery/search"
	"github.com/go-redis/redis/v8"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type pageFlags struct {
	size  int
	index int
	cache bool
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.size, "size", 0, "page size, 0 with index 0 returns every row")
	cmd.Flags().IntVar(&f.index, "index", 0, "page index, starting from 1")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "cache results")
}

func (f *pageFlags) paged() bool {
	return f.size != 0 || f.index != 0
}

func newQueryCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query against a configured backend",
	}
	cmd.AddCommand(newQuerySQLCommand(opts))
	cmd.AddCommand(newQueryMongoCommand(opts))
	cmd.AddCommand(newQuerySearchCommand(opts))
	return cmd
}

// middlewares 日志、指标和链路追踪总是开启，缓存按需开启
func middlewares(opts *rootOptions, withCache bool) []access.Middleware {
	ms := []access.Middleware{
		accesslog.NewBuilder(opts.log).SlowThreshold(opts.cfg.Log.Slow).Build(),
		(&prometheus.MiddlewareBuilder{
			NameSpace:  "uquery",
			Name:       "query_duration",
			Help:       "query duration in microseconds",
			Registerer: prom.DefaultRegisterer,
		}).Build(),
		(&opentracing.MiddlewareBuilder{}).Build(),
	}
	if withCache {
		var c cache.Cache
		if addr := opts.cfg.Cache.Redis; addr != "" {
			c = cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: addr}))
		} else {
			c = cache.NewMemoryCache(opts.cfg.Cache.TTL, 2*opts.cfg.Cache.TTL)
		}
		ms = append(ms, cache.NewBuilder(c).TTL(opts.cfg.Cache.TTL).Build())
	}
	return ms
}

func newQuerySQLCommand(opts *rootOptions) *cobra.Command {
	var (
		flags queryFlags
		page  pageFlags
	)
	cmd := &cobra.Command{
		Use:   "sql <source>",
		Short: "Run a SELECT against the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			if opts.cfg.SQL.DSN == "" {
				return errors.New("sql.dsn is not configured")
			}
			db, err := database.OpenDB(opts.cfg.SQL.Driver, opts.cfg.SQL.DSN, opts.cfg.SQL.Dialect,
				database.DBWithMiddlewares(middlewares(opts, page.cache)...))
			if err != nil {
				return err
			}
			defer db.Close()

			p, err := flags.predicate()
			if err != nil {
				return err
			}
			sortFields, err := flags.sort()
			if err != nil {
				return err
			}
			b := db.Builder(args[0]).Select(flags.fieldNames()...).Where(p).OrderBy(sortFields...)
			res, err := db.Select(cmd.Context(), b, page.size, page.index)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	page.register(cmd)
	return cmd
}

func newQueryMongoCommand(opts *rootOptions) *cobra.Command {
	var (
		flags queryFlags
		page  pageFlags
	)
	cmd := &cobra.Command{
		Use:   "mongo <collection>[,<collection>...]",
		Short: "Query one or more MongoDB collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			if opts.cfg.Mongo.URI == "" {
				return errors.New("mongo.uri is not configured")
			}
			ctx := cmd.Context()
			store, err := mongodb.Connect(ctx, opts.cfg.Mongo.URI, opts.cfg.Mongo.Database)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			p, err := flags.predicate()
			if err != nil {
				return err
			}
			sortFields, err := flags.sort()
			if err != nil {
				return err
			}
			a := mongodb.NewAccess(store,
				mongodb.WithConcurrency(opts.cfg.Mongo.Concurrency),
				mongodb.WithMiddlewares(middlewares(opts, page.cache)...))
			req := mongodb.Request{
				Collections: strings.Split(args[0], ","),
				Filter:      p,
				Sort:        sortFields,
				Fields:      flags.fieldNames(),
			}

			var res *access.QueryResult
			if page.paged() {
				res, err = a.ExecutePage(ctx, req, page.size, page.index)
			} else {
				res, err = a.Execute(ctx, req)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	page.register(cmd)
	return cmd
}

func newQuerySearchCommand(opts *rootOptions) *cobra.Command {
	var (
		flags queryFlags
		page  pageFlags
	)
	cmd := &cobra.Command{
		Use:   "search <index>",
		Short: "Run a paged Elasticsearch query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.cfg.Search.URLs) == 0 {
				return errors.New("search.urls is not configured")
			}
			searcher, err := search.Connect(opts.cfg.Search.URLs...)
			if err != nil {
				return err
			}

			p, err := flags.predicate()
			if err != nil {
				return err
			}
			sortFields, err := flags.sort()
			if err != nil {
				return err
			}
			a := search.NewAccess(searcher,
				search.WithCompiler(search.NewCompiler(search.WithAnalyzer(opts.cfg.Search.Analyzer))),
				search.WithMiddlewares(middlewares(opts, page.cache)...))
			res, err := a.ExecutePage(cmd.Context(), search.Request{
				Index:  args[0],
				Filter: p,
				Sort:   sortFields,
				Fields: flags.fieldNames(),
			}, page.size, max(page.index, 1))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	page.register(cmd)
	return cmd
}
