package main

import (
	"encoding/json"
	"fmt"

	"github.com/fyerfyer/fyer-uquery/mongodb"
	"github.com/fyerfyer/fyer-uquery/search"
	"github.com/fyerfyer/fyer-uquery/sqlbuilder"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
)

func newCompileCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a predicate without running it",
	}
	cmd.AddCommand(newCompileSQLCommand(opts))
	cmd.AddCommand(newCompileMongoCommand())
	cmd.AddCommand(newCompileSearchCommand(opts))
	return cmd
}

func newCompileSQLCommand(opts *rootOptions) *cobra.Command {
	var (
		flags   queryFlags
		dialect string
		top     int
	)
	cmd := &cobra.Command{
		Use:   "sql <source>",
		Short: "Print the SELECT statement for a table or sub query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dialect == "" {
				dialect = opts.cfg.SQL.Dialect
			}
			d, err := sqlbuilder.ParseDialect(dialect)
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
			query, err := sqlbuilder.NewBuilder(args[0], d).
				Select(flags.fieldNames()...).
				Where(p).
				OrderBy(sortFields...).
				Top(top).
				Build()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), query)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "oracle|sqlserver|mysql, defaults to sql.dialect")
	cmd.Flags().IntVar(&top, "top", 0, "only the first n rows")
	return cmd
}

func newCompileMongoCommand() *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "mongo",
		Short: "Print the MongoDB filter, sort and projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.predicate()
			if err != nil {
				return err
			}
			sortFields, err := flags.sort()
			if err != nil {
				return err
			}
			filter, err := mongodb.Filter(p)
			if err != nil {
				return err
			}
			doc := bson.D{{Key: "filter", Value: filter}}
			if s := mongodb.Sort(sortFields); s != nil {
				doc = append(doc, bson.E{Key: "sort", Value: s})
			}
			if proj := mongodb.Projection(mongodb.Display, flags.fieldNames()...); proj != nil {
				doc = append(doc, bson.E{Key: "projection", Value: proj})
			}
			data, err := bson.MarshalExtJSON(doc, false, false)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

func newCompileSearchCommand(opts *rootOptions) *cobra.Command {
	var (
		flags    queryFlags
		analyzer string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print the Elasticsearch query DSL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if analyzer == "" {
				analyzer = opts.cfg.Search.Analyzer
			}
			p, err := flags.predicate()
			if err != nil {
				return err
			}
			q, err := search.NewCompiler(search.WithAnalyzer(analyzer)).Compile(p)
			if err != nil {
				return err
			}
			src, err := q.Source()
			if err != nil {
				return err
			}
			data, err := json.Marshal(src)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.filter, "filter", "f", "", "predicate JSON")
	cmd.Flags().StringVar(&analyzer, "analyzer", "", "analyzer used by Like, defaults to search.analyzer")
	return cmd
}
