package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/fyerfyer/fyer-uquery/config"
	"github.com/fyerfyer/fyer-uquery/logger"
	"github.com/fyerfyer/fyer-uquery/uquery"
	"github.com/spf13/cobra"
)

// rootOptions 所有子命令共用的参数
type rootOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "uquery",
		Short:         "Compile and run backend-neutral queries",
		Long:          "Compile predicate JSON to SQL, MongoDB filters or Elasticsearch DSL, and run paged queries against configured backends.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			opts.cfg = cfg

			logOpts := []logger.Option{
				logger.WithLevel(logger.ParseLevel(cfg.Log.Level)),
				logger.WithOutput(cmd.ErrOrStderr()),
			}
			if cfg.Log.Console {
				logOpts = append(logOpts, logger.WithConsole())
			}
			opts.log = logger.New(logOpts...)
			logger.SetDefault(opts.log)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("UQUERY_CONFIG"), "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(newCompileCommand(opts))
	cmd.AddCommand(newPageCommand(opts))
	cmd.AddCommand(newQueryCommand(opts))
	cmd.AddCommand(newIndexCommand(opts))
	return cmd
}

// queryFlags 描述过滤、排序和显示列的参数
type queryFlags struct {
	filter string
	order  string
	fields string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "predicate JSON")
	cmd.Flags().StringVarP(&f.order, "order", "o", "", "sort JSON")
	cmd.Flags().StringVar(&f.fields, "fields", "", "comma separated fields")
}

func (f *queryFlags) predicate() (uquery.Predicate, error) {
	if strings.TrimSpace(f.filter) == "" {
		return nil, nil
	}
	return uquery.Deserialize(f.filter)
}

func (f *queryFlags) sort() ([]uquery.SortField, error) {
	return uquery.DeserializeSort(f.order)
}

func (f *queryFlags) fieldNames() []string {
	var res []string
	for _, name := range strings.Split(f.fields, ",") {
		if name = strings.TrimSpace(name); name != "" {
			res = append(res, name)
		}
	}
	return res
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
