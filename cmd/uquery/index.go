package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fyerfyer/fyer-uquery/datasource"
	"github.com/fyerfyer/fyer-uquery/mongodb"
	"github.com/spf13/cobra"
)

func newIndexCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Look up precomputed indicator values",
	}
	cmd.AddCommand(newIndexKeyCommand())
	cmd.AddCommand(newIndexGetCommand(opts))
	return cmd
}

// parseParams 解析 NAME=VALUE，值里可以有逗号和等号
func parseParams(raw []string) (map[string]string, []string, error) {
	params := make(map[string]string, len(raw))
	names := make([]string, 0, len(raw))
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("invalid parameter %q, want NAME=VALUE", item)
		}
		params[name] = value
		names = append(names, name)
	}
	return params, names, nil
}

func newIndexKeyCommand() *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "key <indicator-id>",
		Short: "Print the storage key of an indicator value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid indicator id %q: %w", args[0], err)
			}
			params, names, err := parseParams(raw)
			if err != nil {
				return err
			}
			key, err := datasource.IndexKey(datasource.Indicator{ID: id, Params: names}, params)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "param", "p", nil, "indicator parameter NAME=VALUE, repeatable")
	return cmd
}

func newIndexGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>...",
		Short: "Fetch indicator values by key from MongoDB",
		Args:  cobra.MinimumNArgs(1),
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

			values, err := datasource.NewIndexAccess(store, opts.cfg.Mongo.Index).Values(ctx, args...)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), values)
		},
	}
}
