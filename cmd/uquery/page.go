package main

import (
	"github.com/fyerfyer/fyer-uquery/paging"
	"github.com/spf13/cobra"
)

type pageOutput struct {
	PageSize    int `json:"page_size"`
	PageIndex   int `json:"page_index"`
	PageCount   int `json:"page_count"`
	RecordCount int `json:"record_count"`
	Start       int `json:"start"`
	End         int `json:"end"`
}

func newPageCommand(_ *rootOptions) *cobra.Command {
	var size, index, count int
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Normalize paging parameters and print the row window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := paging.Normalize(size, index, count)
			w := p.Window()
			return writeJSON(cmd.OutOrStdout(), pageOutput{
				PageSize:    p.Size,
				PageIndex:   p.Index,
				PageCount:   p.Count,
				RecordCount: p.RecordCount,
				Start:       w.Start,
				End:         w.End,
			})
		},
	}
	cmd.Flags().IntVar(&size, "size", 0, "page size")
	cmd.Flags().IntVar(&index, "index", 1, "page index, starting from 1")
	cmd.Flags().IntVar(&count, "count", 0, "record count")
	return cmd
}
