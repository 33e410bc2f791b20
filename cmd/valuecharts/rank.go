package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/ValueCharts/internal/weighting"
)

func newRankCmd() *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:   "rank OBJECTIVE...",
		Short: "Print SMARTER weights for objectives ranked most important first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRankTable(cmd.OutOrStdout(), args, precision)
		},
	}
	cmd.Flags().IntVar(&precision, "precision", 4, "decimal places to print")
	return cmd
}

func writeRankTable(w io.Writer, ids []string, precision int) error {
	wm, err := weighting.RankWeights(ids)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Objective", "Weight"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, id := range ids {
		weight, _ := wm.ObjectiveWeight(id)
		data = append(data, []string{
			strconv.Itoa(i + 1),
			id,
			strconv.FormatFloat(weight, 'f', precision, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
