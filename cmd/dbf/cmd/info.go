package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Print the header and column layout of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tbl, err := a.openTable(cmd, args[0], true)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, tbl.Close())
			}()

			memo := "no"
			if tbl.IsMemo() {
				memo = "yes"
			}
			date := tbl.DateString()
			if date == "" {
				date = "-"
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "File:\t%s\n", args[0])
			fmt.Fprintf(w, "Version:\t%s (0x%02X)\n", tbl.VersionName(), tbl.Version())
			fmt.Fprintf(w, "Memo:\t%s\n", memo)
			fmt.Fprintf(w, "Last update:\t%s\n", date)
			fmt.Fprintf(w, "Records:\t%d\n", tbl.NumRows())
			fmt.Fprintf(w, "Header size:\t%d\n", tbl.HeaderSize())
			fmt.Fprintf(w, "Record length:\t%d\n", tbl.RecordLength())
			fmt.Fprintf(w, "Columns:\t%d\n", tbl.NumCols())
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tName\tType\tLength\tDecimals\tOffset")
			columns := tbl.Columns()
			for i, f := range tbl.Fields() {
				fmt.Fprintf(w, "%d\t%s\t%c\t%d\t%d\t%d\n", i, columns[i], f.Type, f.Length, f.Decimals, f.Offset())
			}
			return w.Flush()
		},
	}
}
