package cmd

import (
	"fmt"

	"github.com/axgle/mahonia"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/Ulysses-Xu/go-dbf/v2/mapping"
)

func newAppendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "append [file] [value]...",
		Short: "Append one record, giving one value per column",
		Long: `Append one record, giving one value per column in column order.
Character values are cut to the column width, numbers are right-aligned.
The new number of records is printed.`,
		Example: `  dbf append people.dbf "John" 42 19820403`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if args[0] == stdio {
				return fmt.Errorf("append needs a table file, not standard input")
			}
			tbl, err := a.openTable(cmd, args[0], false)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, tbl.Close())
			}()

			values := args[1:]
			if len(values) != tbl.NumCols() {
				return fmt.Errorf("table has %d columns, got %d values", tbl.NumCols(), len(values))
			}

			encoder := mahonia.NewEncoder(a.cfg.Encoding)
			data := make([]byte, 0, tbl.RecordLength()-1)
			for i, f := range tbl.Fields() {
				b, err := mapping.Pad(f, encoder.ConvertString(values[i]))
				if err != nil {
					return fmt.Errorf("column %s: %w", tbl.Columns()[i], err)
				}
				data = append(data, b...)
			}

			n, err := tbl.AppendRecord(data)
			if err != nil {
				return err
			}
			a.log.Debug("record appended", "file", args[0], "rows", n)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}
