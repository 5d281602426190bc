package cmd

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"

	"github.com/axgle/mahonia"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	dbf "github.com/Ulysses-Xu/go-dbf/v2"
	"github.com/Ulysses-Xu/go-dbf/v2/internal/config"
)

type exportOptions struct {
	output      string
	start       int
	count       int
	skipDeleted bool
	noHeader    bool
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the records of a table as CSV",
		Long: `Write the records of a table as CSV. Use "-" as file to read the
table from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			delim, err := a.cfg.DelimiterRune()
			if err != nil {
				return err
			}
			tbl, err := a.openTable(cmd, args[0], true)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, tbl.Close())
			}()

			out := cmd.OutOrStdout()
			if opts.output != "" && opts.output != stdio {
				f, createErr := os.Create(opts.output)
				if createErr != nil {
					return createErr
				}
				defer func() {
					err = multierr.Append(err, f.Close())
				}()
				out = f
			}

			w := csv.NewWriter(out)
			w.Comma = delim
			n, err := a.export(tbl, w, opts)
			a.log.Info("table exported", "file", args[0], "records", n)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", `output file, "-" or empty for standard output`)
	flags.IntVar(&opts.start, "start", 1, "first record, counting from 1; negative values count from the end")
	flags.IntVar(&opts.count, "count", 0, "maximum number of records, 0 for all")
	flags.BoolVar(&opts.skipDeleted, "skip-deleted", false, "omit records marked as deleted")
	flags.BoolVar(&opts.noHeader, "no-header", false, "do not write the column names")
	flags.StringP(config.KeyDelimiter, "d", ",", "field delimiter")
	flags.Bool(config.KeyTrim, true, "trim surrounding blanks from values")
	return cmd
}

func (a *app) export(tbl *dbf.Table, w *csv.Writer, opts exportOptions) (int, error) {
	decoder := mahonia.NewDecoder(a.cfg.Encoding)
	if !opts.noHeader {
		if err := w.Write(tbl.Columns()); err != nil {
			return 0, err
		}
	}

	written := 0
	if tbl.NumRows() > 0 {
		if _, err := tbl.SetPosition(opts.start); err != nil {
			return 0, err
		}
		buf := make([]byte, tbl.RecordLength())
		row := make([]string, tbl.NumCols())
		for opts.count <= 0 || written < opts.count {
			_, err := tbl.ReadNext(buf)
			if errors.Is(err, dbf.ErrEndOfTable) {
				break
			}
			if err != nil {
				return written, err
			}
			if opts.skipDeleted && buf[0] == '*' {
				continue
			}
			for i := range row {
				value, err := tbl.FieldValue(buf, i)
				if err != nil {
					return written, err
				}
				s := decoder.ConvertString(string(value))
				if a.cfg.Trim {
					s = strings.TrimSpace(s)
				}
				row[i] = s
			}
			if err := w.Write(row); err != nil {
				return written, err
			}
			written++
		}
	}

	w.Flush()
	return written, w.Error()
}
