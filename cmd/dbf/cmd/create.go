package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	dbf "github.com/Ulysses-Xu/go-dbf/v2"
)

// Column widths used when a field definition omits its length.
var defaultLengths = map[dbf.FieldType]int{
	dbf.Date:    8,
	dbf.Logical: 1,
	dbf.Memo:    10,
}

func newCreateCmd(a *app) *cobra.Command {
	var specs []string
	cmd := &cobra.Command{
		Use:   "create [file]",
		Short: "Create an empty table",
		Long: `Create an empty table. Every --field takes NAME:TYPE[:LENGTH[:DECIMALS]]
where TYPE is one of C, N, F, D, L or M. Use "-" as file to write the
table to standard output.`,
		Example: `  dbf create people.dbf -f NAME:C:20 -f AGE:N:3 -f BORN:D`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			fields := make([]dbf.FieldDescriptor, 0, len(specs))
			for _, spec := range specs {
				f, err := parseField(spec)
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}
			if len(fields) == 0 {
				return fmt.Errorf("at least one --field is required")
			}

			if args[0] == stdio {
				buf := dbf.NewBuffer(nil)
				tbl, err := dbf.CreateStream(buf, fields, a.tableOptions()...)
				if err != nil {
					return err
				}
				if err := tbl.Close(); err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			tbl, err := dbf.Create(args[0], fields, a.tableOptions()...)
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, tbl.Close())
			}()
			a.log.Info("table created", "file", args[0], "cols", tbl.NumCols(), "record_length", tbl.RecordLength())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&specs, "field", "f", nil, "column definition NAME:TYPE[:LENGTH[:DECIMALS]], repeatable")
	return cmd
}

func parseField(spec string) (dbf.FieldDescriptor, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 4 || len(parts[1]) != 1 {
		return dbf.FieldDescriptor{}, fmt.Errorf("invalid field %q, want NAME:TYPE[:LENGTH[:DECIMALS]]", spec)
	}
	typ := dbf.FieldType(strings.ToUpper(parts[1])[0])

	length, ok := defaultLengths[typ]
	if len(parts) > 2 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return dbf.FieldDescriptor{}, fmt.Errorf("invalid length in field %q: %w", spec, err)
		}
		length, ok = n, true
	}
	if !ok {
		return dbf.FieldDescriptor{}, fmt.Errorf("field %q needs a length", spec)
	}

	decimals := 0
	if len(parts) > 3 {
		n, err := strconv.Atoi(parts[3])
		if err != nil {
			return dbf.FieldDescriptor{}, fmt.Errorf("invalid decimals in field %q: %w", spec, err)
		}
		decimals = n
	}
	return dbf.NewField(typ, strings.ToUpper(parts[0]), length, decimals)
}
