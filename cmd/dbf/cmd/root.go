package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/axgle/mahonia"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	dbf "github.com/Ulysses-Xu/go-dbf/v2"
	"github.com/Ulysses-Xu/go-dbf/v2/internal/config"
	"github.com/Ulysses-Xu/go-dbf/v2/internal/logging"
)

// stdio is the file name standing for standard input or output.
const stdio = "-"

type app struct {
	cfgFile  string
	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

// newRootCmd builds the dbf command tree together with the state its
// commands share.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{closeLog: func() error { return nil }}

	rootCmd := &cobra.Command{
		Use:   "dbf",
		Short: "Inspect, convert and extend dBASE tables",
		Long: `dbf reads dBASE/FoxPro table files, prints their structure,
exports their records as CSV and appends new records.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.dbf.yaml)")
	flags.StringP(config.KeyEncoding, "e", "utf-8", "charset of column names and character values")
	flags.String(config.KeyLogLevel, "warn", "log level: debug, info, warn or error")
	flags.String(config.KeyLogFormat, "text", "log format: text or json")
	flags.String(config.KeyLogFile, "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(
		newInfoCmd(a),
		newExportCmd(a),
		newCreateCmd(a),
		newAppendCmd(a),
	)
	return rootCmd, a
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	rootCmd, a := newRootCmd()
	if err := a.execute(rootCmd); err != nil {
		os.Exit(1)
	}
}

// execute runs rootCmd and releases the log file whether or not the command
// succeeded.
func (a *app) execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	return multierr.Append(err, a.closeLog())
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.cfg = config.Load(v)
	if mahonia.NewDecoder(a.cfg.Encoding) == nil {
		return fmt.Errorf("unsupported encoding %q", a.cfg.Encoding)
	}

	logCfg := logging.Config{
		Level:      logging.LogLevel(a.cfg.LogLevel),
		OutputPath: a.cfg.LogFile,
		Format:     a.cfg.LogFormat,
	}
	if logCfg.OutputPath == "" {
		a.log = logging.NewWithWriter(cmd.ErrOrStderr(), logCfg)
		return nil
	}
	log, closeFn, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.log, a.closeLog = log, closeFn
	return nil
}

func (a *app) tableOptions() []dbf.Option {
	return []dbf.Option{
		dbf.WithLogger(a.log),
		dbf.WithEncoding(a.cfg.Encoding),
	}
}

// openTable opens path, or standard input when path is "-". Tables read from
// standard input are held in memory.
func (a *app) openTable(cmd *cobra.Command, path string, readOnly bool) (*dbf.Table, error) {
	opts := a.tableOptions()
	if path == stdio {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		a.log.Debug("table read from standard input", "bytes", len(data))
		return dbf.OpenStream(dbf.NewBuffer(data), opts...)
	}
	if readOnly {
		opts = append(opts, dbf.WithReadOnly())
	}
	return dbf.Open(path, opts...)
}
