package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/gridcalc/internal/app"
	"github.com/vk/gridcalc/internal/config"
)

// Exit codes.
const (
	ExitRuntime    = 1
	ExitUsage      = 2
	ExitCellErrors = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

func runtimeError(err error) *ExitError {
	return &ExitError{Code: ExitRuntime, Message: err.Error()}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	outW, errW  io.Writer
	logLevel    string
	logFormat   string
	configPaths []string
}

// newApp validates the shared flags and builds the App. Logs go to errW so
// that command output on outW stays machine readable.
func (o *rootOptions) newApp(defaultFormat string, overrides config.Patch) (*app.App, error) {
	format := o.logFormat
	if format == "" {
		format = defaultFormat
	}
	cfg, err := app.NewConfig(app.Config{
		ConfigPaths: o.configPaths,
		LogFormat:   format,
		LogLevel:    o.logLevel,
		Overrides:   overrides,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(o.errW, cfg), nil
}

// NewRootCommand assembles the command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &rootOptions{outW: outW, errW: errW}

	root := &cobra.Command{
		Use:   "gridcalc",
		Short: "Evaluate spreadsheet formula grids",
		Long: `gridcalc evaluates matrices of spreadsheet cells. Cells hold numbers or
formulas such as "=A1+B2*2"; references are resolved, cycles detected and
every cell computed in dependency order.

Run it as an HTTP/socket.io service with "serve", or evaluate grid files
(.json, .csv, .xlsx, .hcl) directly with "eval".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if _, err := app.NewConfig(app.Config{LogFormat: opts.logFormat, LogLevel: opts.logLevel}); err != nil {
				return usageError(err)
			}
			return nil
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log output format: 'text' or 'json' (default json for serve, text otherwise).")
	pf.StringSliceVarP(&opts.configPaths, "config", "c", nil, "Configuration file or directory (.hcl or .toml). Repeatable.")

	root.AddCommand(
		newServeCmd(opts),
		newEvalCmd(opts),
		newRefCmd(opts),
		newParseCmd(opts),
	)
	return root
}

// Execute runs args against the command tree. Every failure is returned as
// an *ExitError: errors raised by cobra itself (unknown commands, bad
// arguments) are usage errors.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return usageError(err)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
