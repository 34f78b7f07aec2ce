package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/config"
	"github.com/vk/gridcalc/internal/ctxlog"
	"github.com/vk/gridcalc/internal/gridio"
	"github.com/vk/gridcalc/internal/remote"
	"github.com/vk/gridcalc/internal/render"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	var (
		engine  engineFlags
		format  string
		output  string
		server  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a grid file (.json, .csv, .xlsx or .hcl)",
		Long: `Evaluate a grid file and print the results.

Exit status is 0 when every cell evaluated, 3 when some cells failed and 1
when the grid could not be evaluated at all.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := resolveFormat(format, root.outW)
			if err != nil {
				return err
			}

			a, err := root.newApp("text", config.Patch{Engine: engine.patch(cmd.Flags())})
			if err != nil {
				return err
			}
			ctx := ctxlog.WithLogger(cmd.Context(), a.Logger())

			matrix, err := gridio.ReadFile(ctx, args[0])
			if err != nil {
				return runtimeError(err)
			}

			var resp *api.EvaluateResponse
			if server != "" {
				client := &remote.Client{URL: server, Timeout: timeout}
				resp, err = client.Evaluate(ctx, matrix)
				if err == nil && resp.Result == nil && resp.Error != "" {
					err = errors.New(resp.Error)
				}
			} else {
				resp, err = a.Evaluate(ctx, matrix)
			}
			if err != nil {
				return runtimeError(fmt.Errorf("evaluation failed: %w", err))
			}

			if output != "" {
				if err := gridio.WriteFile(output, resp); err != nil {
					return runtimeError(fmt.Errorf("failed to write %s: %w", output, err))
				}
				a.Logger().Info("Results exported.", "path", output)
			}
			if err := printResult(root.outW, outFormat, resp); err != nil {
				return runtimeError(err)
			}
			if !resp.Success {
				return &ExitError{Code: ExitCellErrors, Message: resp.Error}
			}
			return nil
		},
	}

	fs := cmd.Flags()
	engine.register(fs)
	fs.StringVarP(&format, "format", "f", "", "Output format: table, json or csv (default table on a terminal, json otherwise).")
	fs.StringVarP(&output, "output", "o", "", "Also export results to FILE (.json, .csv or .xlsx).")
	fs.StringVar(&server, "server", "", "Evaluate on a running gridcalc server (e.g. http://localhost:5000) over socket.io.")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for --server requests.")
	return cmd
}

func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case "":
		if f, ok := w.(*os.File); ok && render.IsTerminal(f) {
			return formatTable, nil
		}
		return formatJSON, nil
	case formatTable, formatJSON, formatCSV:
		return format, nil
	}
	return "", usageError(fmt.Errorf("invalid format %q: must be table, json or csv", format))
}

func printResult(w io.Writer, format string, resp *api.EvaluateResponse) error {
	switch format {
	case formatTable:
		color := false
		if f, ok := w.(*os.File); ok {
			color = render.ShouldUseColor(f)
		}
		return render.Table(w, resp, color)
	case formatCSV:
		return gridio.WriteCSV(w, resp)
	default:
		return gridio.WriteJSON(w, resp)
	}
}
