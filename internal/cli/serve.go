package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vk/gridcalc/internal/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		engine      engineFlags
		listen      string
		corsOrigins []string
		noSocketIO  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the evaluation API over HTTP and socket.io",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			var p config.Patch
			p.Engine = engine.patch(fs)
			if fs.Changed("listen") {
				p.Server.Listen = &listen
			}
			if fs.Changed("cors-origin") {
				p.Server.CORSOrigins = corsOrigins
			}
			if noSocketIO {
				enabled := false
				p.Server.SocketIO = &enabled
			}

			a, err := root.newApp("json", p)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := a.Serve(ctx, nil); err != nil {
				return runtimeError(err)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	engine.register(fs)
	fs.StringVarP(&listen, "listen", "l", "localhost:5000", "Address to listen on.")
	fs.StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origin. Repeatable; '*' allows any.")
	fs.BoolVar(&noSocketIO, "no-socketio", false, "Disable the socket.io endpoint.")
	return cmd
}
