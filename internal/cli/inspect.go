package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/gridcalc/internal/api"
	"github.com/vk/gridcalc/internal/celladdr"
)

func newRefCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "ref CELL",
		Short:   "Print the zero-based row and column of an A1 reference",
		Example: "  gridcalc ref AA10   # prints: 9 26",
		Args:    exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			addr, err := celladdr.Parse(args[0])
			if err != nil {
				return usageError(err)
			}
			_, err = fmt.Fprintf(root.outW, "%d %d\n", addr.Row, addr.Col)
			return err
		},
	}
}

func newParseCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "parse TEXT",
		Short:   "Show how cell text is interpreted",
		Example: `  gridcalc parse "=A1+B2*2"`,
		Args:    exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			desc := api.DescribeCell(args[0])
			if !desc.Success {
				msg := fmt.Sprintf("%s: %s", desc.ErrorKind, desc.Error)
				if desc.Position != nil {
					msg = fmt.Sprintf("%s\n  %s\n  %s^", msg, args[0], strings.Repeat(" ", *desc.Position))
				}
				return &ExitError{Code: ExitRuntime, Message: msg}
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "kind: %s\n", desc.Kind)
			if desc.Value != nil {
				fmt.Fprintf(&sb, "value: %g\n", *desc.Value)
			}
			if desc.Expression != "" {
				fmt.Fprintf(&sb, "expression: %s\n", desc.Expression)
				fmt.Fprintf(&sb, "references: %s\n", strings.Join(desc.References, ", "))
			}
			_, err := fmt.Fprint(root.outW, sb.String())
			return err
		},
	}
}
