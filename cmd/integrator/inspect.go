package main

import (
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [script]",
	Short: "Show the routing table and diagnostics of a compiled script",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		data, err := readScript(cmd, args)
		if err != nil {
			return err
		}
		res, err := e.compiler.CompileSource(data)
		if err != nil {
			return err
		}

		report := tui.Report(res)
		if !raw {
			render, err := tui.NewRenderer(isTerminal(cmd))
			if err != nil {
				return err
			}
			if report, err = render(report); err != nil {
				return err
			}
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), report)
		return err
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print the markdown source instead of rendering it")
}
