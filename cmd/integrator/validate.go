package main

import (
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [script]",
	Short: "Check a script without writing a workflow",
	Long:  `Parses and compiles the script, reporting every structural problem and every diagnostic.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		data, err := readScript(cmd, args)
		if err != nil {
			return err
		}

		status := tui.NewStatus(cmd.OutOrStdout())
		res, err := e.compiler.CompileSource(data)
		if err != nil {
			status.Error("script is invalid")
			return err
		}

		for _, d := range res.Diagnostics {
			status.Warn("%s: %s", d.Code, d)
		}
		if strict && len(res.Diagnostics) > 0 {
			return fmt.Errorf("%d diagnostics reported (--strict)", len(res.Diagnostics))
		}
		status.Success("script is valid: %d blocks, %d nodes", len(res.Blocks), len(res.Document.Nodes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat diagnostics as failures")
}
