package main

import (
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/adapters/file"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [script]",
	Short: "Compile a script into n8n workflow JSON",
	Long: `Reads a script (JSON or YAML, file path or "-" for stdin) and writes the n8n workflow.
Without --output the workflow is printed to stdout. Diagnostics are reported on stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		strict, _ := cmd.Flags().GetBool("strict")

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		data, err := readScript(cmd, args)
		if err != nil {
			return err
		}

		status := tui.NewStatus(cmd.ErrOrStderr())
		res, err := e.compiler.CompileSource(data)
		if err != nil {
			status.Error("compile failed")
			return err
		}
		for _, d := range res.Diagnostics {
			status.Warn("%s: %s", d.Code, d)
		}
		if strict && len(res.Diagnostics) > 0 {
			return fmt.Errorf("%d diagnostics reported (--strict)", len(res.Diagnostics))
		}

		out, err := res.Document.Marshal()
		if err != nil {
			return err
		}

		if output == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		}
		if err := file.WriteAtomic(output, append(out, '\n')); err != nil {
			return err
		}
		status.Success("wrote %s: %d nodes, %d rules", output, len(res.Document.Nodes), len(res.Rules))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "Write the workflow to this file instead of stdout")
	compileCmd.Flags().Bool("strict", false, "Fail when the compiler reports diagnostics")
}
