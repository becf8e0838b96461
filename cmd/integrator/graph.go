package main

import (
	"fmt"

	"github.com/Novokreschennih/AI-Partner-Integrator/internal/compiler"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [script]",
	Short: "Export the compiled workflow as a Mermaid diagram",
	Long: `Compiles the script and outputs a Mermaid flowchart of the workflow.
With --route, the path an incoming message with that text takes is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route, _ := cmd.Flags().GetString("route")

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

		var overlay *graph.Overlay
		if route != "" {
			rules := compiler.BuildRules(res.Blocks, e.compiler.StartTrigger())
			overlay = &graph.Overlay{Highlighted: graph.Trace(res.Document, compiler.Route(rules, route))}
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(res.Document, res.Rules, overlay))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("route", "", "Highlight the path taken by a message with this text")
}
