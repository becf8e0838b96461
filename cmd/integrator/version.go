package main

import (
	"fmt"
	"strings"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of integrator",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "integrator version %s\n", strings.TrimSpace(integrator.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
