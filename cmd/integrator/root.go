package main

import (
	"fmt"
	"log/slog"
	"os"

	integrator "github.com/Novokreschennih/AI-Partner-Integrator"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/adapters/file"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/config"
	"github.com/Novokreschennih/AI-Partner-Integrator/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "integrator",
	Short: "Integrator compiles bot scripts into n8n workflows",
	Long: `Integrator turns a conversational bot script (a list of trigger-activated blocks
of messages and inline buttons) into a Telegram workflow that n8n can import.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Compile profile (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("start-trigger", "", "Entry trigger routed by prefix (default /start)")
	rootCmd.PersistentFlags().Int("delay", 0, "Pause between consecutive messages of a block")
	rootCmd.PersistentFlags().String("delay-unit", "", "Unit of the pause: seconds, minutes, hours, days")
}

// env is what every command needs: the effective profile, a logger and a compiler.
type env struct {
	profile  config.Profile
	logger   *slog.Logger
	compiler *integrator.Compiler
}

// setup loads the profile, applies flag overrides and builds the compiler.
func setup(cmd *cobra.Command, extra ...integrator.Option) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	p, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	var flags config.Profile
	flags.LogLevel, _ = cmd.Flags().GetString("log-level")
	flags.StartTrigger, _ = cmd.Flags().GetString("start-trigger")
	flags.Delay.Amount, _ = cmd.Flags().GetInt("delay")
	flags.Delay.Unit, _ = cmd.Flags().GetString("delay-unit")
	p = p.Merge(flags)
	if cmd.Flags().Changed("delay") {
		p.Delay.Amount = flags.Delay.Amount
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(p.LogLevel)
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	opts := append(p.Options(), integrator.WithLogger(logger))
	opts = append(opts, extra...)
	return &env{profile: p, logger: logger, compiler: integrator.New(opts...)}, nil
}

// readScript reads the script named by the first argument ("-" or none means stdin).
func readScript(cmd *cobra.Command, args []string) ([]byte, error) {
	path := file.Stdin
	if len(args) > 0 {
		path = args[0]
	}
	src := &file.Source{Path: path, Stdin: cmd.InOrStdin()}
	return src.ReadScript(cmd.Context())
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
