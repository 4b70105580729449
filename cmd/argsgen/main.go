package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sghaida/odistage/internal/config"
	"github.com/sghaida/odistage/internal/logging"
	"github.com/spf13/cobra"
)

// version is overridden at link time.
var version = "dev"

// newRootCmd builds the command tree. Output goes to stdout and stderr so
// tests can capture it.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "argsgen",
		Short: "Generate typed staging helpers for a client type",
		Long: `argsgen reads a binding spec (YAML or JSON) naming a client type and its
argument signature, and writes typed Stage/TryGet/Clear/Instantiate helpers
over the di staging registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringP("config", "c", "", "config file (YAML)")

	root.AddCommand(newGenerateCmd(), newVersionCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var specPath, outPath string

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate helpers from a binding spec",
		Example: `  //go:generate go run github.com/sghaida/odistage/cmd/argsgen generate --spec enemy.args.yaml --out enemy_args.gen.go`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(specPath) == "" || strings.TrimSpace(outPath) == "" {
				return fmt.Errorf("usage: argsgen generate --spec <file.args.yaml> --out <file.gen.go>")
			}

			cfgPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.New(cfgPath))
			if err != nil {
				return err
			}

			log := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			log.Debug("generating helpers", "spec", specPath, "out", outPath, "di_import", cfg.Generator.DIImport)

			if err := generate(specPath, outPath, cfg.Generator.DIImport, cfg.Generator.Header); err != nil {
				log.Error("generation failed", "spec", specPath, "error", err)
				return err
			}
			log.Info("wrote helpers", "out", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&specPath, "spec", "", "path to the binding spec")
	cmd.Flags().StringVar(&outPath, "out", "", "output .gen.go file path")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the argsgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "argsgen", version)
		},
	}
}

// run executes the command tree and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, "argsgen:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
