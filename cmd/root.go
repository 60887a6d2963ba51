// Package cmd wires the bundlex command-line surface to the bundle core.
package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"bundlex/pkg/bundle"
	"bundlex/pkg/logging"
	"bundlex/pkg/version"
)

var (
	logger *zap.Logger

	flagOutput     string
	flagTree       string
	flagSkip       []string
	flagExclude    []string
	flagSkipBinary bool
	flagJobs       int
	flagDebug      bool
)

// rootCmd is the whole CLI: positional target directory plus one or more
// extension tokens, everything else via flags.
var rootCmd = &cobra.Command{
	Use:   "bundlex <directory> <extension>...",
	Short: "Bundle matching files from a directory tree into one output file",
	Long: `bundlex walks a directory tree, selects files by extension while pruning
excluded subtrees, converts each file into a fenced fragment in parallel and
consolidates everything into a single output file in discovery order.`,
	Example: `  bundlex ./src ts tsx --skip node_modules --skip dist -o bundle.txt
  bundlex . go --exclude 'vendor/' --exclude '*_gen.go' -j 8`,
	Version:       version.Get().Version,
	Args:          cobra.MinimumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.Setup(flagDebug, "bundlex", version.Get().Version)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: cannot determine working directory: %v", bundle.ErrInvalidArgument, err)
		}

		cfg := bundle.Config{
			Directory:  args[0],
			Extensions: args[1:],
			Output:     flagOutput,
			Tree:       flagTree,
			SkipDirs:   flagSkip,
			Excludes:   flagExclude,
			SkipBinary: flagSkipBinary,
			Jobs:       flagJobs,
			WorkingDir: wd,
		}
		return bundle.Run(cfg, logger)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", bundle.DefaultOutput, "path of the consolidated output file")
	rootCmd.Flags().StringVar(&flagTree, "tree", "", "also write a directory-tree rendering to this path")
	rootCmd.Flags().StringSliceVar(&flagSkip, "skip", nil, "directory name to prune (repeatable)")
	rootCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "wildcard pattern to exclude (repeatable)")
	rootCmd.Flags().BoolVar(&flagSkipBinary, "skip-binary", false, "drop files whose content looks binary")
	rootCmd.Flags().IntVarP(&flagJobs, "jobs", "j", bundle.DefaultJobs(), "number of concurrent workers")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	// Unknown flags and bad arity print the error plus usage; runtime errors
	// are logged once by Execute instead.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln("Error:", err)
		cmd.PrintErrln(cmd.UsageString())
		return err
	})
}

// Execute runs the CLI and returns the run's error for exit-code mapping.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logger.Error("bundlex execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	syncLogger()
	return err
}

// syncLogger flushes the zap buffer, tolerating the sync errors terminals
// and pipes produce on some platforms.
func syncLogger() {
	if logger == nil {
		return
	}
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
