package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bundlex/pkg/version"
)

// versionCmd displays the current version of the bundlex application.
// The --short flag retrieves a concise version string.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of bundlex",
	Long:  `Display the current version information of the bundlex CLI tool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Println(v.Version)
		} else {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	rootCmd.AddCommand(versionCmd)
}
