package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"sift/internal/version"
)

// buildDetails is everything the version command reports about the binary.
type buildDetails struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sift version and build details",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, err := cmd.Flags().GetBool("json")
		if err != nil {
			return fmt.Errorf("failed to get json flag: %w", err)
		}

		details := buildDetails{
			Version: version.String(),
			Commit:  version.CommitHash(),
			Date:    version.Date,
			Go:      runtime.Version(),
		}
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(details)
		}

		fmt.Fprintf(out, "sift %s\n", details.Version)
		if details.Commit != "" {
			fmt.Fprintf(out, "  commit  %s\n", details.Commit)
		}
		if details.Date != "" {
			fmt.Fprintf(out, "  built   %s\n", details.Date)
		}
		fmt.Fprintf(out, "  go      %s\n", details.Go)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "emit build details as JSON")
}
