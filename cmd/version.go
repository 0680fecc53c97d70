package cmd

import (
	"fmt"

	"github.com/nexusdev/groupguard/utils"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info, err := utils.ReadVersionInfo()
		if err != nil {
			return err
		}

		dirty := ""
		if info.DirtyBuild {
			dirty = " (dirty)"
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "groupguard %s%s\nLast commit: %s\n%s %s/%s\n",
			info.Revision, dirty, info.LastCommit.Format("2006-01-02 15:04:05 MST"),
			info.GoVersion, info.GoOS, info.GoArch)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
