package cmd

import (
	"fmt"

	"github.com/WuKongIM/zdb/version"
	"github.com/spf13/cobra"
)

type versionCMD struct {
}

func newVersionCMD() *versionCMD {
	return &versionCMD{}
}

func (v *versionCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print the build version",
		Args:  cobra.NoArgs,
		RunE:  v.run,
	}
	return cmd
}

func (v *versionCMD) run(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "zdb %s (commit %s, %s, %s)\n", version.Version, version.Commit, version.CommitDate, version.TreeState)
	return err
}
