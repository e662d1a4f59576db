package cmd

import (
	"io"

	"github.com/WuKongIM/zdb/internal/options"
	"github.com/WuKongIM/zdb/pkg/raftstatus"
	"github.com/spf13/cobra"
)

type raftCMD struct {
	ctx    *ZDBContext
	path   string
	format string
}

func newRaftCMD(ctx *ZDBContext) *raftCMD {
	return &raftCMD{
		ctx: ctx,
	}
}

func (r *raftCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raft",
		Short: "inspect the raft metadata of a partition",
	}
	addPathFlag(cmd, &r.path, "the partition directory, its name is the partition id")

	status := &cobra.Command{
		Use:   "status",
		Short: "print term, commit index, vote and cluster configuration",
		RunE:  r.status,
	}
	status.Flags().StringVarP(&r.format, "format", "f", string(options.FormatJSON), "output format: json or table")
	cmd.AddCommand(status)
	return cmd
}

func (r *raftCMD) status(cmd *cobra.Command, args []string) error {
	s := raftstatus.New(r.path)
	details, err := s.Details()
	if err != nil {
		return err
	}
	if r.ctx.opts.Format == options.FormatTable {
		return details.WriteTable(r.ctx.out, s.PartitionId())
	}
	out, err := details.JSON()
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.ctx.out, out+"\n")
	return err
}
