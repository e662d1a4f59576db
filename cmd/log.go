package cmd

import (
	"github.com/WuKongIM/zdb/pkg/causality"
	"github.com/WuKongIM/zdb/pkg/zberr"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/spf13/cobra"
)

type logCMD struct {
	ctx      *ZDBContext
	path     string
	position int64
	index    uint64
}

func newLogCMD(ctx *ZDBContext) *logCMD {
	return &logCMD{
		ctx: ctx,
	}
}

func (l *logCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "inspect the journal of a partition",
	}
	addPathFlag(cmd, &l.path, "the partition directory holding the journal segments")

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "print every journal record as json",
		Args:  cobra.NoArgs,
		RunE:  l.print,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dot",
		Short: "print the causality graph of the log entries in graphviz dot format",
		Args:  cobra.NoArgs,
		RunE:  l.dot,
	})
	search := &cobra.Command{
		Use:   "search",
		Short: "print the entry at a position or the record at an index",
		Args:  cobra.NoArgs,
		RunE:  l.search,
	}
	search.Flags().Int64Var(&l.position, "position", 0, "entry position")
	search.Flags().Uint64Var(&l.index, "index", 0, "journal index")
	search.MarkFlagsMutuallyExclusive("position", "index")
	search.MarkFlagsOneRequired("position", "index")
	cmd.AddCommand(search)
	return cmd
}

func (l *logCMD) print(cmd *cobra.Command, args []string) error {
	content, err := l.ctx.readLog(l.path)
	if err != nil {
		return err
	}
	return l.ctx.printJson(content)
}

func (l *logCMD) dot(cmd *cobra.Command, args []string) error {
	content, err := l.ctx.readLog(l.path)
	if err != nil {
		return err
	}
	g, err := causality.Build(content, causality.WithDanglingPolicy(l.ctx.opts.Log.Dangling))
	if err != nil {
		return err
	}
	if err := g.WriteDot(l.ctx.out); err != nil {
		return err
	}
	_, err = l.ctx.out.Write([]byte("\n"))
	return err
}

func (l *logCMD) search(cmd *cobra.Command, args []string) error {
	content, err := l.ctx.readLog(l.path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("position") {
		entry, _, ok := content.FindPosition(l.position)
		if !ok {
			return zberr.NotFound("log position", key.Int64(l.position))
		}
		return l.ctx.printJson(entry)
	}
	record, ok := content.FindIndex(l.index)
	if !ok {
		return zberr.NotFound("log index", key.Int64(int64(l.index)))
	}
	return l.ctx.printJson(record)
}
