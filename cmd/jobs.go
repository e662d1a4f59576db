package cmd

import (
	"strconv"

	"github.com/WuKongIM/zdb/pkg/state"
	"github.com/WuKongIM/zdb/pkg/zbutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type jobsCMD struct {
	ctx  *ZDBContext
	path string
}

func newJobsCMD(ctx *ZDBContext) *jobsCMD {
	return &jobsCMD{
		ctx: ctx,
	}
}

func (j *jobsCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "print information about jobs",
	}
	addPathFlag(cmd, &j.path, "the state directory, runtime or a snapshot of the partition")
	cmd.AddCommand(&cobra.Command{
		Use:   "key KEY",
		Short: "print the jobs of an element instance or process instance key",
		Args:  cobra.ExactArgs(1),
		RunE:  j.byKey,
	})
	return cmd
}

func (j *jobsCMD) byKey(cmd *cobra.Command, args []string) error {
	k, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Errorf("key %s is not a number", args[0])
	}
	store, err := j.ctx.openStore(j.path)
	if err != nil {
		return err
	}
	defer store.Close()

	printer := zbutil.NewJsonArrayPrinter(j.ctx.out)
	result, err := state.NewJobState(store).ListJobs(state.ByInstanceKey(k), func(job state.Job) bool {
		return printer.Print(job) == nil
	})
	if err != nil {
		return err
	}
	if err := printer.Close(); err != nil {
		return err
	}
	j.ctx.reportSkipped(result)
	return nil
}
