package cmd

import (
	"strconv"

	"github.com/WuKongIM/zdb/pkg/state"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type processCMD struct {
	ctx  *ZDBContext
	path string
}

func newProcessCMD(ctx *ZDBContext) *processCMD {
	return &processCMD{
		ctx: ctx,
	}
}

func (p *processCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "print information about deployed processes",
	}
	addPathFlag(cmd, &p.path, "the state directory, runtime or a snapshot of the partition")
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "list the deployed processes",
		Args:  cobra.NoArgs,
		RunE:  p.list,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "entity KEY",
		Short: "print the process with the process definition key, resource included",
		Args:  cobra.ExactArgs(1),
		RunE:  p.entity,
	})
	return cmd
}

func (p *processCMD) list(cmd *cobra.Command, args []string) error {
	store, err := p.ctx.openStore(p.path)
	if err != nil {
		return err
	}
	defer store.Close()

	processes, err := state.NewProcessState(store).ListProcesses()
	if err != nil {
		return err
	}
	return p.ctx.printJson(processes)
}

func (p *processCMD) entity(cmd *cobra.Command, args []string) error {
	k, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errors.Errorf("key %s is not a number", args[0])
	}
	store, err := p.ctx.openStore(p.path)
	if err != nil {
		return err
	}
	defer store.Close()

	details, err := state.NewProcessState(store).Process(k)
	if err != nil {
		return err
	}
	return p.ctx.printJson(details)
}
