package cmd

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/WuKongIM/zdb/pkg/zbutil"
	"github.com/WuKongIM/zdb/pkg/zdb/key"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type stateCMD struct {
	ctx  *ZDBContext
	path string
}

func newStateCMD(ctx *ZDBContext) *stateCMD {
	return &stateCMD{
		ctx: ctx,
	}
}

func (s *stateCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "inspect the column family state store",
	}
	addPathFlag(cmd, &s.path, "the state directory, runtime or a snapshot of the partition")

	cmd.AddCommand(&cobra.Command{
		Use:   "families",
		Short: "count the keys of every known column family",
		Args:  cobra.NoArgs,
		RunE:  s.families,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list FAMILY",
		Short: "print every record of a column family as a json array",
		Args:  cobra.ExactArgs(1),
		RunE:  s.list,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get FAMILY KEY",
		Short: "print one record, KEY is a number or 0x prefixed hex of the key payload",
		Args:  cobra.ExactArgs(2),
		RunE:  s.get,
	})
	return cmd
}

type familyRow struct {
	Family  string `json:"family"`
	Tag     uint64 `json:"tag"`
	Decoder string `json:"decoder"`
	Count   int    `json:"count"`
}

func (s *stateCMD) families(cmd *cobra.Command, args []string) error {
	store, err := s.ctx.openStore(s.path)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.CountFamilies()
	if err != nil {
		return err
	}
	rows := make([]familyRow, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, familyRow{Family: c.Name, Tag: c.Tag, Decoder: store.Registry().Kind(c.Name), Count: c.Count})
	}
	return s.ctx.printJson(rows)
}

type recordRow struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func (s *stateCMD) list(cmd *cobra.Command, args []string) error {
	store, err := s.ctx.openStore(s.path)
	if err != nil {
		return err
	}
	defer store.Close()

	printer := zbutil.NewJsonArrayPrinter(s.ctx.out)
	result, err := store.ScanPrefix(args[0], nil, func(rawKey []byte, value any) bool {
		return printer.Print(recordRow{Key: hex.EncodeToString(key.Payload(rawKey)), Value: value}) == nil
	})
	if err != nil {
		return err
	}
	if err := printer.Close(); err != nil {
		return err
	}
	s.ctx.reportSkipped(result)
	return nil
}

func (s *stateCMD) get(cmd *cobra.Command, args []string) error {
	payload, err := parseKey(args[1])
	if err != nil {
		return err
	}
	store, err := s.ctx.openStore(s.path)
	if err != nil {
		return err
	}
	defer store.Close()

	value, err := store.GetValue(args[0], payload)
	if err != nil {
		return err
	}
	return s.ctx.printJson(recordRow{Key: hex.EncodeToString(payload), Value: value})
}

// parseKey turns a command line key into a key payload: a decimal number is a single int64
// key, 0x starts raw hex.
func parseKey(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "0x") {
		payload, err := hex.DecodeString(arg[2:])
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", arg)
		}
		return payload, nil
	}
	k, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, errors.Errorf("key %s is neither a number nor 0x prefixed hex", arg)
	}
	return key.Int64(k), nil
}
