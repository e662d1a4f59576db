package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/WuKongIM/zdb/internal/options"
	"github.com/WuKongIM/zdb/pkg/journal"
	"github.com/WuKongIM/zdb/pkg/raftstatus"
	"github.com/WuKongIM/zdb/pkg/schema"
	"github.com/WuKongIM/zdb/pkg/schema/zeebe"
	"github.com/WuKongIM/zdb/pkg/zbutil"
	"github.com/WuKongIM/zdb/pkg/zdb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ZDBContext carries the configuration shared by every command.
type ZDBContext struct {
	opts *options.Options
	out  io.Writer
	err  io.Writer
}

func newZDBContext(opts *options.Options) *ZDBContext {
	return &ZDBContext{
		opts: opts,
		out:  os.Stdout,
		err:  os.Stderr,
	}
}

// registry returns the built-in family table, overridden by the configured schema file.
func (c *ZDBContext) registry() (*schema.Registry, error) {
	r := zeebe.Registry()
	if c.opts.SchemaFile == "" {
		return r, nil
	}
	if !zbutil.FileExists(c.opts.SchemaFile) {
		return nil, errors.Errorf("schema file %s does not exist", c.opts.SchemaFile)
	}
	if err := r.LoadFile(c.opts.SchemaFile); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *ZDBContext) openStore(path string) (*zdb.Store, error) {
	r, err := c.registry()
	if err != nil {
		return nil, err
	}
	return zdb.Open(path, r,
		zdb.WithStrict(c.opts.Scan.Strict),
		zdb.WithCacheSize(c.opts.Scan.CacheSize),
	)
}

// readLog reads the whole journal of the partition directory.
func (c *ZDBContext) readLog(partitionDir string) (*journal.LogContent, error) {
	status := raftstatus.New(partitionDir)
	r, err := journal.Open(partitionDir, status.JournalName(), journal.WithStrictTail(c.opts.Log.StrictTail))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return journal.ReadAll(r)
}

// reportSkipped makes a lenient, partial scan visible on stderr.
func (c *ZDBContext) reportSkipped(result zdb.ScanResult) {
	if result.Skipped > 0 {
		fmt.Fprintf(c.err, "Warning: skipped %d records that failed to decode\n", result.Skipped)
	}
}

func (c *ZDBContext) printJson(v interface{}) error {
	s, err := zbutil.ToIndentJson(v)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.out, s)
	return err
}

// addPathFlag adds the required --path flag shared by a command group.
func addPathFlag(cmd *cobra.Command, path *string, usage string) {
	cmd.PersistentFlags().StringVarP(path, "path", "p", "", usage)
	_ = cmd.MarkPersistentFlagRequired("path")
}
