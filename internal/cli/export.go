package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Lixing-Zhang/orderboard/internal/export"
	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var owner, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an audit snapshot of every order, cancelled ones included",
		Long: `export reads all orders of one manager account from the postgres store.
With --out the snapshot goes to a file ("-" for stdout); otherwise it is
uploaded to the configured S3 bucket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd.Context(), owner, out, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&owner, "owner", "", "manager account id to export")
	flags.StringVar(&out, "out", "", `write to this file instead of S3 ("-" for stdout)`)
	flags.String("dsn", "", "postgres connection string")
	flags.String("bucket", "", "S3 bucket")
	flags.String("prefix", "orderboard/audit", "S3 key prefix")
	flags.String("region", "ap-south-1", "AWS region")
	_ = cmd.MarkFlagRequired("owner")
	bindFlag(flags, "dsn", "store.dsn")
	bindFlag(flags, "bucket", "export.bucket")
	bindFlag(flags, "prefix", "export.prefix")
	bindFlag(flags, "region", "export.region")

	return cmd
}

func (a *app) export(ctx context.Context, owner, out string, stdout io.Writer) error {
	cfg, log := a.cfg, a.log
	if cfg.Store.Driver != "postgres" {
		return fmt.Errorf("export reads the postgres store; the %s store lives only inside a running server", cfg.Store.Driver)
	}

	st, err := openStore(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	defer st.Close()

	exporter := export.NewExporter(st, log)

	switch out {
	case "":
		if cfg.Export.Bucket == "" {
			return fmt.Errorf("no S3 bucket configured; set --bucket or use --out")
		}
		client, err := export.NewS3Client(ctx, cfg.Export.Region)
		if err != nil {
			return err
		}
		key, err := exporter.Upload(ctx, client, cfg.Export.Bucket, cfg.Export.Prefix, owner)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "s3://%s/%s\n", cfg.Export.Bucket, key)
		return nil
	case "-":
		_, err := exporter.WriteTo(ctx, owner, stdout)
		return err
	default:
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		snap, err := exporter.WriteTo(ctx, owner, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Info("audit snapshot written", "file", out, "orders", snap.Count)
		return nil
	}
}
