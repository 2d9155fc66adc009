package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-dataprep/pkg/marketdata"
)

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "List the supported market data providers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "schema",
				Usage: "Print the download config JSON schema of the named provider",
			},
		},
		Action: providersAction,
	}
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	if name := cmd.String("schema"); name != "" {
		schema, err := marketdata.GetDownloadConfigSchema(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, schema)

		return nil
	}

	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		marker := " "
		if info.Default {
			marker = "*"
		}

		auth := ""
		if info.RequiresAuth {
			auth = " (requires API key)"
		}

		fmt.Fprintf(w, "%s %-8s %s%s\n", marker, info.Name, info.DisplayName, auth)
	}

	return nil
}
