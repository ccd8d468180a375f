// Package cmd provides the scroller CLI application
package cmd

import (
	"os"

	"github.com/urfave/cli/v2"
)

// New creates a new CLI application
func New() *cli.App {
	return &cli.App{
		Name:                      "scroller",
		Usage:                     "export all documents matching a filter from an Elasticsearch index to STDOUT",
		UsageText:                 "scroller -i INDEX [-f FIELD=VALUE..] [-j and|or] [OPTION..]",
		HideVersion:               true,
		UseShortOptionHandling:    true,
		DisableSliceFlagSeparator: true,
		Reader:                    os.Stdin,
		Writer:                    os.Stdout,
		ErrWriter:                 os.Stderr,
		Action:                    execScroll,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "host", Aliases: []string{"t"}, EnvVars: []string{"SCROLLER_HOST"}, Value: cli.NewStringSlice("0.0.0.0"), Usage: "elasticsearch host, may be repeated"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, EnvVars: []string{"SCROLLER_PORT"}, Value: 9300, Usage: "elasticsearch port"},
			&cli.StringFlag{Name: "cluster", Aliases: []string{"c"}, EnvVars: []string{"SCROLLER_CLUSTER"}, Value: "elasticsearch_mdma", Usage: "expected cluster name"},
			&cli.StringFlag{Name: "index", Aliases: []string{"i"}, EnvVars: []string{"SCROLLER_INDEX"}, Usage: "index to export (required)"},
			&cli.StringSliceFlag{Name: "filter", Aliases: []string{"f"}, Usage: "term filter, e.g. meta.kind=title, may be repeated"},
			&cli.StringFlag{Name: "junctor", Aliases: []string{"j"}, EnvVars: []string{"SCROLLER_JUNCTOR"}, Value: "and", Usage: "combine filters with 'and' or 'or'"},
			&cli.Int64Flag{Name: "notice-every", Aliases: []string{"n"}, EnvVars: []string{"SCROLLER_NOTICE_EVERY"}, Value: 10000, Usage: "show speed after every N documents"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, EnvVars: []string{"SCROLLER_VERBOSE"}, Usage: "log every page and HTTP request"},
		},
	}
}
