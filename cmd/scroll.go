package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"heckel.io/scroller/query"
	"heckel.io/scroller/tools"
)

// newBackend connects to the cluster; replaced in tests
var newBackend = func(hosts []string, port int, trace io.Writer) (tools.Backend, error) {
	return tools.NewElasticBackend(hosts, port, trace)
}

type clusterNamer interface {
	ClusterName(ctx context.Context) (string, error)
}

func execScroll(c *cli.Context) error {
	verbose := c.Bool("verbose")
	logrus.SetOutput(c.App.ErrWriter)
	logrus.SetLevel(logrus.InfoLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	index := c.String("index")
	if index == "" {
		return cli.Exit("error: no index specified", 1)
	}
	junctor, err := query.ParseJunctor(c.String("junctor"))
	if err != nil {
		return cli.Exit("error: "+err.Error(), 1)
	}
	filters, err := query.ParseFilters(c.StringSlice("filter"))
	if err != nil {
		var malformed *query.MalformedFilterSpecError
		if errors.As(err, &malformed) {
			return cli.Exit("error: "+malformed.Error(), 1)
		}
		return err
	}
	noticeEvery := c.Int64("notice-every")
	if noticeEvery <= 0 {
		return cli.Exit("error: notice-every must be greater than zero", 1)
	}
	q, err := query.Assemble(filters, junctor)
	if err != nil {
		return cli.Exit("error: "+err.Error(), 1)
	}

	var trace io.Writer
	if verbose {
		trace = c.App.ErrWriter
	}
	backend, err := newBackend(c.StringSlice("host"), c.Int("port"), trace)
	if err != nil {
		return err
	}
	checkClusterName(c.Context, backend, c.String("cluster"))

	w := bufio.NewWriter(c.App.Writer)
	_, err = tools.Scroll(c.Context, backend, index, q, uint64(noticeEvery), w, c.App.ErrWriter)
	return multierr.Append(err, w.Flush())
}

func checkClusterName(ctx context.Context, backend tools.Backend, expected string) {
	namer, ok := backend.(clusterNamer)
	if !ok {
		return
	}
	name, err := namer.ClusterName(ctx)
	if err != nil {
		logrus.Debugf("cannot determine cluster name: %s", err.Error())
	} else if name != expected {
		logrus.Warnf("connected to cluster %s, expected %s", name, expected)
	}
}
