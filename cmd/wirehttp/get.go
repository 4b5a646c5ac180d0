package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	wirehttp "github.com/wirehttp/go-wirehttp"
)

var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "Execute a GET request and print the response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(newClient(), args[0], nil, "GET")
	},
}

var headCmd = &cobra.Command{
	Use:   "head URL",
	Short: "Execute a HEAD request and print the response headers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl := newClient()
		err := run(cl, args[0], nil, "HEAD")
		if !flagVerbose {
			printHead(cl)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(getCmd, headCmd)
}

// run performs one Send and writes the outcome to stdout or the -o target.
func run(cl *wirehttp.Client, url string, body []byte, method string) error {
	slog.Debug("request", "method", method, "url", url)
	ok := cl.Send(url, body, method)
	slog.Debug("response", "code", cl.StatusCode(), "bytes", len(cl.Body()), "err", cl.Error())

	if flagVerbose {
		printHead(cl)
	}
	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(cl.Body()); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %s", url, cl.Error())
	}
	return nil
}

func printHead(cl *wirehttp.Client) {
	fmt.Fprintf(os.Stderr, "%s %d %s\n", cl.Result.Proto, cl.StatusCode(), cl.Result.StatusText)
	h := cl.Headers()
	for _, k := range h.Keys() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", k, h.Get(k))
	}
	fmt.Fprintln(os.Stderr)
}
