package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagData     string
	flagDataFile string
	flagMIME     string
	flagForm     []string
)

var postCmd = &cobra.Command{
	Use:   "post URL",
	Short: "Execute a POST request with inline data, a file, or form fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl := newClient()
		url := args[0]

		if len(flagForm) > 0 {
			fields := map[string]string{}
			for _, f := range flagForm {
				k, v, _ := strings.Cut(f, "=")
				fields[k] = v
			}
			ok := cl.PostURLEncoded(url, fields)
			if !ok {
				return fmt.Errorf("%s: %s", url, cl.Error())
			}
			_, err := os.Stdout.Write(cl.Body())
			return err
		}

		var body []byte
		switch {
		case flagDataFile != "":
			b, err := os.ReadFile(flagDataFile)
			if err != nil {
				return err
			}
			body = b
		case flagData != "":
			body = []byte(flagData)
		}
		if flagMIME != "" {
			cl.Request.BodyMIME = flagMIME
		}
		return run(cl, url, body, "POST")
	},
}

func init() {
	postCmd.Flags().StringVarP(&flagData, "data", "d", "", "inline request body")
	postCmd.Flags().StringVarP(&flagDataFile, "file", "f", "", "read the request body from a file")
	postCmd.Flags().StringVar(&flagMIME, "mime", "", "Content-Type of the request body")
	postCmd.Flags().StringArrayVarP(&flagForm, "form", "F", nil, "form field as key=value, sent urlencoded (repeatable)")
	rootCmd.AddCommand(postCmd)
}
