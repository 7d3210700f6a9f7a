package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Tap30/caliper-go/jsonassert"
	"github.com/spf13/cobra"
)

var errDocumentsDiffer = errors.New("documents differ")

func newCompareCmd() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "compare <expected> <actual>",
		Short: "Structurally compare two JSON documents",
		Long: `Compare two JSON documents field by field. Arrays are compared in order.

In the default strict mode extra fields or elements in <actual> are
differences. With --lenient they are allowed, but missing fields and
mismatched values still fail.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			actual, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			mode := jsonassert.ModeStrict
			if lenient {
				mode = jsonassert.ModeLenient
			}
			res, err := jsonassert.Compare(expected, actual, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Passed() {
				fmt.Fprintf(out, "OK (%s)\n", mode)
				return nil
			}
			fmt.Fprintln(out, res.String())
			return fmt.Errorf("%w: %d difference(s)", errDocumentsDiffer, len(res.Differences))
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "allow extra fields and trailing array elements in <actual>")
	return cmd
}
