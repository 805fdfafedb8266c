package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/msdtool/msd"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file>",
		Short: "List the parameter keys of an MSD file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer f.Close()

			// Lenient on purpose: listing keys is a survey operation,
			// stray text should not abort it.
			p := msd.NewParser(f, msd.WithFile(filename), msd.IgnoreStrayText())
			for {
				param, err := p.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return fmt.Errorf("parse: %w", err)
				}
				key, _ := param.Key()
				fmt.Fprintln(os.Stdout, key)
			}
		},
	}
}
