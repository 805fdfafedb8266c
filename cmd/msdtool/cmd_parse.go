package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/msdtool/format"
	"github.com/dhamidi/msdtool/msd"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var noEscapes bool
	var ignoreStray bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an MSD file and dump its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open: %w", err)
			}
			defer f.Close()

			opts := []msd.Option{msd.WithFile(filename)}
			if noEscapes {
				opts = append(opts, msd.WithoutEscapes())
			}
			if ignoreStray {
				opts = append(opts, msd.IgnoreStrayText())
			}

			params, err := msd.Parse(f, opts...)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(os.Stdout)
			case "text":
				encoder = format.NewTextEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(params); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, text)")
	cmd.Flags().BoolVar(&noEscapes, "no-escapes", false, "treat backslashes as literal characters")
	cmd.Flags().BoolVar(&ignoreStray, "ignore-stray", false, "discard text between parameters instead of failing")

	return cmd
}
