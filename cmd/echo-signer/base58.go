package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/suffix-labs/echo-signer/pkg/base58"
)

func newBase58Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base58",
		Short: "Convert between hex and base58",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <hex>",
			Short: "Encode hex bytes as base58",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := hex.DecodeString(args[0])
				if err != nil {
					return errors.Wrap(err, "invalid hex")
				}
				fmt.Fprintln(cmd.OutOrStdout(), base58.Encode(b))
				return nil
			},
		},
		&cobra.Command{
			Use:   "decode <base58>",
			Short: "Decode base58 text to hex",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := base58.Decode(args[0])
				if err != nil {
					return errors.Wrap(err, "invalid base58")
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
				return nil
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "echo-signer %s\n", version)
		},
	}
}
