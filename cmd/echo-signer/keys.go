package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suffix-labs/echo-signer/pkg/api"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
)

func newKeygenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new compressed key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.NewContext().GenerateKey()
			if err != nil {
				return errors.Wrap(err, "failed to generate key")
			}
			return printKey(cmd, a, key, true)
		},
	}
}

func newPubkeyCmd(a *app) *cobra.Command {
	var wif string

	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Show the public key of a WIF private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.KeyFromWIF(wif)
			if err != nil {
				return errors.Wrap(err, "failed to decode private key")
			}
			return printKey(cmd, a, key, false)
		},
	}
	cmd.Flags().StringVar(&wif, "wif", "", "private key in wallet import format")
	_ = cmd.MarkFlagRequired("wif")
	return cmd
}

func printKey(cmd *cobra.Command, a *app, key *crypto.Key, withPrivate bool) error {
	out := cmd.OutOrStdout()

	if withPrivate {
		wif, err := key.WIF(a.cfg.WIFVersion())
		if err != nil {
			return errors.Wrap(err, "failed to encode private key")
		}
		fmt.Fprintf(out, "private: %s\n", wif)
	}
	fmt.Fprintf(out, "public:  %s\n", key.PublicKeyText(a.cfg.KeyPrefix))
	fmt.Fprintf(out, "hex:     %s\n", hex.EncodeToString(key.PublicKeyBytes()))
	return nil
}

func newRecoverCmd(a *app) *cobra.Command {
	var digestHex, signatureHex string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover the public key behind a compact signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			digest, err := crypto.DigestFromHex(digestHex)
			if err != nil {
				return errors.Wrap(err, "invalid digest")
			}
			signature, err := hex.DecodeString(signatureHex)
			if err != nil {
				return errors.Wrap(err, "invalid signature hex")
			}

			key, err := api.RecoverPublicKey(signature, digest)
			if err != nil {
				return errors.Wrap(err, "failed to recover public key")
			}

			log.Debug().Str("digest", digest.String()).Msg("public key recovered")
			fmt.Fprintln(cmd.OutOrStdout(), key.PublicKeyText(a.cfg.KeyPrefix))
			return nil
		},
	}
	cmd.Flags().StringVar(&digestHex, "digest", "", "32 byte signing digest, hex")
	cmd.Flags().StringVar(&signatureHex, "signature", "", "65 byte compact signature, hex")
	_ = cmd.MarkFlagRequired("digest")
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
