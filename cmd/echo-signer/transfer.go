package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suffix-labs/echo-signer/pkg/api"
	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/ops"
)

type transferFlags struct {
	headBlockNumber uint32
	headBlockID     string
	headBlockTime   string
	expiration      uint32

	from     string
	to       string
	amount   int64
	asset    string
	fee      int64
	feeAsset string

	wifs []string
	raw  bool
}

func newTransferCmd(a *app) *cobra.Command {
	f := &transferFlags{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Build and sign a transfer, print the broadcast JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransfer(cmd, a, f)
		},
	}

	flags := cmd.Flags()
	flags.Uint32Var(&f.headBlockNumber, "head-block-number", 0, "number of the reference block")
	flags.StringVar(&f.headBlockID, "head-block-id", "", "hex id of the reference block")
	flags.StringVar(&f.headBlockTime, "head-block-time", "", "time of the reference block, RFC 3339")
	flags.Uint32Var(&f.expiration, "expiration", 0, "absolute expiration in epoch seconds (overrides the offset)")
	flags.StringVar(&f.from, "from", "", "sending account id, e.g. 1.2.18")
	flags.StringVar(&f.to, "to", "", "receiving account id, e.g. 1.2.19")
	flags.Int64Var(&f.amount, "amount", 0, "amount in the asset's smallest unit")
	flags.StringVar(&f.asset, "asset", chain.CoreAsset.String(), "asset id of the amount")
	flags.Int64Var(&f.fee, "fee", 0, "fee in the fee asset's smallest unit")
	flags.StringVar(&f.feeAsset, "fee-asset", chain.CoreAsset.String(), "asset id of the fee")
	flags.StringArrayVar(&f.wifs, "wif", nil, "signing key in wallet import format (repeatable)")
	flags.BoolVar(&f.raw, "raw", false, "also print the signed wire bytes as hex")

	for _, name := range []string{"head-block-id", "head-block-time", "from", "to", "wif"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runTransfer(cmd *cobra.Command, a *app, f *transferFlags) error {
	if _, err := a.cfg.RequireChainID(); err != nil {
		return err
	}

	headTime, err := time.Parse(time.RFC3339, f.headBlockTime)
	if err != nil {
		return errors.Wrap(err, "invalid head block time")
	}

	transfer, err := f.operation()
	if err != nil {
		return err
	}

	keys := make([]*crypto.Key, 0, len(f.wifs))
	for i, wif := range f.wifs {
		key, err := crypto.KeyFromWIF(wif)
		if err != nil {
			return errors.Wrapf(err, "invalid signing key %d", i)
		}
		keys = append(keys, key)
	}

	proposal := &api.TransactionProposal{
		State: chain.ChainState{
			ChainID:         a.cfg.ChainID,
			HeadBlockNumber: f.headBlockNumber,
			HeadBlockID:     f.headBlockID,
			HeadBlockTime:   headTime,
		},
		Operations:       []ops.Operation{transfer},
		ExpirationOffset: a.cfg.ExpirationOffset,
	}
	if f.expiration != 0 {
		proposal.Expiration = &f.expiration
	}

	signed, err := api.BuildSignedTransaction(proposal, keys...)
	if err != nil {
		return errors.Wrap(err, "failed to build transaction")
	}

	out, raw, err := api.FinalizeAndExtract(signed)
	if err != nil {
		return errors.Wrap(err, "failed to extract transaction")
	}

	log.Info().Str("id", signed.ID()).Msg("transfer signed")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if f.raw {
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
	}
	return nil
}

func (f *transferFlags) operation() (*ops.Transfer, error) {
	from, err := chain.ParseObjectID(f.from)
	if err != nil {
		return nil, errors.Wrap(err, "invalid sender")
	}
	to, err := chain.ParseObjectID(f.to)
	if err != nil {
		return nil, errors.Wrap(err, "invalid receiver")
	}
	if !from.IsAccount() || !to.IsAccount() {
		return nil, errors.Errorf("sender and receiver must be account ids (1.2.x), got %s and %s", from, to)
	}

	asset, err := chain.ParseObjectID(f.asset)
	if err != nil {
		return nil, errors.Wrap(err, "invalid asset")
	}
	feeAsset, err := chain.ParseObjectID(f.feeAsset)
	if err != nil {
		return nil, errors.Wrap(err, "invalid fee asset")
	}

	return &ops.Transfer{
		FeeAmount: chain.NewAssetAmount(f.fee, feeAsset),
		From:      from,
		To:        to,
		Amount:    chain.NewAssetAmount(f.amount, asset),
	}, nil
}
