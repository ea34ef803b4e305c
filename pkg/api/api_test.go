package api

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/echo-signer/pkg/chain"
	"github.com/suffix-labs/echo-signer/pkg/crypto"
	"github.com/suffix-labs/echo-signer/pkg/fault"
	"github.com/suffix-labs/echo-signer/pkg/ops"
)

const testChainID = "39f5e2ede1f8bc1a3a54a7914414e3779e33193f1f5693510e73cb7a87617447"

func testProposal() *TransactionProposal {
	return &TransactionProposal{
		State: chain.ChainState{
			ChainID:         testChainID,
			HeadBlockNumber: 0x0001e240,
			HeadBlockID:     "0001e240aabbccdd11223344556677889900aabb",
			HeadBlockTime:   time.Date(2019, 1, 10, 10, 0, 0, 0, time.UTC),
		},
		Operations: []ops.Operation{&ops.Transfer{
			FeeAmount: chain.NewAssetAmount(20, chain.CoreAsset),
			From:      chain.AccountID(18),
			To:        chain.AccountID(19),
			Amount:    chain.NewAssetAmount(100, chain.CoreAsset),
		}},
	}
}

func testKey(t *testing.T, name string) *crypto.Key {
	t.Helper()
	secret := crypto.Hash([]byte(name))
	key, err := crypto.KeyFromPrivate(secret[:], true)
	require.NoError(t, err)
	return key
}

func TestBuildSignedTransaction(t *testing.T) {
	var logs bytes.Buffer
	SetLogger(zerolog.New(&logs))
	defer SetLogger(zerolog.Nop())

	alice := testKey(t, "alice")

	signed, err := BuildSignedTransaction(testProposal(), alice)
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 1)
	assert.Contains(t, logs.String(), signed.ID())

	signer, err := RecoverPublicKey(signed.Signatures[0], GetSigningDigest(signed))
	require.NoError(t, err)
	assert.Equal(t, alice.PublicKeyBytes(), signer.PublicKeyBytes())

	again, err := BuildSignedTransaction(testProposal(), alice)
	require.NoError(t, err)
	assert.Equal(t, SerializeTransaction(signed), SerializeTransaction(again))

	out, raw, err := FinalizeAndExtract(signed)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"ref_block_num":57920`)

	parsed, err := ParseTransaction(raw, testChainID)
	require.NoError(t, err)
	require.NoError(t, VerifySignatures(parsed, alice))
}

func TestBuildSignedTransactionErrors(t *testing.T) {
	proposal := testProposal()
	proposal.Operations[0].(*ops.Transfer).FeeAmount = chain.AssetAmount{}
	_, err := BuildSignedTransaction(proposal, testKey(t, "alice"))
	var failure *fault.VerificationFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, fault.ErrMissingFee, failure.Code)

	publicOnly, err := crypto.KeyFromPublic(testKey(t, "bob").PublicKeyBytes())
	require.NoError(t, err)
	_, err = BuildSignedTransaction(testProposal(), publicOnly)
	assert.True(t, fault.IsKeyCrypter(err))

	proposal = testProposal()
	proposal.State.ChainID = "abcd"
	_, err = BuildSignedTransaction(proposal)
	assert.True(t, fault.IsFormat(err))
}

func TestProposalExpiration(t *testing.T) {
	proposal := testProposal()
	proposal.ExpirationOffset = time.Minute
	proposed, err := ProposeTransaction(proposal)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 1, 10, 10, 1, 0, 0, time.UTC), proposed.Expiration)

	explicit := uint32(1547200000)
	proposal.Expiration = &explicit
	proposed, err = ProposeTransaction(proposal)
	require.NoError(t, err)
	assert.Equal(t, int64(explicit), proposed.Expiration.Unix())
}

func TestAppendExternalSignature(t *testing.T) {
	alice := testKey(t, "alice")
	bob := testKey(t, "bob")

	// bob signs a copy elsewhere and hands back the compact bytes
	remote, err := ProposeTransaction(testProposal())
	require.NoError(t, err)
	require.NoError(t, SignTransaction(remote, bob))

	local, err := ProposeTransaction(testProposal())
	require.NoError(t, err)
	require.NoError(t, SignTransaction(local, alice))

	signer, err := AppendSignature(local, remote.Signatures[0])
	require.NoError(t, err)
	assert.True(t, signer.PublicPoint().Equal(bob.PublicPoint()))
	require.NoError(t, VerifySignatures(local, alice, bob))

	_, err = AppendSignature(local, remote.Signatures[0][:10])
	assert.True(t, fault.IsFormat(err))
	assert.Len(t, local.Signatures, 2)
}

func TestCombine(t *testing.T) {
	alice := testKey(t, "alice")
	bob := testKey(t, "bob")

	a, err := ProposeTransaction(testProposal())
	require.NoError(t, err)
	b := a.Clone()

	require.NoError(t, SignTransaction(a, alice))
	require.NoError(t, SignTransaction(b, bob))

	combined, err := Combine(a, b)
	require.NoError(t, err)
	require.NoError(t, VerifySignatures(combined, alice, bob))

	_, err = ParseTransaction(SerializeTransaction(combined), "zz")
	assert.True(t, fault.IsFormat(err))
}
