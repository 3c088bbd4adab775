package timelockd

import (
	"bytes"
	"testing"
	"time"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const chainID = "test-chain-1"

type testChain struct {
	t      *testing.T
	abci   abci.Application
	height int64
}

func newTestChain(t *testing.T, appState []byte) *testChain {
	t.Helper()
	a, err := GenerateApp("", log.NewNopLogger(), true)
	require.NoError(t, err)
	a.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: appState})
	return &testChain{t: t, abci: a}
}

// block delivers all transactions in a new block with given time and
// commits it.
func (c *testChain) block(now time.Time, txs ...[]byte) []abci.ResponseDeliverTx {
	c.t.Helper()
	c.height++
	c.abci.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: c.height, Time: now}})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = c.abci.DeliverTx(tx)
	}
	c.abci.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.abci.Commit()
	return res
}

func (c *testChain) query(path string, key []byte, dest weave.Persistent) bool {
	c.t.Helper()
	res := c.abci.Query(abci.RequestQuery{Path: path, Data: key})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	var values app.ResultSet
	require.NoError(c.t, values.Unmarshal(res.Value))
	if len(values.Results) == 0 {
		return false
	}
	require.NoError(c.t, dest.Unmarshal(values.Results[0]))
	return true
}

func (c *testChain) balance(tok, holder weave.Address) coin.Amount {
	c.t.Helper()
	var b token.Balance
	if !c.query("/balances", token.BalanceKey(tok, holder), &b) {
		return coin.Amount{}
	}
	return b.Amount
}

func signedTx(t *testing.T, msg weave.Msg, key *crypto.PrivateKey, seq int64) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	require.NoError(t, err)
	return raw
}

func seededKey(seed byte) *crypto.PrivateKey {
	return crypto.PrivKeyEd25519FromSeed(bytes.Repeat([]byte{seed}, 32))
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

func abciCode(err *errors.Error) uint32 {
	code, _ := errors.ABCIInfo(err, false)
	return code
}

func TestDepositAndClaimOverABCI(t *testing.T) {
	alice := seededKey(1)
	bob := seededKey(2)
	aliceAddr := alice.PublicKey().Address()
	bobAddr := bob.PublicKey().Address()

	appState, err := GenInitOptions([]string{"XLM", aliceAddr.String()})
	require.NoError(t, err)
	chain := newTestChain(t, appState)

	xlm := token.TokenAddress("XLM")
	minted := coin.NewAmount(1000000000000000000)
	// genesis state is visible once the first block is committed
	assert.Equal(t, coin.Amount{}, chain.balance(xlm, aliceAddr))

	instance := []byte("escrow-1")
	account := escrow.Account(instance)
	amount := coin.NewAmount(1000000)
	start := time.Unix(1560000000, 0).UTC()
	meta := &weave.Metadata{Schema: 1}

	approve := signedTx(t, &token.ApproveMsg{
		Metadata: meta,
		Token:    xlm,
		Owner:    aliceAddr,
		Spender:  account,
		Amount:   amount,
	}, alice, 0)
	deposit := signedTx(t, &escrow.DepositMsg{
		Metadata:   meta,
		InstanceID: instance,
		Depositor:  aliceAddr,
		Token:      xlm,
		Amount:     amount,
		Claimants:  []weave.Address{bobAddr},
		TimeBound:  escrow.TimeBound{Kind: escrow.After, Timestamp: weave.AsUnixTime(start) + 100},
	}, alice, 1)

	chres := chain.abci.CheckTx(approve)
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	assert.True(t, chres.GasWanted > 0)

	res := chain.block(start, approve, deposit)
	for _, r := range res {
		require.Equal(t, uint32(0), r.Code, r.Log)
	}
	left, err := minted.Sub(amount)
	require.NoError(t, err)
	assert.Equal(t, left, chain.balance(xlm, aliceAddr))
	assert.Equal(t, instance, res[1].Data)
	assert.Contains(t, res[1].Tags, tag("action", "escrow/deposit"))

	assert.Equal(t, amount, chain.balance(xlm, account))
	var rec escrow.ClaimableBalance
	require.True(t, chain.query("/escrows", instance, &rec))
	assert.Equal(t, []weave.Address{bobAddr}, rec.Claimants)

	// funding the same instance twice is rejected
	again := signedTx(t, &escrow.DepositMsg{
		Metadata:   meta,
		InstanceID: instance,
		Depositor:  aliceAddr,
		Token:      xlm,
		Amount:     coin.NewAmount(0),
		Claimants:  []weave.Address{bobAddr},
		TimeBound:  escrow.TimeBound{Kind: escrow.Before, Timestamp: weave.AsUnixTime(start) + 1000},
	}, alice, 2)

	claim := &escrow.ClaimMsg{Metadata: meta, InstanceID: instance, Claimant: bobAddr}
	res = chain.block(start.Add(50*time.Second),
		again,
		signedTx(t, claim, bob, 0),
		// alice is not a claimant
		signedTx(t, &escrow.ClaimMsg{Metadata: meta, InstanceID: instance, Claimant: aliceAddr}, alice, 3),
		// escrow accounts accept funds only through a deposit
		signedTx(t, &token.TransferMsg{Metadata: meta, Token: xlm, Source: aliceAddr, Destination: account, Amount: coin.NewAmount(5)}, alice, 4),
	)
	assert.Equal(t, abciCode(escrow.ErrAlreadyFunded), res[0].Code, res[0].Log)
	assert.Equal(t, abciCode(escrow.ErrTimeBoundViolation), res[1].Code, res[1].Log)
	assert.Equal(t, abciCode(escrow.ErrNotEligible), res[2].Code, res[2].Log)
	assert.Equal(t, abciCode(escrow.ErrReservedAccount), res[3].Code, res[3].Log)
	assert.Equal(t, amount, chain.balance(xlm, account))

	// a failed message still consumes the signature sequence
	res = chain.block(start.Add(200*time.Second), signedTx(t, claim, bob, 1))
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)

	assert.Equal(t, amount, chain.balance(xlm, bobAddr))
	assert.Equal(t, coin.Amount{}, chain.balance(xlm, account))
	assert.False(t, chain.query("/escrows", instance, &rec))

	// the instance can be funded again once claimed
	approve = signedTx(t, &token.ApproveMsg{Metadata: meta, Token: xlm, Owner: aliceAddr, Spender: account, Amount: amount}, alice, 5)
	deposit = signedTx(t, &escrow.DepositMsg{
		Metadata:   meta,
		InstanceID: instance,
		Depositor:  aliceAddr,
		Token:      xlm,
		Amount:     amount,
		Claimants:  []weave.Address{bobAddr},
		TimeBound:  escrow.TimeBound{Kind: escrow.Before, Timestamp: weave.AsUnixTime(start) + 1000},
	}, alice, 6)
	res = chain.block(start.Add(300*time.Second), approve, deposit)
	for _, r := range res {
		require.Equal(t, uint32(0), r.Code, r.Log)
	}
}

func TestUnsignedTransactionRejected(t *testing.T) {
	alice := seededKey(1)
	aliceAddr := alice.PublicKey().Address()
	appState, err := GenInitOptions([]string{"XLM", aliceAddr.String()})
	require.NoError(t, err)
	chain := newTestChain(t, appState)

	msg := &escrow.DepositMsg{
		Metadata:   &weave.Metadata{Schema: 1},
		InstanceID: []byte("escrow-1"),
		Depositor:  aliceAddr,
		Token:      token.TokenAddress("XLM"),
		Amount:     coin.NewAmount(10),
		TimeBound:  escrow.TimeBound{Kind: escrow.After, Timestamp: 1},
	}
	raw, err := (&Tx{Msg: msg}).Marshal()
	require.NoError(t, err)

	res := chain.block(time.Unix(1560000000, 0), raw)
	assert.Equal(t, abciCode(errors.ErrUnauthorized), res[0].Code, res[0].Log)

	// wrong sequence
	res = chain.block(time.Unix(1560000010, 0), signedTx(t, msg, alice, 7))
	assert.Equal(t, abciCode(sigs.ErrInvalidSequence), res[0].Code, res[0].Log)

	// claiming an instance that was never funded
	claim := &escrow.ClaimMsg{Metadata: &weave.Metadata{Schema: 1}, InstanceID: []byte("escrow-1"), Claimant: aliceAddr}
	res = chain.block(time.Unix(1560000020, 0), signedTx(t, claim, alice, 0))
	assert.Equal(t, abciCode(escrow.ErrNotFunded), res[0].Code, res[0].Log)
}
