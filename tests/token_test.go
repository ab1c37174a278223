package tests

import (
	"math/big"
	"path"
	"testing"

	"github.com/neoledger/token-contract/contracts/token"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const tokenPath = "../contracts/token"

const (
	tokenName   = "Neo Ledger Token"
	tokenSymbol = "NLT"
	tokenSupply = 1000
)

// newTokenInvoker deploys the token contract with the default descriptors
// and supply, crediting the whole supply to the committee account. It
// returns a committee invoker and the deploy transaction hash.
func newTokenInvoker(t *testing.T) (*neotest.ContractInvoker, util.Uint256) {
	e := newExecutor(t)

	ctr := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	txHash := e.DeployContract(t, ctr, []any{tokenName, tokenSymbol, tokenSupply})

	return e.CommitteeInvoker(ctr.Hash), txHash
}

func balanceOf(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160) int64 {
	s, err := c.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

func allowance(t *testing.T, c *neotest.ContractInvoker, owner, spender util.Uint160) int64 {
	s, err := c.TestInvoke(t, "allowance", owner, spender)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

func totalSupply(t *testing.T, c *neotest.ContractInvoker) int64 {
	s, err := c.TestInvoke(t, "totalSupply")
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

// requireTransferEvent checks that the transaction produced a single
// Transfer notification with the given sides and amount. A nil side means
// the Null account of a mint/burn event.
func requireTransferEvent(t *testing.T, c *neotest.ContractInvoker, h util.Uint256, from, to *util.Uint160, amount int64) {
	items := singleEventItems(t, c, h, "Transfer")
	requireAccountItem(t, from, items[0])
	requireAccountItem(t, to, items[1])

	actual, err := items[2].TryInteger()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(amount), actual)
}

// requireApprovalEvent checks that the transaction produced a single
// Approval notification carrying the resulting allowance value.
func requireApprovalEvent(t *testing.T, c *neotest.ContractInvoker, h util.Uint256, owner, spender util.Uint160, amount int64) {
	items := singleEventItems(t, c, h, "Approval")
	requireAccountItem(t, &owner, items[0])
	requireAccountItem(t, &spender, items[1])

	actual, err := items[2].TryInteger()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(amount), actual)
}

func requireAccountItem(t *testing.T, expected *util.Uint160, item stackitem.Item) {
	if expected == nil {
		require.Equal(t, stackitem.AnyT, item.Type())
		return
	}

	b, err := item.TryBytes()
	require.NoError(t, err)
	require.Equal(t, expected.BytesBE(), b)
}

func singleEventItems(t *testing.T, c *neotest.ContractInvoker, h util.Uint256, name string) []stackitem.Item {
	aer := c.CheckHalt(t, h)

	var events []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.Name == name {
			events = append(events, ev)
		}
	}
	require.Len(t, events, 1)

	items := events[0].Item.Value().([]stackitem.Item)
	require.Len(t, items, 3)
	return items
}

func TestDeploy(t *testing.T) {
	c, deployTx := newTokenInvoker(t)

	c.Invoke(t, tokenName, "name")
	c.Invoke(t, tokenSymbol, "symbol")
	c.Invoke(t, tokenSupply, "totalSupply")
	c.Invoke(t, tokenSupply, "balanceOf", c.CommitteeHash)

	// Genesis issuance is signalled with a mint-style Transfer.
	requireTransferEvent(t, c, deployTx, nil, &c.CommitteeHash, tokenSupply)
}

func TestBalanceOfUnknownAccount(t *testing.T) {
	c, _ := newTokenInvoker(t)

	stranger := c.NewAccount(t).ScriptHash()
	require.EqualValues(t, 0, balanceOf(t, c, stranger))
	require.EqualValues(t, 0, allowance(t, c, c.CommitteeHash, stranger))
}

func TestTransfer(t *testing.T) {
	c, _ := newTokenInvoker(t)

	owner := c.CommitteeHash
	b := c.NewAccount(t).ScriptHash()

	h := c.Invoke(t, stackitem.Null{}, "transfer", b, int64(100))
	require.EqualValues(t, 900, balanceOf(t, c, owner))
	require.EqualValues(t, 100, balanceOf(t, c, b))
	requireTransferEvent(t, c, h, &owner, &b, 100)

	// Failed transfer must not touch any balance.
	c.InvokeFail(t, token.ErrInsufficientBalance, "transfer", b, int64(1000))
	require.EqualValues(t, 900, balanceOf(t, c, owner))
	require.EqualValues(t, 100, balanceOf(t, c, b))

	// An account that owns nothing cannot move anything.
	cPauper := c.WithSigners(c.NewAccount(t))
	cPauper.InvokeFail(t, token.ErrInsufficientBalance, "transfer", b, int64(20))

	// Self-transfer is a no-op for the balance.
	c.Invoke(t, stackitem.Null{}, "transfer", owner, int64(50))
	require.EqualValues(t, 900, balanceOf(t, c, owner))

	// Zero-value transfer succeeds and emits an event.
	h = c.Invoke(t, stackitem.Null{}, "transfer", b, int64(0))
	requireTransferEvent(t, c, h, &owner, &b, 0)

	c.InvokeFail(t, token.ErrNegativeAmount, "transfer", b, int64(-1))
	c.InvokeFail(t, token.ErrInvalidAccount, "transfer", []byte{1, 2, 3}, int64(10))

	require.EqualValues(t, tokenSupply, totalSupply(t, c))
}

func TestApprove(t *testing.T) {
	c, _ := newTokenInvoker(t)

	owner := c.CommitteeHash
	spender := c.NewAccount(t).ScriptHash()

	require.EqualValues(t, 0, allowance(t, c, owner, spender))

	h := c.Invoke(t, stackitem.Null{}, "approve", spender, int64(100))
	require.EqualValues(t, 100, allowance(t, c, owner, spender))
	requireApprovalEvent(t, c, h, owner, spender, 100)

	// approve is a plain overwrite, not an adjustment.
	c.Invoke(t, stackitem.Null{}, "approve", spender, int64(10))
	require.EqualValues(t, 10, allowance(t, c, owner, spender))

	// Approving more than the balance is allowed, spending it is not.
	c.Invoke(t, stackitem.Null{}, "approve", spender, int64(10_000))
	require.EqualValues(t, 10_000, allowance(t, c, owner, spender))

	// Zeroed allowance entries are removed from storage, reads are the same.
	c.Invoke(t, stackitem.Null{}, "approve", spender, int64(0))
	require.EqualValues(t, 0, allowance(t, c, owner, spender))

	c.InvokeFail(t, token.ErrNegativeAmount, "approve", spender, int64(-5))
	c.InvokeFail(t, token.ErrInvalidAccount, "approve", []byte{1}, int64(5))
}

func TestTransferFrom(t *testing.T) {
	c, _ := newTokenInvoker(t)

	owner := c.CommitteeHash
	spenderAcc := c.NewAccount(t)
	spender := spenderAcc.ScriptHash()
	dst := c.NewAccount(t).ScriptHash()

	cSpender := c.WithSigners(spenderAcc)

	// No allowance granted yet.
	cSpender.InvokeFail(t, token.ErrInsufficientAllowance, "transferFrom", owner, dst, int64(100))

	c.Invoke(t, stackitem.Null{}, "approve", spender, int64(100))
	require.EqualValues(t, 100, allowance(t, c, owner, spender))

	h := cSpender.Invoke(t, stackitem.Null{}, "transferFrom", owner, dst, int64(100))
	require.EqualValues(t, 900, balanceOf(t, c, owner))
	require.EqualValues(t, 100, balanceOf(t, c, dst))
	require.EqualValues(t, 0, allowance(t, c, owner, spender))
	requireTransferEvent(t, c, h, &owner, &dst, 100)

	// The spent allowance is gone.
	cSpender.InvokeFail(t, token.ErrInsufficientAllowance, "transferFrom", owner, dst, int64(1))

	// An allowance exceeding the owner's balance fails on the balance side
	// and must leave the allowance untouched.
	c.Invoke(t, stackitem.Null{}, "approve", spender, int64(5000))
	cSpender.InvokeFail(t, token.ErrInsufficientBalance, "transferFrom", owner, dst, int64(2000))
	require.EqualValues(t, 5000, allowance(t, c, owner, spender))
	require.EqualValues(t, 900, balanceOf(t, c, owner))
	require.EqualValues(t, 100, balanceOf(t, c, dst))

	// Partial spend keeps the remainder.
	cSpender.Invoke(t, stackitem.Null{}, "transferFrom", owner, dst, int64(300))
	require.EqualValues(t, 4700, allowance(t, c, owner, spender))
	require.EqualValues(t, 600, balanceOf(t, c, owner))
	require.EqualValues(t, 400, balanceOf(t, c, dst))

	cSpender.InvokeFail(t, token.ErrNegativeAmount, "transferFrom", owner, dst, int64(-1))
	cSpender.InvokeFail(t, token.ErrInvalidAccount, "transferFrom", []byte{1, 2}, dst, int64(1))

	require.EqualValues(t, tokenSupply, totalSupply(t, c))
}

func TestAllowanceAdjustment(t *testing.T) {
	c, _ := newTokenInvoker(t)

	owner := c.CommitteeHash
	spender := c.NewAccount(t).ScriptHash()

	c.Invoke(t, stackitem.Null{}, "increaseAllowance", spender, int64(70))
	require.EqualValues(t, 70, allowance(t, c, owner, spender))

	// Approval carries the updated value, not the delta.
	h := c.Invoke(t, stackitem.Null{}, "increaseAllowance", spender, int64(30))
	require.EqualValues(t, 100, allowance(t, c, owner, spender))
	requireApprovalEvent(t, c, h, owner, spender, 100)

	h = c.Invoke(t, stackitem.Null{}, "decreaseAllowance", spender, int64(40))
	require.EqualValues(t, 60, allowance(t, c, owner, spender))
	requireApprovalEvent(t, c, h, owner, spender, 60)

	// A failed decrease leaves the allowance as is.
	c.InvokeFail(t, token.ErrInsufficientAllowance, "decreaseAllowance", spender, int64(61))
	require.EqualValues(t, 60, allowance(t, c, owner, spender))

	c.Invoke(t, stackitem.Null{}, "decreaseAllowance", spender, int64(60))
	require.EqualValues(t, 0, allowance(t, c, owner, spender))

	c.InvokeFail(t, token.ErrNegativeAmount, "increaseAllowance", spender, int64(-1))
	c.InvokeFail(t, token.ErrNegativeAmount, "decreaseAllowance", spender, int64(-1))
}

func TestHoldersConservation(t *testing.T) {
	c, _ := newTokenInvoker(t)

	owner := c.CommitteeHash
	b := c.NewAccount(t).ScriptHash()
	d := c.NewAccount(t).ScriptHash()

	c.Invoke(t, stackitem.Null{}, "transfer", b, int64(250))
	c.Invoke(t, stackitem.Null{}, "transfer", d, int64(50))

	holders := holdersMap(t, c)
	require.Len(t, holders, 3)
	require.EqualValues(t, 700, holders[string(owner.BytesBE())])
	require.EqualValues(t, 250, holders[string(b.BytesBE())])
	require.EqualValues(t, 50, holders[string(d.BytesBE())])

	var sum int64
	for _, v := range holders {
		sum += v
	}
	require.EqualValues(t, totalSupply(t, c), sum)

	// Drained accounts drop out of the holder set entirely.
	c.Invoke(t, stackitem.Null{}, "transfer", b, int64(700))
	require.EqualValues(t, 0, balanceOf(t, c, owner))

	holders = holdersMap(t, c)
	require.Len(t, holders, 2)
	require.EqualValues(t, 950, holders[string(b.BytesBE())])
	require.EqualValues(t, 50, holders[string(d.BytesBE())])
	require.EqualValues(t, tokenSupply, totalSupply(t, c))
}

// holdersMap materializes the holders iterator into an account -> balance
// map keyed by the big-endian account bytes.
func holdersMap(t *testing.T, c *neotest.ContractInvoker) map[string]int64 {
	s, err := c.TestInvoke(t, "holders")
	require.NoError(t, err)

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	res := make(map[string]int64)
	for _, item := range iteratorToArray(iter) {
		kv := item.Value().([]stackitem.Item)
		require.Len(t, kv, 2)

		rawKey, err := kv[0].TryBytes()
		require.NoError(t, err)
		acc, err := util.Uint160DecodeBytesBE(rawKey)
		require.NoError(t, err)

		amount, err := kv[1].TryInteger()
		require.NoError(t, err)

		res[string(acc.BytesBE())] = amount.Int64()
	}
	return res
}
