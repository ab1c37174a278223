package token

import (
	"github.com/neoledger/token-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	nameKey   = 'n'
	symbolKey = 's'
	supplyKey = 'c'

	balancePrefix   = 'b'
	allowancePrefix = 'a'
)

const (
	// ErrInsufficientBalance is thrown by transfer-like methods when the
	// source account holds less than the requested amount.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInsufficientAllowance is thrown by TransferFrom and
	// DecreaseAllowance when the remaining allowance is less than the
	// requested amount.
	ErrInsufficientAllowance = "insufficient allowance"
	// ErrNegativeAmount is thrown by every mutating method on negative
	// amount argument.
	ErrNegativeAmount = "negative amount"
	// ErrInvalidAccount is thrown when an account argument is not a valid
	// 20-byte script hash.
	ErrInvalidAccount = "invalid account"
)

// _deploy initializes token descriptors and credits the whole supply to the
// deploying account. Deploy data must be [name string, symbol string,
// totalSupply int]. The contract is not updatable.
// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		panic("update is not supported")
	}

	args := data.([]any)
	name := args[0].(string)
	symbol := args[1].(string)
	supply := args[2].(int)
	if supply < 0 {
		panic(ErrNegativeAmount)
	}

	ctx := storage.GetContext()
	storage.Put(ctx, nameKey, name)
	storage.Put(ctx, symbolKey, symbol)

	mint(ctx, common.Caller(), supply)

	runtime.Log("token contract initialized")
}

// Name returns the token name set at deployment.
func Name() string {
	return storage.Get(storage.GetReadOnlyContext(), nameKey).(string)
}

// Symbol returns the token ticker symbol set at deployment.
func Symbol() string {
	return storage.Get(storage.GetReadOnlyContext(), symbolKey).(string)
}

// TotalSupply returns the total amount of token in circulation. It is always
// equal to the sum of all balances.
func TotalSupply() int {
	return common.GetIntOrZero(storage.GetReadOnlyContext(), []byte{supplyKey})
}

// BalanceOf returns the token balance of the specified account. Unknown
// accounts have zero balance.
func BalanceOf(account interop.Hash160) int {
	return getBalance(storage.GetReadOnlyContext(), account)
}

// Allowance returns the amount spender is still allowed to transfer out of
// the owner's balance. Pairs that were never approved have zero allowance.
func Allowance(owner, spender interop.Hash160) int {
	return getAllowance(storage.GetReadOnlyContext(), owner, spender)
}

// Holders returns an iterator over (account, balance) pairs for every
// account with a non-zero balance.
func Holders() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{balancePrefix}, storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Transfer moves amount from the transaction sender's account to the to
// account. It panics with ErrInsufficientBalance if the sender holds less
// than amount.
//
// It produces a Transfer notification.
func Transfer(to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	ctx := storage.GetContext()
	transfer(ctx, common.Caller(), to, amount)
}

// TransferFrom moves amount from the from account to the to account using
// the allowance previously granted to the transaction sender. It panics with
// ErrInsufficientAllowance if the remaining allowance is less than amount
// and with ErrInsufficientBalance if the from account holds less than
// amount. A panic faults the transaction, so the allowance is never spent
// without the matching balance movement.
//
// It produces a Transfer notification.
func TransferFrom(from, to interop.Hash160, amount int) {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	ctx := storage.GetContext()
	spender := common.Caller()

	allowed := getAllowance(ctx, from, spender)
	if allowed < amount {
		panic(ErrInsufficientAllowance)
	}

	setAllowance(ctx, from, spender, allowed-amount)
	transfer(ctx, from, to, amount)
}

// Approve sets the allowance of spender over the transaction sender's
// balance to exactly amount, replacing any previous value. Changing a
// non-zero allowance with a pending TransferFrom in flight is a known race,
// see the package documentation.
//
// It produces an Approval notification.
func Approve(spender interop.Hash160, amount int) {
	if len(spender) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	ctx := storage.GetContext()
	owner := common.Caller()

	setAllowance(ctx, owner, spender, amount)
	runtime.Notify("Approval", owner, spender, amount)
}

// IncreaseAllowance adds amount to the allowance of spender over the
// transaction sender's balance.
//
// It produces an Approval notification with the updated allowance.
func IncreaseAllowance(spender interop.Hash160, amount int) {
	if len(spender) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	ctx := storage.GetContext()
	owner := common.Caller()

	updated := getAllowance(ctx, owner, spender) + amount
	setAllowance(ctx, owner, spender, updated)
	runtime.Notify("Approval", owner, spender, updated)
}

// DecreaseAllowance subtracts amount from the allowance of spender over the
// transaction sender's balance. It panics with ErrInsufficientAllowance if
// the current allowance is less than amount.
//
// It produces an Approval notification with the updated allowance.
func DecreaseAllowance(spender interop.Hash160, amount int) {
	if len(spender) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	ctx := storage.GetContext()
	owner := common.Caller()

	allowed := getAllowance(ctx, owner, spender)
	if allowed < amount {
		panic(ErrInsufficientAllowance)
	}

	updated := allowed - amount
	setAllowance(ctx, owner, spender, updated)
	runtime.Notify("Approval", owner, spender, updated)
}

// transfer is the movement primitive shared by Transfer, TransferFrom, mint
// and burn. Nil from means external issuance, nil to means external
// destruction; callers guarantee at least one side is a real account. It
// always emits exactly one Transfer notification.
func transfer(ctx storage.Context, from, to interop.Hash160, amount int) {
	if amount < 0 {
		panic(ErrNegativeAmount)
	}

	if len(from) == interop.Hash160Len {
		balance := getBalance(ctx, from)
		if balance < amount {
			panic(ErrInsufficientBalance)
		}
		setBalance(ctx, from, balance-amount)
	}

	if len(to) == interop.Hash160Len {
		setBalance(ctx, to, getBalance(ctx, to)+amount)
	}

	runtime.Notify("Transfer", from, to, amount)
}

// mint credits the to account from the outside and increases total supply
// accordingly. It is reachable only from _deploy, there is no external
// issuance entry point.
func mint(ctx storage.Context, to interop.Hash160, amount int) {
	if len(to) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	transfer(ctx, nil, to, amount)
	storage.Put(ctx, []byte{supplyKey}, common.GetIntOrZero(ctx, []byte{supplyKey})+amount)
}

// burn debits the from account to the outside and decreases total supply
// accordingly. There is no external destruction entry point.
// nolint:unused
func burn(ctx storage.Context, from interop.Hash160, amount int) {
	if len(from) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	transfer(ctx, from, nil, amount)

	supply := common.GetIntOrZero(ctx, []byte{supplyKey})
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, []byte{supplyKey}, supply-amount)
}

func getBalance(ctx storage.Context, account interop.Hash160) int {
	return common.GetIntOrZero(ctx, append([]byte{balancePrefix}, account...))
}

func setBalance(ctx storage.Context, account interop.Hash160, amount int) {
	common.PutIntOrDelete(ctx, append([]byte{balancePrefix}, account...), amount)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	return append(append([]byte{allowancePrefix}, owner...), spender...)
}

func getAllowance(ctx storage.Context, owner, spender interop.Hash160) int {
	return common.GetIntOrZero(ctx, allowanceKey(owner, spender))
}

func setAllowance(ctx storage.Context, owner, spender interop.Hash160, amount int) {
	common.PutIntOrDelete(ctx, allowanceKey(owner, spender), amount)
}
