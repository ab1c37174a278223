/*
Package token implements a single-asset fungible token contract.

The contract keeps a ledger of account balances and delegated spending
permissions (allowances) and mutates it through a small set of
value-conserving operations: transfer, approve, transferFrom and the
allowance adjustment pair. Total supply is fixed at deployment, credited in
full to the deploying account, and stays equal to the sum of all balances at
all times. There is no external mint or burn entry point.

Every mutating method runs on behalf of the sender of the invoking
transaction. A method that cannot be satisfied (insufficient balance,
insufficient allowance, malformed arguments) panics, the transaction FAULTs
and the VM discards all storage writes of the invocation, so each operation
is all-or-nothing.

approve replaces the previous allowance unconditionally. If an owner changes
a non-zero allowance while the spender's transferFrom is already in flight,
the spender may use both the old and the new value. Callers that need to
avoid this must set the allowance to zero first and verify no spend happened
in between; the contract deliberately keeps the plain overwrite semantics.

# Contract notifications

Transfer notification. from is Null for the genesis issuance, to is Null for
destruction; they are never both Null.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. Emitted by approve, increaseAllowance and
decreaseAllowance with the resulting allowance value.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'n' -> string
   token name set at deployment
 - 's' -> string
   token ticker symbol set at deployment
 - 'c' -> int
   total amount of token in circulation
 - b<interop.Hash160> -> int
   balance of the account; zero balances are not stored
 - a<owner interop.Hash160><spender interop.Hash160> -> int
   remaining allowance of spender over owner's balance; zero allowances are
   not stored

# Accounting
Contract stores balances of all token holders and all granted allowances.
The value under 'c' always equals the sum of all b-prefixed entries.
*/
