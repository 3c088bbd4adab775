/*
Package token implements a fungible token ledger.

A token is created by the configured owner and is identified by the address
derived from its symbol. Token admin can mint new supply. Holders can
transfer their balance directly, or approve an allowance for a spender that
can later move funds on their behalf using TransferFrom.

Ledger is the Go API of this extension and can be used by other extensions
that need to move tokens, for example an escrow pulling a deposit.
*/
package token
