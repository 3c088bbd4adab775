/*
Package escrow implements a claimable balance with a time lock.

A depositor moves an amount of a single token into the escrow account of an
instance and names up to ten claimants together with a time bound. Any one
of the claimants can claim the whole amount while the time bound holds.
A successful claim clears the instance, which can then be funded again.

The balance of the escrow account in the ledger always equals the amount of
the current record, or zero when the instance is not funded.
*/
package escrow
