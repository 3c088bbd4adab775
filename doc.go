/*
Package weave defines the building blocks of a timelock application:
key value store interfaces, transactions and messages, handlers and
decorators, the query router, addresses and conditions, and the context
helpers exposing block height, block time, chain ID and logger.

Modules under x/ implement the actual business logic on top of these
interfaces. The app package turns a handler into an ABCI application.
*/
package weave
