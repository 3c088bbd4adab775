/*
Package app contains standard implementations of a number of components.

It provides the Router dispatching messages to handlers, the chain of
decorators wrapping the router and the StoreApp and BaseApp types
implementing the ABCI application on top of a commit store. Those pieces do
not depend on any extension and are linked together by the daemon.
*/
package app
