/*
Package sigs provides the authentication middleware. It verifies the ed25519
signatures carried by a transaction and keeps a sequence number per public
key, so that a signed transaction cannot be replayed.

The conditions of all valid signers are attached to the context and can be
read through the Authenticate type, which implements x.Authenticator.
*/
package sigs
