/*
Package utils provides decorators shared by every application built on this
module: panic recovery, transaction logging, savepoints and tagging of
delivered messages.
*/
package utils
