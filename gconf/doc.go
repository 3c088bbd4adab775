/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps at most one configuration object, stored under a key
derived from the package name. Configuration is loaded from the genesis file
with InitConfig and can be changed later by the configuration owner using a
message processed by UpdateConfigurationHandler.
*/
package gconf
