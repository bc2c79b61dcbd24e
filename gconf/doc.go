/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps its configuration in a single object, stored under a key
derived from the package name. Configuration is loaded from the genesis file
during initialization and read from the database at runtime.

*/
package gconf
