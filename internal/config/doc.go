// Package config defines the format-agnostic configuration model for the
// application and the Loader interface implemented by each file format.
//
// Loaders decode their own file syntax into a Patch, which is applied on top
// of the defaults returned by Default. Concrete loaders live in the hcl and
// tomlcfg packages.
package config
