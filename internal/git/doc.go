// Package git provides a wrapper around the Git CLI commands used by siblink:
// cloning missing siblings, reading remotes, and the ahead/behind and
// short-status queries behind `siblink status`.
package git
