// Package registry keeps SQLite bookkeeping of provisioned environments.
//
// The registry is purely observational: readiness decisions are made from
// the filesystem by pyenv, never from here. It exists so the CLI can list
// known environment roots and when they were last used.
package registry
