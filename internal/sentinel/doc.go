// Package sentinel declares a const-able error type.
//
// Errors built with errors.New must live in vars, which any importer could
// reassign. Error is backed by a plain string, so sentinel values can be
// declared as consts and still compare correctly under errors.Is, including
// through wrapped chains.
package sentinel
