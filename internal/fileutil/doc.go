// Package fileutil provides small filesystem helpers shared by the
// provisioning and registry layers.
package fileutil
