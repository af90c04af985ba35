//go:build !windows

package ops

const defaultEditor = "vi"
