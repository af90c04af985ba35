//go:build windows

package ops

const defaultEditor = "notepad"
