//go:build !windows

package config

import "os"

const forbiddenFileNameChars = "/:"

// terminals understand escape sequences already
func enableVirtualTerminal(*os.File) bool {
	return true
}
