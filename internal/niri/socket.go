package niri

import (
	"os"
	"strings"
)

// SocketEnv names the variable niri exports with its IPC socket path.
const SocketEnv = "NIRI_SOCKET"

// ResolveSocketPath picks the explicit path when set, otherwise the value of
// NIRI_SOCKET from lookupEnv.
func ResolveSocketPath(explicit string, lookupEnv func(string) (string, bool)) (string, error) {
	if path := strings.TrimSpace(explicit); path != "" {
		return path, nil
	}
	if lookupEnv != nil {
		if path, ok := lookupEnv(SocketEnv); ok && strings.TrimSpace(path) != "" {
			return strings.TrimSpace(path), nil
		}
	}
	return "", ErrSocketNotConfigured
}

// SocketPathFromEnv reads NIRI_SOCKET from the process environment.
func SocketPathFromEnv() (string, error) {
	return ResolveSocketPath("", os.LookupEnv)
}
