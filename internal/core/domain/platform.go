package domain

import (
	"os"
	"runtime"
	"sync"
)

// Platform describes the machine the session runs on.
type Platform struct {
	OSFamily     string
	Architecture string
	Hostname     string
}

var (
	platformOnce sync.Once
	hostPlatform Platform
)

// HostPlatform returns the detected host platform. Detection runs once per process.
func HostPlatform() Platform {
	platformOnce.Do(func() {
		hostname, _ := os.Hostname()
		hostPlatform = Platform{
			OSFamily:     runtime.GOOS,
			Architecture: runtime.GOARCH,
			Hostname:     hostname,
		}
	})
	return hostPlatform
}

// ResetHostPlatform forces the next HostPlatform call to detect again.
func ResetHostPlatform() {
	platformOnce = sync.Once{}
	hostPlatform = Platform{}
}
