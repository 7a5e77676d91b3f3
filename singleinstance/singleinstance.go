// Package singleinstance keeps two concurrent runs from trampling the fixed
// scratch file names: whoever holds the loopback guard port is the instance.
package singleinstance

import (
	"fmt"
	"net"
)

// Claim grabs the guard port. A failure to bind means another instance is
// already running. Port 0 disables the guard. The returned release func
// drops the claim; normally it is held for the process lifetime.
func Claim(port int) (release func(), err error) {
	if port == 0 {
		return func() {}, nil
	}
	if port < 1024 || port > 65535 {
		return nil, fmt.Errorf("lock port %d out of range", port)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("another instance appears to be running (port %d is taken)", port)
	}

	// Drain connection attempts so the backlog never fills.
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	return func() { ln.Close() }, nil
}
