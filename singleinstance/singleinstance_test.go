package singleinstance

import (
	"net"
	"testing"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot bind loopback: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestClaimDisabled(t *testing.T) {
	release, err := Claim(0)
	if err != nil {
		t.Fatalf("port 0 should disable the guard: %v", err)
	}
	release()
}

func TestClaimRejectsBadPort(t *testing.T) {
	if _, err := Claim(80); err == nil {
		t.Error("privileged ports should be rejected")
	}
	if _, err := Claim(70000); err == nil {
		t.Error("out-of-range ports should be rejected")
	}
}

func TestSecondClaimFails(t *testing.T) {
	port := freePort(t)

	release, err := Claim(port)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	defer release()

	if _, err := Claim(port); err == nil {
		t.Fatal("second claim should fail while the first is held")
	}
}

func TestClaimAfterRelease(t *testing.T) {
	port := freePort(t)

	release, err := Claim(port)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	release()

	release2, err := Claim(port)
	if err != nil {
		t.Fatalf("claim after release failed: %v", err)
	}
	release2()
}
