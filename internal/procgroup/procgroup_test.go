// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix

package procgroup

import (
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWaited(t *testing.T, script string) (*exec.Cmd, <-chan error) {
	t.Helper()
	cmd := exec.Command("sh", "-c", script)
	Set(cmd)
	require.NoError(t, cmd.Start())

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()
	return cmd, waitCh
}

func TestTerminate_GracefulExitOnSIGTERM(t *testing.T) {
	cmd, waitCh := startWaited(t, "sleep 30")

	start := time.Now()
	err := Terminate(cmd, waitCh, 5*time.Second)
	assert.Error(t, err, "sleep killed by SIGTERM exits non-zero")
	assert.Less(t, time.Since(start), 5*time.Second, "SIGTERM should end sleep before the grace period")
}

func TestTerminate_EscalatesToSIGKILL(t *testing.T) {
	// The shell ignores SIGTERM, so only the SIGKILL escalation ends it.
	cmd, waitCh := startWaited(t, "trap '' TERM; while :; do sleep 0.05; done")
	time.Sleep(100 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- Terminate(cmd, waitCh, 200*time.Millisecond) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Terminate did not return after SIGKILL escalation")
	}
}

func TestTerminate_NilCommand(t *testing.T) {
	assert.NoError(t, Terminate(nil, nil, time.Millisecond))
	assert.NoError(t, Terminate(&exec.Cmd{}, nil, time.Millisecond))
}
