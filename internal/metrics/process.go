// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	procTerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_proc_terminate_total",
		Help: "Process group termination signals by signal and result",
	}, []string{"signal", "result"}) // result=sent|esrch|error

	procWaitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xgfetch_proc_wait_total",
		Help: "Process exits observed after termination by result",
	}, []string{"result"})
)

// IncProcTerminate counts a termination signal sent to a process group.
func IncProcTerminate(signal, result string) {
	procTerminateTotal.WithLabelValues(signal, result).Inc()
}

// IncProcWait counts an observed process exit after termination.
func IncProcWait(result string) {
	procWaitTotal.WithLabelValues(result).Inc()
}
