package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ledgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_operations_total",
	Help: "Ledger mutations by operation and outcome",
}, []string{"op", "outcome"})

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ledgerOps.WithLabelValues(op, outcome).Inc()
}
