package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the budget ledger. Counts state
// transitions and admission rejections.
type Metrics struct {
	AwardsApproved       prometheus.Counter
	TransactionsCreated  prometheus.Counter
	TransactionsApproved prometheus.Counter
	TransactionsPaid     prometheus.Counter
	TransactionsDeclined prometheus.Counter
	SubawardsCreated     prometheus.Counter
	AdmissionRejected    *prometheus.CounterVec
}

// New registers and returns all ledger metrics.
func New() *Metrics {
	return &Metrics{
		AwardsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_awards_approved_total",
			Help: "Total number of awards approved against the pool",
		}),
		TransactionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_transactions_approved_total",
			Help: "Total number of transactions approved (committed)",
		}),
		TransactionsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_transactions_paid_total",
			Help: "Total number of transactions paid (spent)",
		}),
		TransactionsDeclined: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_transactions_declined_total",
			Help: "Total number of transactions declined",
		}),
		SubawardsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "grandguard_subawards_created_total",
			Help: "Total number of subawards created",
		}),
		AdmissionRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "grandguard_admission_rejected_total",
			Help: "Total number of operations rejected by an admission check",
		}, []string{"check"}),
	}
}

// RejectBudget records an insufficient-budget rejection.
func (m *Metrics) RejectBudget() {
	m.AdmissionRejected.WithLabelValues("budget").Inc()
}

// RejectPool records a pool-cap rejection.
func (m *Metrics) RejectPool() {
	m.AdmissionRejected.WithLabelValues("pool").Inc()
}

// RejectSubawardCap records a subaward-cap rejection.
func (m *Metrics) RejectSubawardCap() {
	m.AdmissionRejected.WithLabelValues("subaward_cap").Inc()
}
