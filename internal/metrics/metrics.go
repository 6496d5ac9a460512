package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TenantResolutions counts tenant resolution attempts by
	// identification source and outcome
	TenantResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiohub_tenant_resolutions_total",
		Help: "Tenant resolution attempts by source and outcome",
	}, []string{"source", "outcome"})

	// Logins counts authentication attempts by outcome
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiohub_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	// TokenRefreshes counts refresh attempts by outcome
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiohub_token_refreshes_total",
		Help: "Refresh token exchanges by outcome",
	}, []string{"outcome"})

	// SchemaProvisionings counts tenant schema provisioning runs
	SchemaProvisionings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "physiohub_schema_provisionings_total",
		Help: "Tenant schema provisioning runs by outcome",
	}, []string{"outcome"})

	// SchemaProvisioningDuration observes provisioning latency
	SchemaProvisioningDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "physiohub_schema_provisioning_duration_seconds",
		Help:    "Tenant schema provisioning duration",
		Buckets: prometheus.DefBuckets,
	})
)
