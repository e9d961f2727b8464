package mirror

import "github.com/prometheus/client_golang/prometheus"

var (
	syncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_sync_runs_total",
			Help: "Total number of per-user sync runs",
		},
		[]string{"status"},
	)
	mirroredTracks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mirror_tracks_mirrored_total",
			Help: "Total number of tracks forwarded to destination accounts",
		},
	)
	syncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mirror_sync_duration_seconds",
			Help:    "Time taken to sync a single user",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RegisterMetrics installs the mirror collectors into the default registry.
// Called once from main; tests skip it so repeated runs don't collide.
func RegisterMetrics() {
	prometheus.MustRegister(syncRuns, mirroredTracks, syncDuration)
}
