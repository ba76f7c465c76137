package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DatasetRecords is the number of records in the current snapshot.
	DatasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_records",
		Help:      "Number of service records in the loaded dataset",
	})

	// DatasetAvailable is 1 while a dataset is loaded, 0 otherwise.
	DatasetAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_available",
		Help:      "Whether a dataset is currently loaded (1) or unavailable (0)",
	})

	// DatasetLoadsTotal counts load attempts by result: ok, unchanged, fetch_error, parse_error.
	DatasetLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_loads_total",
		Help:      "Dataset load attempts by result",
	}, []string{"result"})

	// ViewsTotal counts computed views by triggering event.
	ViewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_total",
		Help:      "Directory views computed, by event",
	}, []string{"event"})
)

func init() {
	prometheus.MustRegister(DatasetRecords, DatasetAvailable, DatasetLoadsTotal, ViewsTotal)
}
