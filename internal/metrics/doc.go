/*
Package metrics exports HTTP request statistics for the storage transport.

The Collector keeps its own Prometheus registry so embedding applications can
mount the exposition handler wherever they like without colliding with the
default registry:

	collector := metrics.NewCollector()
	fs, _ := filesystem.New(settings, secrets, filesystem.WithObserver(collector))
	http.Handle("/metrics", collector.Handler())

Collection is opt-in: the filesystem only forwards observations when the http
stats setting is enabled. Observations are made once per logical request, so
pipeline-level retries do not inflate the counters.

Exported metrics:

	azurefs_http_requests_total{method,status}  requests by verb and status code
	azurefs_http_bytes_received_total           response body bytes received
	azurefs_http_bytes_sent_total               request body bytes sent
*/
package metrics
