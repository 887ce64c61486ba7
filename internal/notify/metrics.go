package notify

import "expvar"

var (
	metricPushQueuedTotal       = expvar.NewInt("notify_push_queued_total")
	metricPushDroppedTotal      = expvar.NewInt("notify_push_dropped_total")
	metricPushRetryTotal        = expvar.NewInt("notify_push_retry_total")
	metricPushRetryDroppedTotal = expvar.NewInt("notify_push_retry_dropped_total")
	metricPushSentTotal         = expvar.NewInt("notify_push_sent_total")
	metricPushFailedTotal       = expvar.NewInt("notify_push_failed_total")
	metricPushCircuitOpenTotal  = expvar.NewInt("notify_push_circuit_open_total")
	metricPushQueueLen          = expvar.NewInt("notify_push_queue_len")
)
