package ports

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, route, status string)
	RecordHTTPRequestDuration(method, route, status string, duration time.Duration)

	IncrementGRPCRequests(method, status string)
	RecordGRPCRequestDuration(method, status string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementCacheHits()
	IncrementCacheMisses()
	RecordCacheOperationDuration(operation string, duration time.Duration)

	IncrementContentOperations(kind, operation string, success bool)
	IncrementCounterReconciliations(kind, counter string, drifted bool)
	IncrementHydrationFailures(kind string)

	IncrementUpstreamRequests(service string, success bool)
	RecordUpstreamRequestDuration(service string, duration time.Duration)

	SetServiceHealth(healthy bool)
}
