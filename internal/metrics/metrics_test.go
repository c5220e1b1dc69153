package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("memory", "hit"))
	misses := testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("memory", "miss"))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("memory", "hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookupsTotal.WithLabelValues("memory", "miss")))
}

func TestHTTPRequestStarted(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/test", "200"))

	done := HTTPRequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsInFlight))
	done("GET", "/test", 200)

	assert.Equal(t, 0.0, testutil.ToFloat64(httpRequestsInFlight))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/test", "200")))
}

func TestRecordDictionaryRequest(t *testing.T) {
	before := testutil.ToFloat64(dictionaryRequestsTotal.WithLabelValues("entries"))
	RecordDictionaryRequest("entries", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(dictionaryRequestsTotal.WithLabelValues("entries")))
}
