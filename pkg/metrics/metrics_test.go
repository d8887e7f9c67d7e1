package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSync(t *testing.T) {
	before := testutil.ToFloat64(CollectionSyncTotal.WithLabelValues("OK"))
	ObserveSync("")
	assert.Equal(t, before+1, testutil.ToFloat64(CollectionSyncTotal.WithLabelValues("OK")))

	beforeReverted := testutil.ToFloat64(CollectionSyncTotal.WithLabelValues("TRANSACTION_REVERTED"))
	ObserveSync("TRANSACTION_REVERTED")
	assert.Equal(t, beforeReverted+1, testutil.ToFloat64(CollectionSyncTotal.WithLabelValues("TRANSACTION_REVERTED")))
}

func TestObserveReceiptFetchAndHandler(t *testing.T) {
	ObserveReceiptFetch("eip155:11155111", time.Now(), nil)
	ObserveReceiptFetch("eip155:11155111", time.Now(), errors.New("rpc down"))

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "artmarket_blockchain_receipt_fetch_seconds")
	assert.Contains(t, w.Body.String(), "artmarket_collection_sync_outcomes_total")
}
