package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntegrity(t *testing.T) *IntegrityServiceImpl {
	t.Helper()
	registry := newTestRegistry(t)
	client := &http.Client{Timeout: 2 * time.Second}
	return NewIntegrityService(registry, client, 2*time.Second, newTestLogger())
}

func TestIntegrityService_GenerateReport(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	report := svc.GenerateReport(now, "node-a")

	assert.Equal(t, "node-a", report.NodeName)
	assert.Equal(t, now, report.Timestamp)
	assert.Len(t, report.ConstantsHash, 64)
	assert.Len(t, report.Signature, 16)
	assert.GreaterOrEqual(t, report.ComputedIndex, 85.0)
	assert.LessOrEqual(t, report.ComputedIndex, 99.0)
	// 1000 kWh at 100 kWh per unit.
	assert.True(t, report.SampleConversion.Units.Equal(report.SampleConversion.Kwh.Div(svc.registry.Constants().KwhPerUnit)))
	assert.Equal(t, report.Signature, report.Sign(), "signature matches the signed body")
}

// Scenario: identical constants under different node names give the same
// constants hash; signatures differ because the node name is in the signed body.
func TestIntegrityService_GenerateReport_NodeNameIndependence(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	a := svc.GenerateReport(now, "node-a")
	b := svc.GenerateReport(now, "node-b")

	assert.Equal(t, a.ConstantsHash, b.ConstantsHash)
	assert.NotEqual(t, a.Signature, b.Signature)
}

func TestIntegrityService_CrossValidate_Synchronized(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Now().UTC()
	local := svc.GenerateReport(now, "node-a")
	remoteReport := svc.GenerateReport(now, "node-b")

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(remoteReport)
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.True(t, result.Synchronized)
	assert.Empty(t, result.Discrepancies)
}

func TestIntegrityService_CrossValidate_ConstantDrift(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Now().UTC()
	local := svc.GenerateReport(now, "node-a")

	drifted := svc.GenerateReport(now, "node-b")
	drifted.Constants.ModuleCount = 7
	drifted.Constants.Version = "9.9.9"
	drifted.ConstantsHash = drifted.Constants.Hash()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(drifted)
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.False(t, result.Synchronized)
	// Hash mismatch plus the two drifted fields.
	assert.Len(t, result.Discrepancies, 3)
}

func TestIntegrityService_CrossValidate_IndexDrift(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Now().UTC()
	local := svc.GenerateReport(now, "node-a")

	drifted := svc.GenerateReport(now, "node-b")
	drifted.ComputedIndex = local.ComputedIndex + 0.6

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(drifted)
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.False(t, result.Synchronized)
	require.Len(t, result.Discrepancies, 1)
	assert.Contains(t, result.Discrepancies[0], "index drift")
}

func TestIntegrityService_CrossValidate_IndexDriftWithinTolerance(t *testing.T) {
	svc := newTestIntegrity(t)
	now := time.Now().UTC()
	local := svc.GenerateReport(now, "node-a")

	near := svc.GenerateReport(now, "node-b")
	near.ComputedIndex = local.ComputedIndex + 0.4

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(near)
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.True(t, result.Synchronized)
}

// Scenario: unreachable remote degrades to a discrepancy entry; no error or
// panic escapes the call.
func TestIntegrityService_CrossValidate_Unreachable(t *testing.T) {
	svc := newTestIntegrity(t)
	local := svc.GenerateReport(time.Now(), "node-a")

	result := svc.CrossValidate(context.Background(), local, "http://127.0.0.1:1/integrity")
	assert.False(t, result.Synchronized)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, "Remote endpoint unreachable", result.Discrepancies[0])
}

func TestIntegrityService_CrossValidate_Non2xx(t *testing.T) {
	svc := newTestIntegrity(t)
	local := svc.GenerateReport(time.Now(), "node-a")

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.False(t, result.Synchronized)
	assert.Contains(t, result.Discrepancies, "Remote endpoint unreachable")
}

func TestIntegrityService_CrossValidate_MalformedBody(t *testing.T) {
	svc := newTestIntegrity(t)
	local := svc.GenerateReport(time.Now(), "node-a")

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer remote.Close()

	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.False(t, result.Synchronized)
	assert.Contains(t, result.Discrepancies, "Remote endpoint unreachable")
}

func TestIntegrityService_CrossValidate_Timeout(t *testing.T) {
	svc := NewIntegrityService(newTestRegistry(t), &http.Client{}, 100*time.Millisecond, newTestLogger())
	local := svc.GenerateReport(time.Now(), "node-a")

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer remote.Close()

	start := time.Now()
	result := svc.CrossValidate(context.Background(), local, remote.URL)
	assert.Less(t, time.Since(start), time.Second, "fetch must respect its deadline")
	assert.False(t, result.Synchronized)
	assert.Contains(t, result.Discrepancies, "Remote endpoint unreachable")
}
