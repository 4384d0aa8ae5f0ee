package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"solar-ledger/internal/core/domain"
	"solar-ledger/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Cross-validation policy constants.
const (
	// maxIndexDrift is the tolerated absolute difference between two nodes'
	// computed indices before it counts as a discrepancy.
	maxIndexDrift = 0.5

	discrepancyUnreachable = "Remote endpoint unreachable"
)

// sampleKwh is the worked conversion embedded in every report.
var sampleKwh = decimal.NewFromInt(1000)

// HTTPClient is the outbound HTTP dependency, narrowed for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// IntegrityServiceImpl implements ports.IntegrityService.
type IntegrityServiceImpl struct {
	registry   ports.ProtocolRegistry
	httpClient HTTPClient
	timeout    time.Duration
	log        zerolog.Logger
}

// NewIntegrityService creates an integrity service. timeout bounds each
// remote fetch; the fetch never runs inside a store critical section.
func NewIntegrityService(registry ports.ProtocolRegistry, httpClient HTTPClient, timeout time.Duration, log zerolog.Logger) *IntegrityServiceImpl {
	return &IntegrityServiceImpl{
		registry:   registry,
		httpClient: httpClient,
		timeout:    timeout,
		log:        log,
	}
}

// GenerateReport bundles the node's constants, fingerprint, index and a
// sample conversion into a signed report. The signature is an unkeyed
// truncated hash: a fingerprint of the body, not a proof of origin.
func (s *IntegrityServiceImpl) GenerateReport(now time.Time, nodeName string) *domain.IntegrityReport {
	constants := s.registry.Constants()

	report := &domain.IntegrityReport{
		Timestamp:        now.UTC(),
		NodeName:         nodeName,
		Constants:        constants,
		ConstantsHash:    s.registry.Hash(),
		ComputedIndex:    s.registry.ComputeIndex(now),
		DaysSinceGenesis: s.registry.DaysSinceGenesis(now),
		SampleConversion: domain.SampleConversion{
			Kwh:   sampleKwh,
			Units: s.registry.UnitsFromKwh(sampleKwh),
		},
	}
	report.Signature = report.Sign()
	return report
}

// CrossValidate fetches the remote node's report and compares constants,
// fingerprint and index drift. Every remote failure mode (network error,
// non-2xx status, malformed body) degrades into an "unreachable"
// discrepancy; this method never returns an error and never panics.
func (s *IntegrityServiceImpl) CrossValidate(ctx context.Context, local *domain.IntegrityReport, remoteEndpoint string) *domain.ValidationResult {
	remote, err := s.fetchRemoteReport(ctx, remoteEndpoint)
	if err != nil {
		s.log.Warn().Err(err).Str("endpoint", remoteEndpoint).Msg("cross-validation fetch failed")
		return &domain.ValidationResult{
			Synchronized:  false,
			Discrepancies: []string{discrepancyUnreachable},
		}
	}

	discrepancies := compareReports(local, remote)

	result := &domain.ValidationResult{
		Synchronized:  len(discrepancies) == 0,
		Discrepancies: discrepancies,
	}

	s.log.Info().
		Str("endpoint", remoteEndpoint).
		Str("remote_node", remote.NodeName).
		Bool("synchronized", result.Synchronized).
		Int("discrepancies", len(discrepancies)).
		Msg("cross-validation completed")

	return result
}

func (s *IntegrityServiceImpl) fetchRemoteReport(ctx context.Context, endpoint string) (*domain.IntegrityReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch remote report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remote returned status %d", resp.StatusCode)
	}

	var report domain.IntegrityReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode remote report: %w", err)
	}
	return &report, nil
}

// compareReports lists every disagreement between two reports: fingerprint,
// each constant field, and index drift beyond tolerance.
func compareReports(local, remote *domain.IntegrityReport) []string {
	var discrepancies []string

	if local.ConstantsHash != remote.ConstantsHash {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Constants hash mismatch: local=%s remote=%s", local.ConstantsHash, remote.ConstantsHash))
	}

	lc, rc := local.Constants, remote.Constants
	if lc.GenesisDate.UTC().Format("2006-01-02") != rc.GenesisDate.UTC().Format("2006-01-02") {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Genesis date mismatch: local=%s remote=%s",
			lc.GenesisDate.UTC().Format("2006-01-02"), rc.GenesisDate.UTC().Format("2006-01-02")))
	}
	if !lc.KwhPerUnit.Equal(rc.KwhPerUnit) {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"kWh-per-unit mismatch: local=%s remote=%s", lc.KwhPerUnit, rc.KwhPerUnit))
	}
	if lc.SubUnitsPerUnit != rc.SubUnitsPerUnit {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Sub-units-per-unit mismatch: local=%d remote=%d", lc.SubUnitsPerUnit, rc.SubUnitsPerUnit))
	}
	if lc.Version != rc.Version {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Protocol version mismatch: local=%s remote=%s", lc.Version, rc.Version))
	}
	if lc.ProtocolName != rc.ProtocolName {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Protocol name mismatch: local=%s remote=%s", lc.ProtocolName, rc.ProtocolName))
	}
	if lc.ModuleCount != rc.ModuleCount {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Module count mismatch: local=%d remote=%d", lc.ModuleCount, rc.ModuleCount))
	}

	if drift := math.Abs(local.ComputedIndex - remote.ComputedIndex); drift > maxIndexDrift {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"Computed index drift %.2f exceeds %.1f: local=%.2f remote=%.2f",
			drift, maxIndexDrift, local.ComputedIndex, remote.ComputedIndex))
	}

	return discrepancies
}
