package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SampleConversion is a worked unit conversion embedded in integrity reports
// so peers can sanity-check each other's arithmetic, not just the constants.
type SampleConversion struct {
	Kwh   decimal.Decimal `json:"kwh"`
	Units decimal.Decimal `json:"units"`
}

// IntegrityReport is the document a node publishes at GET /integrity and
// fetches from peers during cross-validation. It is generated on demand and
// never persisted.
type IntegrityReport struct {
	Timestamp        time.Time         `json:"timestamp"`
	NodeName         string            `json:"node_name"`
	Constants        ProtocolConstants `json:"constants"`
	ConstantsHash    string            `json:"constants_hash"`
	ComputedIndex    float64           `json:"computed_index"`
	DaysSinceGenesis int               `json:"days_since_genesis"`
	SampleConversion SampleConversion  `json:"sample_conversion"`
	// Signature is the first 16 hex characters of SHA-256 over the report
	// body with this field blanked. It is an unkeyed hash of publicly
	// reconstructible data: a tamper fingerprint, not authentication.
	Signature string `json:"signature"`
}

// Sign computes the report's signature field from its current body.
func (r IntegrityReport) Sign() string {
	r.Signature = ""
	data, _ := json.Marshal(r)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// ValidationResult is the outcome of cross-validating against a remote node.
type ValidationResult struct {
	Synchronized  bool     `json:"synchronized"`
	Discrepancies []string `json:"discrepancies"`
}
