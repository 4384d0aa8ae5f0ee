package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProtocolConstants are the fixed economic parameters of a deployment.
// They are set once at startup and read-only afterwards; independently
// deployed nodes of the same protocol must agree on every field.
type ProtocolConstants struct {
	GenesisDate     time.Time       `json:"genesis_date"`
	KwhPerUnit      decimal.Decimal `json:"kwh_per_unit"`
	SubUnitsPerUnit int64           `json:"sub_units_per_unit"`
	Version         string          `json:"version"`
	ProtocolName    string          `json:"protocol_name"`
	ModuleCount     int             `json:"module_count"`
}

// canonicalConstants fixes the field order and encoding used for hashing.
// Changing this struct changes every deployment's fingerprint, so it is
// versioned implicitly through ProtocolConstants.Version.
type canonicalConstants struct {
	GenesisDate     string `json:"genesis_date"`
	KwhPerUnit      string `json:"kwh_per_unit"`
	SubUnitsPerUnit int64  `json:"sub_units_per_unit"`
	Version         string `json:"version"`
	ProtocolName    string `json:"protocol_name"`
	ModuleCount     int    `json:"module_count"`
}

// Hash returns the SHA-256 fingerprint of the constants over their canonical
// JSON encoding. It is a pure function: identical constants always hash
// identically, and any single field change changes the result. It carries no
// key or nonce: a drift fingerprint, not a cryptographic commitment.
func (c ProtocolConstants) Hash() string {
	canonical := canonicalConstants{
		GenesisDate:     c.GenesisDate.UTC().Format("2006-01-02"),
		KwhPerUnit:      c.KwhPerUnit.String(),
		SubUnitsPerUnit: c.SubUnitsPerUnit,
		Version:         c.Version,
		ProtocolName:    c.ProtocolName,
		ModuleCount:     c.ModuleCount,
	}
	// Struct fields marshal in declaration order, which fixes the byte layout.
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two constant sets agree on every field.
func (c ProtocolConstants) Equal(other ProtocolConstants) bool {
	return c.GenesisDate.UTC().Format("2006-01-02") == other.GenesisDate.UTC().Format("2006-01-02") &&
		c.KwhPerUnit.Equal(other.KwhPerUnit) &&
		c.SubUnitsPerUnit == other.SubUnitsPerUnit &&
		c.Version == other.Version &&
		c.ProtocolName == other.ProtocolName &&
		c.ModuleCount == other.ModuleCount
}
