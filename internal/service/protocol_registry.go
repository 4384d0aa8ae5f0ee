package service

import (
	"fmt"
	"math"
	"time"

	"solar-ledger/config"
	"solar-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Index bounds for the synthetic solar index.
const (
	indexFloor   = 85.0
	indexCeiling = 99.0
)

// ProtocolRegistryImpl holds the deployment's fixed constants and exposes the
// pure functions derived from them. It implements ports.ProtocolRegistry.
type ProtocolRegistryImpl struct {
	constants domain.ProtocolConstants
}

// NewProtocolRegistry builds a registry from configuration.
func NewProtocolRegistry(cfg config.ProtocolConfig) (*ProtocolRegistryImpl, error) {
	genesis, err := time.Parse("2006-01-02", cfg.GenesisDate)
	if err != nil {
		return nil, fmt.Errorf("parsing genesis date %q: %w", cfg.GenesisDate, err)
	}
	if cfg.KwhPerUnit <= 0 {
		return nil, fmt.Errorf("kwh_per_unit must be positive, got %v", cfg.KwhPerUnit)
	}
	if cfg.SubUnitsPerUnit <= 0 {
		return nil, fmt.Errorf("sub_units_per_unit must be positive, got %d", cfg.SubUnitsPerUnit)
	}

	return &ProtocolRegistryImpl{
		constants: domain.ProtocolConstants{
			GenesisDate:     genesis.UTC(),
			KwhPerUnit:      decimal.NewFromFloat(cfg.KwhPerUnit),
			SubUnitsPerUnit: cfg.SubUnitsPerUnit,
			Version:         cfg.Version,
			ProtocolName:    cfg.Name,
			ModuleCount:     cfg.ModuleCount,
		},
	}, nil
}

// Constants returns the fixed protocol constants.
func (r *ProtocolRegistryImpl) Constants() domain.ProtocolConstants {
	return r.constants
}

// Hash returns the constants fingerprint.
func (r *ProtocolRegistryImpl) Hash() string {
	return r.constants.Hash()
}

// UnitsFromKwh converts an energy amount to protocol units.
func (r *ProtocolRegistryImpl) UnitsFromKwh(kwh decimal.Decimal) decimal.Decimal {
	return kwh.Div(r.constants.KwhPerUnit)
}

// KwhFromUnits is the exact inverse of UnitsFromKwh within decimal precision.
func (r *ProtocolRegistryImpl) KwhFromUnits(units decimal.Decimal) decimal.Decimal {
	return units.Mul(r.constants.KwhPerUnit)
}

// RaysFromUnits converts units to rays, the fractional sub-unit.
func (r *ProtocolRegistryImpl) RaysFromUnits(units decimal.Decimal) decimal.Decimal {
	return units.Mul(decimal.NewFromInt(r.constants.SubUnitsPerUnit))
}

// UnitsFromRays is the exact inverse of RaysFromUnits within decimal precision.
func (r *ProtocolRegistryImpl) UnitsFromRays(rays decimal.Decimal) decimal.Decimal {
	return rays.Div(decimal.NewFromInt(r.constants.SubUnitsPerUnit))
}

// DaysSinceGenesis returns whole days elapsed since the genesis date.
func (r *ProtocolRegistryImpl) DaysSinceGenesis(now time.Time) int {
	return int(now.UTC().Sub(r.constants.GenesisDate).Hours() / 24)
}

// ComputeIndex returns the synthetic solar index for the given time: a yearly
// sinusoid over days-since-genesis clamped to [85, 99]. The formula is a
// placeholder heuristic with no measurement behind it; treat the value as
// non-authoritative.
func (r *ProtocolRegistryImpl) ComputeIndex(now time.Time) float64 {
	days := float64(r.DaysSinceGenesis(now))
	idx := 92.0 + 7.0*math.Sin(2*math.Pi*days/365.25)
	return math.Min(indexCeiling, math.Max(indexFloor, idx))
}
