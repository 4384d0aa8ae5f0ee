package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"solar-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// Question patterns for the kid-friendly query front end. Matching is
// case-insensitive and first-match-wins, in declaration order.
var (
	reBalance  = regexp.MustCompile(`(?i)\b(balance|how (much|many)|left)\b`)
	reListings = regexp.MustCompile(`(?i)\b(listing|market|sell|buy|order)\b`)
	reConvert  = regexp.MustCompile(`(?i)\b(kwh|convert|energy|worth)\b`)
	reIndex    = regexp.MustCompile(`(?i)\b(index|sun|sunny|shine)\b`)
)

// QueryServiceImpl implements ports.QueryService: a small regex dispatcher
// that answers balance, market, conversion and index questions in plain
// language. It only reads: every answer comes from GetWallet, GetMarket or
// the registry's pure functions.
type QueryServiceImpl struct {
	ledger   ports.LedgerService
	market   ports.MarketService
	registry ports.ProtocolRegistry
	log      zerolog.Logger
}

// NewQueryService creates a query service.
func NewQueryService(ledger ports.LedgerService, market ports.MarketService, registry ports.ProtocolRegistry, log zerolog.Logger) *QueryServiceImpl {
	return &QueryServiceImpl{ledger: ledger, market: market, registry: registry, log: log}
}

// Answer dispatches the question to the first matching topic.
func (s *QueryServiceImpl) Answer(ctx context.Context, walletID, text string) (string, error) {
	text = strings.TrimSpace(text)

	switch {
	case reBalance.MatchString(text):
		return s.answerBalance(ctx, walletID)
	case reListings.MatchString(text):
		return s.answerListings(ctx, walletID)
	case reConvert.MatchString(text):
		return s.answerConversion(), nil
	case reIndex.MatchString(text):
		return s.answerIndex(), nil
	default:
		return "You can ask me about your balance, the energy market, kWh conversions, or the solar index.", nil
	}
}

func (s *QueryServiceImpl) answerBalance(ctx context.Context, walletID string) (string, error) {
	wallet, err := s.ledger.GetWallet(ctx, walletID)
	if err != nil {
		return "", err
	}
	if wallet == nil {
		return fmt.Sprintf("I don't know a wallet called %q yet.", walletID), nil
	}
	name := s.registry.Constants().ProtocolName
	return fmt.Sprintf("Wallet %s holds %s %s.", wallet.ID, wallet.Balance, name), nil
}

func (s *QueryServiceImpl) answerListings(ctx context.Context, walletID string) (string, error) {
	snap, err := s.market.GetMarket(ctx)
	if err != nil {
		return "", err
	}

	mine := 0
	for _, l := range snap.Listings {
		if l.OwnerWalletID == walletID {
			mine++
		}
	}
	return fmt.Sprintf("The market has %d open listings (%d yours) and %d trades so far.",
		len(snap.Listings), mine, len(snap.Trades)), nil
}

func (s *QueryServiceImpl) answerConversion() string {
	c := s.registry.Constants()
	return fmt.Sprintf("1 %s equals %s kWh of renewable energy, and splits into %d rays.",
		c.ProtocolName, c.KwhPerUnit, c.SubUnitsPerUnit)
}

func (s *QueryServiceImpl) answerIndex() string {
	idx := s.registry.ComputeIndex(time.Now())
	return fmt.Sprintf("Today's solar index is %.1f. It always stays between 85 and 99.", idx)
}
