package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opencatalog/backend/internal/domain/sync"
)

// maxResponseSize is the maximum allowed response size from a source API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// costEstimateRatio is applied to the list price when a source does not
// expose a cost. Sources that carry a real cost never use it.
var costEstimateRatio = decimal.NewFromFloat(0.70)

// estimateCost returns the supplied cost when positive, otherwise the
// estimate derived from the list price.
func estimateCost(price, cost decimal.Decimal) decimal.Decimal {
	if cost.IsPositive() {
		return cost
	}
	return price.Mul(costEstimateRatio)
}

// classifyTransportError turns a transport-level failure into a
// classified connection error. HTTP status classification is handled
// per source because the status semantics differ.
func classifyTransportError(source sync.SourceCode, err error) *sync.ConnectionError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return sync.NewConnectionError(source, sync.FailureTimeout, err)
	case isTimeout(err):
		return sync.NewConnectionError(source, sync.FailureTimeout, err)
	case isUnreachable(err):
		return sync.NewConnectionError(source, sync.FailureUnreachable, err)
	default:
		return sync.NewConnectionError(source, sync.FailureUnknown, err)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// wrongCredentials is returned when the credentials passed to an
// adapter are not the adapter's own config type.
func wrongCredentials(source sync.SourceCode, creds sync.Credentials) *sync.ConnectionError {
	return sync.NewConnectionError(source, sync.FailureInvalidCredentials,
		fmt.Errorf("credentials of type %T cannot be used with the %s source", creds, source))
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stripMarkup removes HTML tags and collapses whitespace. Marketplace
// descriptions arrive as HTML; the catalog stores plain text.
func stripMarkup(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// shortDescriptionLimit caps the generated short description
const shortDescriptionLimit = 150

// shortDescription derives a short description from a longer text,
// cutting at a word boundary when possible. The limit counts runes,
// not bytes, so multibyte descriptions are never split mid-rune.
func shortDescription(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= shortDescriptionLimit {
		return s
	}
	cut := string(runes[:shortDescriptionLimit])
	if idx := strings.LastIndex(cut, " "); idx > shortDescriptionLimit/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}
