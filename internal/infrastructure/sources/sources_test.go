package sources

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/opencatalog/backend/internal/domain/sync"
)

func TestEstimateCost(t *testing.T) {
	t.Run("real cost wins", func(t *testing.T) {
		got := estimateCost(decimal.NewFromInt(100), decimal.NewFromInt(55))
		assert.True(t, got.Equal(decimal.NewFromInt(55)))
	})

	t.Run("zero cost falls back to the estimate", func(t *testing.T) {
		got := estimateCost(decimal.NewFromInt(100), decimal.Zero)
		assert.True(t, got.Equal(decimal.NewFromInt(70)))
	})

	t.Run("zero price yields zero", func(t *testing.T) {
		got := estimateCost(decimal.Zero, decimal.Zero)
		assert.True(t, got.IsZero())
	})
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "just text", "just text"},
		{"tags removed", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities decoded", "Salt &amp; pepper&nbsp;set", "Salt & pepper set"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkup(tt.input))
		})
	}
}

func TestShortDescription(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "compact", shortDescription("compact"))
	})

	t.Run("long text cut at a word boundary", func(t *testing.T) {
		long := strings.Repeat("word ", 60)
		got := shortDescription(long)
		assert.LessOrEqual(t, len(got), shortDescriptionLimit+len("…"))
		assert.True(t, strings.HasSuffix(got, "…"))
		// no word is cut in half
		assert.True(t, strings.HasSuffix(strings.TrimSuffix(got, "…"), "word"))
	})

	t.Run("multibyte text without spaces cuts on a rune boundary", func(t *testing.T) {
		long := strings.Repeat("优质产品描述", 40)
		got := shortDescription(long)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "…"))
		assert.Equal(t, shortDescriptionLimit, utf8.RuneCountInString(strings.TrimSuffix(got, "…")))
	})

	t.Run("multibyte text at the limit passes through", func(t *testing.T) {
		exact := strings.Repeat("商", shortDescriptionLimit)
		assert.Equal(t, exact, shortDescription(exact))
	})
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want sync.FailureClass
	}{
		{"deadline exceeded", context.DeadlineExceeded, sync.FailureTimeout},
		{"net timeout", timeoutError{}, sync.FailureTimeout},
		{"dns failure", &net.DNSError{Err: "no such host", Name: "erp.example.com"}, sync.FailureUnreachable},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, sync.FailureUnreachable},
		{"anything else", errors.New("boom"), sync.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connErr := classifyTransportError(sync.SourceCodeOdoo, tt.err)
			assert.Equal(t, tt.want, connErr.Class)
			assert.Equal(t, sync.SourceCodeOdoo, connErr.Source)
		})
	}
}
