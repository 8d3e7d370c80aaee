package subscription

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.alis.build/utils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.openbid.build/gsheets"
)

// Tag is a membership tag carried by a subscriber.
type Tag string

const (
	PaidUsers   Tag = "PaidUsers"
	PaidSups    Tag = "PaidSups"
	PaidSupport Tag = "PaidSupport"
	// NoSubscription is returned when the identity carries no paid tag.
	NoSubscription Tag = "No Subscription"
)

// allTags maps each paid tag to the named range holding its allow-list.
var allTags = []Tag{PaidUsers, PaidSups, PaidSupport}

// Checker reports the membership set of an identity. Implementations are
// injected into the Gate so gating stays testable without the live
// subscriber sheet.
type Checker interface {
	Memberships(ctx context.Context, email string) ([]Tag, error)
}

// Sheet is the subscriber-spreadsheet surface the SheetChecker reads.
type Sheet interface {
	NamedRange(ctx context.Context, name string) (gsheets.Range, error)
	Values(ctx context.Context, r gsheets.Range) ([][]string, error)
}

// SheetChecker reads the PaidUsers/PaidSups/PaidSupport named ranges of the
// subscriber spreadsheet. Membership is an exact email match in the first
// column of the range. By default every call re-fetches the sheet; a cache
// TTL can be configured when freshness may be traded for quota.
type SheetChecker struct {
	sheet Sheet
	cache *gocache.Cache
	ttl   time.Duration
}

// SheetCheckerOption is a functional option for NewSheetChecker.
type SheetCheckerOption func(*SheetChecker)

// WithCacheTTL caches membership sets per email for the given duration.
// Zero (the default) disables caching and preserves per-call freshness.
func WithCacheTTL(ttl time.Duration) SheetCheckerOption {
	return func(c *SheetChecker) {
		c.ttl = ttl
	}
}

// NewSheetChecker returns a Checker backed by the subscriber spreadsheet.
func NewSheetChecker(sheet Sheet, opts ...SheetCheckerOption) *SheetChecker {
	c := &SheetChecker{sheet: sheet}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl > 0 {
		c.cache = gocache.New(c.ttl, c.ttl)
	}
	return c
}

func (c *SheetChecker) Memberships(ctx context.Context, email string) ([]Tag, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(email); ok {
			return v.([]Tag), nil
		}
	}
	var memberships []Tag
	for _, tag := range allTags {
		r, err := c.sheet.NamedRange(ctx, string(tag))
		if err != nil {
			return nil, err
		}
		rows, err := c.sheet.Values(ctx, r)
		if err != nil {
			return nil, err
		}
		emails := make([]string, 0, len(rows))
		for _, row := range rows {
			if len(row) > 0 {
				emails = append(emails, row[0])
			}
		}
		if utils.Contains(emails, email) {
			memberships = append(memberships, tag)
		}
	}
	if len(memberships) == 0 {
		memberships = []Tag{NoSubscription}
	}
	if c.cache != nil {
		c.cache.Set(email, memberships, c.ttl)
	}
	return memberships, nil
}

// Gate combines a Checker with the enabled flag. A disabled gate allows
// everything, matching the ungated mode of operation.
type Gate struct {
	checker Checker
	enabled bool
}

// NewGate returns a Gate. With enabled false, Require always passes.
func NewGate(checker Checker, enabled bool) *Gate {
	return &Gate{checker: checker, enabled: enabled}
}

// Require verifies that the identity carries at least one of the given tags.
// It returns a PermissionDenied error otherwise, before any side effect of
// the gated operation.
func (g *Gate) Require(ctx context.Context, email string, tags ...Tag) error {
	if !g.enabled {
		return nil
	}
	memberships, err := g.checker.Memberships(ctx, email)
	if err != nil {
		return err
	}
	for _, want := range tags {
		if utils.Contains(memberships, want) {
			return nil
		}
	}
	return status.Errorf(codes.PermissionDenied, "%s is not subscribed for this operation", email)
}
