package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// maxSlugAttempts bounds the create-retry loop guarding against the race
// where two concurrent creations pass the probe with the same candidate.
// The store's unique (user_id, slug) index is the actual arbiter.
const maxSlugAttempts = 5

// fallbackSlug is used when normalization eats the whole title.
const fallbackSlug = "demo"

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify derives a URL-safe slug from a free-text title: diacritics stripped,
// lowercased, every run of non-alphanumerics collapsed to a single hyphen.
// Deterministic and idempotent: slugify(slugify(t)) == slugify(t).
func slugify(title string) string {
	s, _, err := transform.String(deaccent, title)
	if err != nil {
		s = title
	}
	s = strings.ToLower(s)

	var b strings.Builder
	hyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return fallbackSlug
	}
	return out
}

// allocateSlug probes the owner's existing slugs and returns the base slug or
// the first free numeric variant (base-1, base-2, …). The probe alone is not
// race-safe; callers must retry on ErrSlugConflict from the insert.
func allocateSlug(ctx context.Context, repo ports.DemoRepository, userID, title string) (string, error) {
	base := slugify(title)

	existing, err := repo.ListSlugs(ctx, userID, base)
	if err != nil {
		return "", err
	}

	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
	}
}
