package services

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nexcard/backend/internal/models"
)

// Wallet invariants hold for any scan sequence: the list never exceeds the
// limit, never holds duplicate links, and the newest scan is always last.
func TestScannedListProperties(t *testing.T) {
	const limit = 3

	linkGen := gen.OneConstOf("card/a", "card/b", "card/c", "card/d", "card/e")

	properties := gopter.NewProperties(nil)

	properties.Property("bounded, deduplicated, newest last", prop.ForAll(
		func(links []string) bool {
			var list []models.ScannedCard
			now := time.Now()
			for i, link := range links {
				list = appendScan(list, link, limit, now.Add(time.Duration(i)*time.Millisecond))
			}

			if len(links) > 0 {
				if len(list) == 0 || len(list) > limit {
					return false
				}
				if list[len(list)-1].CardLink != links[len(links)-1] {
					return false
				}
			}

			seen := make(map[string]bool)
			for _, entry := range list {
				if seen[entry.CardLink] {
					return false
				}
				seen[entry.CardLink] = true
			}
			return true
		},
		gen.SliceOf(linkGen),
	))

	properties.Property("timestamps are non-decreasing", prop.ForAll(
		func(links []string) bool {
			var list []models.ScannedCard
			now := time.Now()
			for i, link := range links {
				list = appendScan(list, link, limit, now.Add(time.Duration(i)*time.Millisecond))
			}

			for i := 1; i < len(list); i++ {
				if list[i].ScannedAt.Before(list[i-1].ScannedAt) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(linkGen),
	))

	properties.TestingRun(t)
}
