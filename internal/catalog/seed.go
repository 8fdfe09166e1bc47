package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"listgrip/internal/domain"
)

var seedTitles = []string{
	"Effective Go",
	"SQLite query planner notes",
	"Terminal color handling",
	"Debounce vs throttle",
	"Pagination cursors explained",
	"Write-ahead logging internals",
	"Keyboard-driven workflows",
	"Incremental search UX",
	"Event bus patterns",
	"Profiling allocation hot spots",
}

var seedTags = []string{"go", "database", "tui", "search", "reading"}

// Seed fills the catalog with n sample entries so the UI has something to
// search right after install. Entries get descending timestamps so the
// newest-first ordering is visible.
func (s *Store) Seed(ctx context.Context, n int) error {
	now := time.Now()
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%s #%d", seedTitles[i%len(seedTitles)], i+1)
		entry := domain.Entry{
			ID:      uuid.NewString(),
			Title:   title,
			Kind:    domain.Kinds[i%len(domain.Kinds)],
			Tags:    []string{seedTags[i%len(seedTags)]},
			AddedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		if entry.Kind == domain.KindBookmark {
			entry.URL = fmt.Sprintf("https://example.com/articles/%d", i+1)
		}
		if err := s.Add(ctx, entry); err != nil {
			return fmt.Errorf("failed to seed entry %d: %w", i+1, err)
		}
	}
	return nil
}
