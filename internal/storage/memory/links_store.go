package memory

import (
	"context"
	"sync"

	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
)

// LinksStore keeps link records in process memory, in insertion order.
type LinksStore struct {
	mu      sync.Mutex
	records []links.LinkRecord
	index   map[string]int
}

func NewLinksStore() *LinksStore {
	return &LinksStore{index: make(map[string]int)}
}

func (s *LinksStore) ListAll(ctx context.Context) ([]links.LinkRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]links.LinkRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

func (s *LinksStore) AppendAll(ctx context.Context, records []links.LinkRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := s.index[rec.Shortcode]; ok {
			return links.ErrShortcodeCollision
		}
		if _, ok := seen[rec.Shortcode]; ok {
			return links.ErrShortcodeCollision
		}
		seen[rec.Shortcode] = struct{}{}
	}

	for _, rec := range records {
		s.index[rec.Shortcode] = len(s.records)
		s.records = append(s.records, rec.Clone())
	}
	return nil
}

// Update runs mutate on a copy under the store lock and commits it only when
// the mutator succeeds and nothing but clicks were appended.
func (s *LinksStore) Update(ctx context.Context, shortcode string, mutate links.Mutator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[shortcode]
	if !ok {
		return links.ErrNotFound
	}

	current := s.records[i]
	next := current.Clone()
	if err := mutate(&next); err != nil {
		return err
	}
	if _, err := links.AppendedClicks(current, next); err != nil {
		return err
	}

	s.records[i] = next.Clone()
	return nil
}

var _ links.Store = (*LinksStore)(nil)
