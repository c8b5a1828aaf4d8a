package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

// In-memory stand-ins for the postgres repositories, the object store, and
// the demo cache. They enforce the same sentinel-error contracts the real
// implementations do.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Name == u.Name || existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

type stubDemoRepo struct {
	mu    sync.Mutex
	demos map[string]*domain.Demo
	// failCreates rejects that many inserts with ErrSlugConflict first,
	// simulating lost slug races.
	failCreates int
	// steps, when wired, receives the ON DELETE CASCADE from demos.
	steps *stubStepRepo
}

func newStubDemoRepo() *stubDemoRepo {
	return &stubDemoRepo{demos: make(map[string]*domain.Demo)}
}

func cloneDemo(d *domain.Demo) *domain.Demo {
	clone := *d
	return &clone
}

func (r *stubDemoRepo) Create(_ context.Context, d *domain.Demo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreates > 0 {
		r.failCreates--
		return domain.ErrSlugConflict
	}
	for _, existing := range r.demos {
		if existing.UserID == d.UserID && existing.Slug == d.Slug {
			return domain.ErrSlugConflict
		}
	}
	r.demos[d.ID] = cloneDemo(d)
	return nil
}

func (r *stubDemoRepo) FindByID(_ context.Context, id string) (*domain.Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.demos[id]
	if !ok {
		return nil, domain.ErrDemoNotFound
	}
	return cloneDemo(d), nil
}

func (r *stubDemoRepo) FindByIDOrSlug(_ context.Context, idOrSlug string) (*domain.Demo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.demos[idOrSlug]; ok {
		return cloneDemo(d), nil
	}
	var oldest *domain.Demo
	for _, d := range r.demos {
		if d.Slug != idOrSlug {
			continue
		}
		if oldest == nil || d.CreatedAt.Before(oldest.CreatedAt) {
			oldest = d
		}
	}
	if oldest == nil {
		return nil, domain.ErrDemoNotFound
	}
	return cloneDemo(oldest), nil
}

func (r *stubDemoRepo) ListSlugs(_ context.Context, userID, prefix string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var slugs []string
	for _, d := range r.demos {
		if d.UserID == userID && strings.HasPrefix(d.Slug, prefix) {
			slugs = append(slugs, d.Slug)
		}
	}
	return slugs, nil
}

func (r *stubDemoRepo) List(_ context.Context, filter ports.ListDemosFilter) ([]*domain.Demo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Demo
	for _, d := range r.demos {
		if filter.OwnerID != "" && d.UserID != filter.OwnerID {
			continue
		}
		if filter.IsPublic != nil && d.IsPublic != *filter.IsPublic {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, cloneDemo(d))
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.SortBy == ports.SortByTitle {
			if filter.SortOrder == "asc" {
				return matched[i].Title < matched[j].Title
			}
			return matched[i].Title > matched[j].Title
		}
		if filter.SortOrder == "asc" {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubDemoRepo) Update(_ context.Context, d *domain.Demo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.demos[d.ID]; !ok {
		return domain.ErrDemoNotFound
	}
	r.demos[d.ID] = cloneDemo(d)
	return nil
}

func (r *stubDemoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.demos[id]; !ok {
		r.mu.Unlock()
		return domain.ErrDemoNotFound
	}
	delete(r.demos, id)
	r.mu.Unlock()
	if r.steps != nil {
		r.steps.deleteByDemo(id)
	}
	return nil
}

type stubStepRepo struct {
	mu    sync.Mutex
	steps map[string]*domain.Step
	// hotspots, when wired, receives the ON DELETE CASCADE from steps.
	hotspots *stubHotspotRepo
}

func newStubStepRepo() *stubStepRepo {
	return &stubStepRepo{steps: make(map[string]*domain.Step)}
}

func cloneStep(s *domain.Step) *domain.Step {
	clone := *s
	return &clone
}

func (r *stubStepRepo) Create(_ context.Context, s *domain.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[s.ID] = cloneStep(s)
	return nil
}

func (r *stubStepRepo) FindByID(_ context.Context, id string) (*domain.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.steps[id]
	if !ok {
		return nil, domain.ErrStepNotFound
	}
	return cloneStep(s), nil
}

func (r *stubStepRepo) ListByDemo(_ context.Context, demoID string) ([]*domain.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Step
	for _, s := range r.steps {
		if s.DemoID == demoID {
			out = append(out, cloneStep(s))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubStepRepo) CountByDemo(_ context.Context, demoID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.steps {
		if s.DemoID == demoID {
			n++
		}
	}
	return n, nil
}

func (r *stubStepRepo) Update(_ context.Context, s *domain.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.steps[s.ID]; !ok {
		return domain.ErrStepNotFound
	}
	r.steps[s.ID] = cloneStep(s)
	return nil
}

func (r *stubStepRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.steps[id]; !ok {
		r.mu.Unlock()
		return domain.ErrStepNotFound
	}
	delete(r.steps, id)
	r.mu.Unlock()
	if r.hotspots != nil {
		_, _ = r.hotspots.DeleteByStep(context.Background(), id)
	}
	return nil
}

// deleteByDemo removes every step of the demo together with their hotspots,
// mirroring the foreign-key cascade of the real schema.
func (r *stubStepRepo) deleteByDemo(demoID string) {
	r.mu.Lock()
	removed := make([]string, 0)
	for id, s := range r.steps {
		if s.DemoID == demoID {
			delete(r.steps, id)
			removed = append(removed, id)
		}
	}
	r.mu.Unlock()
	if r.hotspots == nil {
		return
	}
	for _, id := range removed {
		_, _ = r.hotspots.DeleteByStep(context.Background(), id)
	}
}

func (r *stubStepRepo) Reorder(_ context.Context, demoID string, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := make(map[string]bool)
	for _, s := range r.steps {
		if s.DemoID == demoID {
			current[s.ID] = true
		}
	}
	if len(orderedIDs) != len(current) {
		return fmt.Errorf("%w: step order must cover every step exactly once", domain.ErrValidation)
	}
	for _, id := range orderedIDs {
		if !current[id] {
			return fmt.Errorf("%w: step order must cover every step exactly once", domain.ErrValidation)
		}
		delete(current, id)
	}
	for pos, id := range orderedIDs {
		r.steps[id].Position = pos + 1
	}
	return nil
}

type stubHotspotRepo struct {
	mu       sync.Mutex
	hotspots map[string]*domain.Hotspot
	// failNext rejects the next insert.
	failNext error
}

func newStubHotspotRepo() *stubHotspotRepo {
	return &stubHotspotRepo{hotspots: make(map[string]*domain.Hotspot)}
}

func cloneHotspot(h *domain.Hotspot) *domain.Hotspot {
	clone := *h
	return &clone
}

func (r *stubHotspotRepo) Create(_ context.Context, h *domain.Hotspot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.hotspots[h.ID] = cloneHotspot(h)
	return nil
}

func (r *stubHotspotRepo) FindByID(_ context.Context, id string) (*domain.Hotspot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotspots[id]
	if !ok {
		return nil, domain.ErrHotspotNotFound
	}
	return cloneHotspot(h), nil
}

func (r *stubHotspotRepo) ListByStep(_ context.Context, stepID string) ([]*domain.Hotspot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Hotspot
	for _, h := range r.hotspots {
		if h.StepID == stepID {
			out = append(out, cloneHotspot(h))
		}
	}
	return out, nil
}

func (r *stubHotspotRepo) Update(_ context.Context, h *domain.Hotspot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotspots[h.ID]; !ok {
		return domain.ErrHotspotNotFound
	}
	r.hotspots[h.ID] = cloneHotspot(h)
	return nil
}

func (r *stubHotspotRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotspots[id]; !ok {
		return domain.ErrHotspotNotFound
	}
	delete(r.hotspots, id)
	return nil
}

func (r *stubHotspotRepo) DeleteByStep(_ context.Context, stepID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, h := range r.hotspots {
		if h.StepID == stepID {
			delete(r.hotspots, id)
			n++
		}
	}
	return n, nil
}

type stubStorage struct {
	mu      sync.Mutex
	deleted []string
	// deleteErr fails every Delete call.
	deleteErr error
}

func (s *stubStorage) Upload(_ context.Context, _ io.Reader, _ int64, _ string) (*ports.StoredObject, error) {
	return &ports.StoredObject{Key: "demos/test", URL: "http://cdn.test/demos/test"}, nil
}

func (s *stubStorage) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, url)
	return nil
}

type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Demo
	invalidated int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.Demo)}
}

func (c *stubCache) Get(_ context.Context, idOrSlug string) (*domain.Demo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[idOrSlug]
	if !ok {
		return nil, false
	}
	return cloneDemo(d), true
}

func (c *stubCache) Set(_ context.Context, d *domain.Demo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !d.IsPublic {
		return
	}
	c.entries[d.ID] = cloneDemo(d)
	c.entries[d.Slug] = cloneDemo(d)
}

func (c *stubCache) Invalidate(_ context.Context, d *domain.Demo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, d.ID)
	delete(c.entries, d.Slug)
	c.invalidated++
}
