package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stepwise/stepwise-api/internal/core/domain"
	"github.com/stepwise/stepwise-api/internal/core/ports"
)

type demoFixture struct {
	svc      *DemoService
	demos    *stubDemoRepo
	steps    *stubStepRepo
	hotspots *stubHotspotRepo
	storage  *stubStorage
	cache    *stubCache
}

func newDemoFixture() *demoFixture {
	f := &demoFixture{
		demos:    newStubDemoRepo(),
		steps:    newStubStepRepo(),
		hotspots: newStubHotspotRepo(),
		storage:  &stubStorage{},
		cache:    newStubCache(),
	}
	f.demos.steps = f.steps
	f.steps.hotspots = f.hotspots
	f.svc = NewDemoService(f.demos, f.steps, f.hotspots, f.storage, f.cache, zerolog.Nop())
	return f
}

func (f *demoFixture) mustCreate(t *testing.T, ownerID, title string) *domain.Demo {
	t.Helper()
	demo, err := f.svc.Create(context.Background(), ownerID, ports.CreateDemoInput{Title: title})
	if err != nil {
		t.Fatalf("create demo: %v", err)
	}
	return demo
}

func TestDemoService_Create_StartsPrivate(t *testing.T) {
	f := newDemoFixture()

	demo := f.mustCreate(t, "u1", "Product Tour")
	if demo.IsPublic {
		t.Fatalf("new demos must start private")
	}
	if demo.Slug != "product-tour" {
		t.Fatalf("unexpected slug %q", demo.Slug)
	}
	if demo.UserID != "u1" {
		t.Fatalf("unexpected owner %q", demo.UserID)
	}

	second := f.mustCreate(t, "u1", "Product Tour")
	if second.Slug != "product-tour-1" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestDemoService_Get_PrivateReadsAsNotFound(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Secret Demo")

	if _, err := f.svc.Get(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), demo.ID, "u2"); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("non-owner must see not-found, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), demo.ID, ""); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("anonymous must see not-found, got %v", err)
	}
}

func TestDemoService_Get_BySlugAndCache(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Public Demo")
	if _, err := f.svc.ToggleVisibility(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got, err := f.svc.Get(context.Background(), demo.Slug, "")
	if err != nil {
		t.Fatalf("anonymous read of public demo: %v", err)
	}
	if got.ID != demo.ID {
		t.Fatalf("slug resolved to %q, want %q", got.ID, demo.ID)
	}

	// The read-through populated the cache with both keys.
	if _, ok := f.cache.Get(context.Background(), demo.Slug); !ok {
		t.Fatalf("public demo not cached under slug")
	}
	if _, ok := f.cache.Get(context.Background(), demo.ID); !ok {
		t.Fatalf("public demo not cached under id")
	}
}

func TestDemoService_PrivateDemoNeverCached(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Secret Demo")

	if _, err := f.svc.Get(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, ok := f.cache.Get(context.Background(), demo.ID); ok {
		t.Fatalf("private demo must not be cached")
	}
}

func TestDemoService_ToggleVisibility_Involution(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Tour")

	once, err := f.svc.ToggleVisibility(context.Background(), demo.ID, "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !once.IsPublic {
		t.Fatalf("first toggle should publish")
	}
	twice, err := f.svc.ToggleVisibility(context.Background(), demo.ID, "u1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if twice.IsPublic {
		t.Fatalf("second toggle should restore private")
	}
	if f.cache.invalidated != 2 {
		t.Fatalf("each toggle must invalidate the cache, got %d", f.cache.invalidated)
	}
}

func TestDemoService_Update_TitleDoesNotMoveSlug(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Product Tour")

	title := "Renamed Tour"
	updated, err := f.svc.Update(context.Background(), demo.ID, "u1", ports.UpdateDemoInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed Tour" {
		t.Fatalf("title not applied: %+v", updated)
	}
	if updated.Slug != "product-tour" {
		t.Fatalf("title change must not re-slug, got %q", updated.Slug)
	}
}

func TestDemoService_Update_ExplicitSlug(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Product Tour")
	other := f.mustCreate(t, "u1", "Another Demo")

	slug := "Fresh Slug!"
	updated, err := f.svc.Update(context.Background(), demo.ID, "u1", ports.UpdateDemoInput{Slug: &slug})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "fresh-slug" {
		t.Fatalf("explicit slug must be normalized, got %q", updated.Slug)
	}

	taken := other.Slug
	if _, err := f.svc.Update(context.Background(), demo.ID, "u1", ports.UpdateDemoInput{Slug: &taken}); !errors.Is(err, domain.ErrSlugConflict) {
		t.Fatalf("expected ErrSlugConflict, got %v", err)
	}
}

func TestDemoService_Update_SlugRenameDropsOldCacheKey(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Public Demo")
	if _, err := f.svc.ToggleVisibility(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	// Prime the cache under the original slug.
	if _, err := f.svc.Get(context.Background(), demo.Slug, ""); err != nil {
		t.Fatalf("anonymous read: %v", err)
	}

	slug := "renamed-demo"
	private := false
	if _, err := f.svc.Update(context.Background(), demo.ID, "u1", ports.UpdateDemoInput{Slug: &slug, IsPublic: &private}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := f.cache.Get(context.Background(), "public-demo"); ok {
		t.Fatalf("retired slug key still cached after rename")
	}
	if _, err := f.svc.Get(context.Background(), "public-demo", ""); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("now-private demo readable under retired slug, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), "renamed-demo", ""); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("now-private demo readable under new slug, got %v", err)
	}
}

func TestDemoService_Update_EmptyPayload(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Tour")

	if _, err := f.svc.Update(context.Background(), demo.ID, "u1", ports.UpdateDemoInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDemoService_MutationAuthorization(t *testing.T) {
	f := newDemoFixture()
	private := f.mustCreate(t, "u1", "Private One")
	public := f.mustCreate(t, "u1", "Public One")
	if _, err := f.svc.ToggleVisibility(context.Background(), public.ID, "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	title := "x"
	if _, err := f.svc.Update(context.Background(), private.ID, "u2", ports.UpdateDemoInput{Title: &title}); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("private demo mutation by stranger must read as not-found, got %v", err)
	}
	if _, err := f.svc.Update(context.Background(), public.ID, "u2", ports.UpdateDemoInput{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("public demo mutation by stranger must be forbidden, got %v", err)
	}
}

func TestDemoService_Duplicate(t *testing.T) {
	f := newDemoFixture()
	source := f.mustCreate(t, "u1", "Product Tour")
	f.steps.steps["s1"] = &domain.Step{ID: "s1", DemoID: source.ID, Title: "Step", Position: 1}

	copy, err := f.svc.Duplicate(context.Background(), source.ID, "u1")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if copy.Title != "Product Tour (Copy)" {
		t.Fatalf("unexpected title %q", copy.Title)
	}
	if copy.IsPublic {
		t.Fatalf("copies must start private")
	}
	if copy.ID == source.ID || copy.Slug == source.Slug {
		t.Fatalf("copy must get its own id and slug: %+v", copy)
	}

	// Shallow copy: steps stay with the original.
	count, _ := f.steps.CountByDemo(context.Background(), copy.ID)
	if count != 0 {
		t.Fatalf("duplicate must not copy steps, got %d", count)
	}
}

func TestDemoService_Duplicate_Visibility(t *testing.T) {
	f := newDemoFixture()
	private := f.mustCreate(t, "u1", "Private Tour")
	public := f.mustCreate(t, "u1", "Public Tour")
	if _, err := f.svc.ToggleVisibility(context.Background(), public.ID, "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if _, err := f.svc.Duplicate(context.Background(), private.ID, "u2"); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("stranger duplicating a private demo must see not-found, got %v", err)
	}

	copy, err := f.svc.Duplicate(context.Background(), public.ID, "u2")
	if err != nil {
		t.Fatalf("anyone may duplicate a public demo: %v", err)
	}
	if copy.UserID != "u2" {
		t.Fatalf("the caller owns the copy, got owner %q", copy.UserID)
	}
}

func TestDemoService_Delete_CleansUpImages(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Tour")
	f.steps.steps["s1"] = &domain.Step{ID: "s1", DemoID: demo.ID, ImageURL: "http://cdn.test/a.png", Position: 1}
	f.steps.steps["s2"] = &domain.Step{ID: "s2", DemoID: demo.ID, ImageURL: "", Position: 2}

	if err := f.svc.Delete(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.demos.FindByID(context.Background(), demo.ID); !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("demo still present after delete")
	}
	if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "http://cdn.test/a.png" {
		t.Fatalf("expected exactly the one stored image removed, got %v", f.storage.deleted)
	}
}

func TestDemoService_Delete_CascadesToStepsAndHotspots(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Tour")
	f.steps.steps["s1"] = &domain.Step{ID: "s1", DemoID: demo.ID, Position: 1}
	f.hotspots.hotspots["h1"] = &domain.Hotspot{ID: "h1", StepID: "s1", X: 10, Y: 10, Width: 5, Height: 5, Color: "#fff"}

	if err := f.svc.Delete(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stepSvc := NewStepService(f.demos, f.steps, f.hotspots, f.storage, zerolog.Nop())
	if _, err := stepSvc.Get(context.Background(), "s1"); !errors.Is(err, domain.ErrStepNotFound) {
		t.Fatalf("former step readable after demo delete, got %v", err)
	}
	if _, err := f.hotspots.FindByID(context.Background(), "h1"); !errors.Is(err, domain.ErrHotspotNotFound) {
		t.Fatalf("former hotspot still present after demo delete, got %v", err)
	}
}

func TestDemoService_Delete_SurvivesStorageFailure(t *testing.T) {
	f := newDemoFixture()
	f.storage.deleteErr = errors.New("bucket down")
	demo := f.mustCreate(t, "u1", "Tour")
	f.steps.steps["s1"] = &domain.Step{ID: "s1", DemoID: demo.ID, ImageURL: "http://cdn.test/a.png", Position: 1}

	if err := f.svc.Delete(context.Background(), demo.ID, "u1"); err != nil {
		t.Fatalf("image cleanup is best-effort, delete must succeed: %v", err)
	}
}

func TestDemoService_ListNormalization(t *testing.T) {
	f := newDemoFixture()
	for i := 0; i < 3; i++ {
		demo := f.mustCreate(t, "u1", "Tour")
		demo.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		f.demos.demos[demo.ID] = demo
	}
	f.mustCreate(t, "u2", "Other Owner")

	demos, total, err := f.svc.ListOwn(context.Background(), "u1", ports.ListDemosFilter{Page: 0, Limit: -5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(demos) != 3 {
		t.Fatalf("expected the caller's three demos, got %d of %d", len(demos), total)
	}

	_, _, err = f.svc.ListOwn(context.Background(), "u1", ports.ListDemosFilter{Limit: 100000})
	if err != nil {
		t.Fatalf("oversized limit must be capped, not rejected: %v", err)
	}
}

func TestDemoService_ListPublic_ForcesVisibilityFilter(t *testing.T) {
	f := newDemoFixture()
	f.mustCreate(t, "u1", "Private Tour")
	public := f.mustCreate(t, "u1", "Public Tour")
	if _, err := f.svc.ToggleVisibility(context.Background(), public.ID, "u1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	hidden := false
	demos, total, err := f.svc.ListPublic(context.Background(), ports.ListDemosFilter{IsPublic: &hidden})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(demos) != 1 || !demos[0].IsPublic {
		t.Fatalf("public listing must ignore a caller-supplied visibility filter: %d demos", total)
	}
}

func TestDemoService_GetWithStepsAndCount(t *testing.T) {
	f := newDemoFixture()
	demo := f.mustCreate(t, "u1", "Tour")
	f.steps.steps["s1"] = &domain.Step{ID: "s1", DemoID: demo.ID, Position: 2}
	f.steps.steps["s2"] = &domain.Step{ID: "s2", DemoID: demo.ID, Position: 1}

	detail, err := f.svc.GetWithSteps(context.Background(), demo.ID, "u1")
	if err != nil {
		t.Fatalf("GetWithSteps: %v", err)
	}
	if len(detail.Steps) != 2 || detail.Steps[0].ID != "s2" {
		t.Fatalf("steps must come back in position order: %+v", detail.Steps)
	}

	counted, err := f.svc.GetWithStepsCount(context.Background(), demo.ID, "u1")
	if err != nil {
		t.Fatalf("GetWithStepsCount: %v", err)
	}
	if counted.StepsCount != 2 {
		t.Fatalf("expected 2 steps, got %d", counted.StepsCount)
	}
}
