package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/daily-diet/internal/core/domain"
	"github.com/sirpyerre/daily-diet/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubMealRepo struct {
	byID      map[string]domain.Meal
	order     []string
	createErr error // if set, Create returns this error
	listErr   error
}

func newStubMealRepo() *stubMealRepo {
	return &stubMealRepo{byID: make(map[string]domain.Meal)}
}

func (r *stubMealRepo) Create(_ context.Context, m *domain.Meal) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[m.ID] = *m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *stubMealRepo) ListByOwner(_ context.Context, userID string) ([]domain.Meal, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Meal
	for _, id := range r.order {
		if m, ok := r.byID[id]; ok && m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// FindByIDAndOwner mirrors the real query: both id and owner must match.
func (r *stubMealRepo) FindByIDAndOwner(_ context.Context, id, userID string) ([]domain.Meal, error) {
	m, ok := r.byID[id]
	if !ok || m.UserID != userID {
		return nil, nil
	}
	return []domain.Meal{m}, nil
}

func (r *stubMealRepo) Update(_ context.Context, id, userID string, patch domain.MealPatch) error {
	m, ok := r.byID[id]
	if !ok || m.UserID != userID {
		return nil
	}
	r.byID[id] = applyPatch(patch, m)
	return nil
}

// applyPatch mirrors the stores' partial update: nil fields are left untouched.
func applyPatch(p domain.MealPatch, m domain.Meal) domain.Meal {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		m.Description = &d
	}
	if p.DateTime != nil {
		m.DateTime = p.DateTime.UTC()
	}
	if p.InDiet != nil {
		m.InDiet = *p.InDiet
	}
	return m
}

func (r *stubMealRepo) Delete(_ context.Context, id, userID string) error {
	if m, ok := r.byID[id]; ok && m.UserID == userID {
		delete(r.byID, id)
	}
	return nil
}

type stubIdempotency struct {
	seen     map[string]bool
	released []string
	err      error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{seen: make(map[string]bool)}
}

func (s *stubIdempotency) Claim(_ context.Context, userID, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	k := userID + ":" + key
	if s.seen[k] {
		return false, nil
	}
	s.seen[k] = true
	return true, nil
}

func (s *stubIdempotency) Release(_ context.Context, userID, key string) error {
	k := userID + ":" + key
	delete(s.seen, k)
	s.released = append(s.released, k)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var baseTime = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func createMeal(t *testing.T, svc *MealService, userID, name string, offset time.Duration, inDiet bool) *domain.Meal {
	t.Helper()
	m, err := svc.CreateMeal(context.Background(), ports.CreateMealInput{
		UserID:   userID,
		Name:     name,
		DateTime: baseTime.Add(offset),
		InDiet:   inDiet,
	})
	if err != nil {
		t.Fatalf("CreateMeal: %v", err)
	}
	return m
}

// ---------------------------------------------------------------------------
// CreateMeal
// ---------------------------------------------------------------------------

func TestCreateMeal_Success(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, nil, zerolog.Nop())

	m, err := svc.CreateMeal(context.Background(), ports.CreateMealInput{
		UserID:      "user-1",
		Name:        "Salad",
		Description: strPtr("greens"),
		DateTime:    baseTime,
		InDiet:      true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(m.ID); err != nil {
		t.Errorf("expected uuid id, got %q", m.ID)
	}
	if m.UserID != "user-1" {
		t.Errorf("owner not set: %q", m.UserID)
	}
	if _, ok := repo.byID[m.ID]; !ok {
		t.Errorf("meal not persisted")
	}
}

func TestCreateMeal_RequiresOwner(t *testing.T) {
	svc := NewMealService(newStubMealRepo(), nil, zerolog.Nop())

	_, err := svc.CreateMeal(context.Background(), ports.CreateMealInput{Name: "x", DateTime: baseTime})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateMeal_RepoError(t *testing.T) {
	repo := newStubMealRepo()
	repo.createErr = errors.New("db down")
	idem := newStubIdempotency()
	svc := NewMealService(repo, idem, zerolog.Nop())

	_, err := svc.CreateMeal(context.Background(), ports.CreateMealInput{
		UserID: "user-1", Name: "x", DateTime: baseTime, IdempotencyKey: "k1",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(idem.released) != 1 {
		t.Fatalf("expected claimed key to be released after failed insert")
	}
}

func TestCreateMeal_IdempotentReplay(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, newStubIdempotency(), zerolog.Nop())

	in := ports.CreateMealInput{UserID: "user-1", Name: "x", DateTime: baseTime, IdempotencyKey: "k1"}
	first, err := svc.CreateMeal(context.Background(), in)
	if err != nil || first == nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := svc.CreateMeal(context.Background(), in)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if second != nil {
		t.Fatalf("replay must not create a meal")
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored meal, got %d", len(repo.byID))
	}

	// Same key, different owner: independent.
	in.UserID = "user-2"
	if m, err := svc.CreateMeal(context.Background(), in); err != nil || m == nil {
		t.Fatalf("other owner should create: %v", err)
	}
}

func TestCreateMeal_IdempotencyStoreDown(t *testing.T) {
	repo := newStubMealRepo()
	idem := newStubIdempotency()
	idem.err = errors.New("redis down")
	svc := NewMealService(repo, idem, zerolog.Nop())

	m, err := svc.CreateMeal(context.Background(), ports.CreateMealInput{
		UserID: "user-1", Name: "x", DateTime: baseTime, IdempotencyKey: "k1",
	})
	if err != nil || m == nil {
		t.Fatalf("create should proceed when idempotency store fails: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Owner scoping
// ---------------------------------------------------------------------------

func TestListAndGet_OwnerIsolation(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, nil, zerolog.Nop())

	alice := createMeal(t, svc, "alice", "a1", 0, true)
	createMeal(t, svc, "alice", "a2", time.Hour, true)
	bob := createMeal(t, svc, "bob", "b1", 0, false)

	meals, err := svc.ListMeals(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 meals for alice, got %d", len(meals))
	}
	for _, m := range meals {
		if m.UserID != "alice" {
			t.Fatalf("leaked meal %s of %s", m.ID, m.UserID)
		}
	}

	got, err := svc.GetMeal(context.Background(), bob.ID, "alice")
	if err != nil {
		t.Fatalf("GetMeal: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("alice must not see bob's meal")
	}

	got, err = svc.GetMeal(context.Background(), alice.ID, "alice")
	if err != nil || len(got) != 1 || got[0].ID != alice.ID {
		t.Fatalf("expected alice's meal, got %+v (%v)", got, err)
	}
}

func TestListMeals_EmptyIsNotNil(t *testing.T) {
	svc := NewMealService(newStubMealRepo(), nil, zerolog.Nop())

	meals, err := svc.ListMeals(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListMeals: %v", err)
	}
	if meals == nil || len(meals) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", meals)
	}
}

func TestGetMeal_InvalidID(t *testing.T) {
	svc := NewMealService(newStubMealRepo(), nil, zerolog.Nop())

	_, err := svc.GetMeal(context.Background(), "not-a-uuid", "alice")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateMeal_PartialAndScoped(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, nil, zerolog.Nop())

	m := createMeal(t, svc, "alice", "Lunch", 0, true)

	err := svc.UpdateMeal(context.Background(), ports.UpdateMealInput{
		MealID: m.ID,
		UserID: "alice",
		Patch:  domain.MealPatch{InDiet: boolPtr(false)},
	})
	if err != nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	updated := repo.byID[m.ID]
	if updated.InDiet {
		t.Errorf("in_diet not updated")
	}
	if updated.Name != "Lunch" || !updated.DateTime.Equal(m.DateTime) {
		t.Errorf("unsupplied fields changed: %+v", updated)
	}

	// Bob cannot tamper with alice's meal.
	err = svc.UpdateMeal(context.Background(), ports.UpdateMealInput{
		MealID: m.ID,
		UserID: "bob",
		Patch:  domain.MealPatch{Name: strPtr("hacked")},
	})
	if err != nil {
		t.Fatalf("UpdateMeal by other owner should not error: %v", err)
	}
	if repo.byID[m.ID].Name != "Lunch" {
		t.Fatalf("cross-account update applied")
	}
}

func TestUpdateMeal_EmptyPatchIsNoop(t *testing.T) {
	svc := NewMealService(newStubMealRepo(), nil, zerolog.Nop())

	if err := svc.UpdateMeal(context.Background(), ports.UpdateMealInput{MealID: uuid.NewString(), UserID: "alice"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDeleteMeal(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, nil, zerolog.Nop())

	m := createMeal(t, svc, "alice", "Dinner", 0, true)

	if err := svc.DeleteMeal(context.Background(), m.ID, "bob"); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if _, ok := repo.byID[m.ID]; !ok {
		t.Fatalf("bob deleted alice's meal")
	}

	if err := svc.DeleteMeal(context.Background(), m.ID, "alice"); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if _, ok := repo.byID[m.ID]; ok {
		t.Fatalf("meal not deleted")
	}

	// Unknown id is still a success.
	if err := svc.DeleteMeal(context.Background(), uuid.NewString(), "alice"); err != nil {
		t.Fatalf("delete of unknown id should succeed, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Metrics
// ---------------------------------------------------------------------------

func TestMetrics(t *testing.T) {
	repo := newStubMealRepo()
	svc := NewMealService(repo, nil, zerolog.Nop())

	// Created out of order on purpose.
	createMeal(t, svc, "alice", "m4", 3*time.Hour, true)
	createMeal(t, svc, "alice", "m1", 0, true)
	createMeal(t, svc, "alice", "m3", 2*time.Hour, false)
	createMeal(t, svc, "alice", "m2", time.Hour, true)
	createMeal(t, svc, "bob", "other", 0, true)

	got, err := svc.Metrics(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	want := domain.MealMetrics{Total: 4, TotalInDiet: 3, TotalOffDiet: 1, BestOnDietSequence: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMetrics_NoMeals(t *testing.T) {
	svc := NewMealService(newStubMealRepo(), nil, zerolog.Nop())

	got, err := svc.Metrics(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if got != (domain.MealMetrics{}) {
		t.Fatalf("expected zeros, got %+v", got)
	}
}

func TestMetrics_RepoError(t *testing.T) {
	repo := newStubMealRepo()
	repo.listErr = errors.New("db down")
	svc := NewMealService(repo, nil, zerolog.Nop())

	if _, err := svc.Metrics(context.Background(), "alice"); err == nil {
		t.Fatalf("expected error")
	}
}
