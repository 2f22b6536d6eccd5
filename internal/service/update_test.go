package service

import (
	"context"
	"errors"
	"testing"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/services"
	"folio/internal/events"
)

func createTestPage(t *testing.T, env *testEnv, req *services.CreatePageRequest) *models.Page {
	t.Helper()
	page, err := env.pages.CreatePage(context.Background(), req)
	if err != nil {
		t.Fatalf("CreatePage() error: %v", err)
	}
	env.bus.published = nil
	return page
}

func TestRequestUpdateSingleOwnerLifecycle(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
		UpdateFee:     1000,
	})

	// Underpaying fails and leaves the page untouched
	_, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller:  "bob",
		PageID:  page.ID,
		NewHTML: "<h1>X</h1>",
		Payment: 999,
	})
	if !errors.Is(err, domain.ErrInsufficientFee) {
		t.Fatalf("error = %v, want ErrInsufficientFee", err)
	}
	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.HTML != testDocument || stored.Balance != 0 {
		t.Fatal("failed request must not change page state")
	}

	// Paying the exact fee queues a pending request and accrues the fee
	result, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller:  "bob",
		PageID:  page.ID,
		NewHTML: "<h1>X</h1>",
		Payment: 1000,
	})
	if err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}
	if result.Executed {
		t.Error("single-owner request must queue, not execute")
	}
	if result.RequestID != 1 {
		t.Errorf("request id = %d, want 1", result.RequestID)
	}
	stored, _ = env.pages.GetPage(ctx, page.ID)
	if stored.HTML != testDocument {
		t.Error("queued request must not change content yet")
	}
	if stored.Balance != 1000 {
		t.Errorf("balance = %d, want 1000 (credited at request time)", stored.Balance)
	}

	// The sole owner's approval executes immediately
	approved, err := env.updates.ApproveRequest(ctx, "alice", page.ID, result.RequestID)
	if err != nil {
		t.Fatalf("ApproveRequest() error: %v", err)
	}
	if approved.State != models.RequestExecuted {
		t.Errorf("state = %s, want executed", approved.State)
	}
	stored, _ = env.pages.GetPage(ctx, page.ID)
	if stored.HTML != "<h1>X</h1>" {
		t.Errorf("html = %q, want applied update", stored.HTML)
	}
	if stored.Name != "page" {
		t.Error("empty candidate fields must not overwrite existing content")
	}

	if len(env.bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(env.bus.published))
	}
	ev := env.bus.published[0]
	if ev.Type != events.TypeUpdateExecuted || ev.RequestID != 1 || ev.NewHTML != "<h1>X</h1>" {
		t.Errorf("unexpected execution event %+v", ev)
	}

	// Re-approving after execution is rejected
	_, err = env.updates.ApproveRequest(ctx, "alice", page.ID, result.RequestID)
	if !errors.Is(err, domain.ErrAlreadyExecuted) {
		t.Errorf("error = %v, want ErrAlreadyExecuted", err)
	}
}

func TestRequestUpdateRejectsEmptyChange(t *testing.T) {
	env := newTestEnv(fixedSource{})
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
	})

	_, err := env.updates.RequestUpdate(context.Background(), &services.RequestUpdateInput{
		Caller: "bob",
		PageID: page.ID,
	})
	if !errors.Is(err, domain.ErrNoFieldsChanged) {
		t.Errorf("error = %v, want ErrNoFieldsChanged", err)
	}
}

func TestRequestUpdateImmutablePage(t *testing.T) {
	env := newTestEnv(fixedSource{})
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "frozen",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
		Immutable:     true,
	})

	_, err := env.updates.RequestUpdate(context.Background(), &services.RequestUpdateInput{
		Caller:  "alice",
		PageID:  page.ID,
		NewHTML: "<h1>X</h1>",
	})
	if !errors.Is(err, domain.ErrPageImmutable) {
		t.Errorf("error = %v, want ErrPageImmutable", err)
	}
}

func TestRequestUpdateUnknownPage(t *testing.T) {
	env := newTestEnv(fixedSource{})
	_, err := env.updates.RequestUpdate(context.Background(), &services.RequestUpdateInput{
		Caller:  "alice",
		PageID:  42,
		NewHTML: "<h1>X</h1>",
	})
	if !errors.Is(err, domain.ErrPageNotFound) {
		t.Errorf("error = %v, want ErrPageNotFound", err)
	}
}

func TestApproveRequestMultiSigThreshold(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:            "alice",
		Name:              "shared",
		HTML:              testDocument,
		OwnershipType:     models.OwnershipMultiSig,
		Owners:            []string{"alice", "bob", "carol"},
		ApprovalThreshold: 3,
	})

	result, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller:  "dave",
		PageID:  page.ID,
		NewName: "renamed",
	})
	if err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	// Non-owner cannot approve
	if _, err := env.updates.ApproveRequest(ctx, "dave", page.ID, result.RequestID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("error = %v, want ErrNotOwner", err)
	}

	// The (T-1)-th approval leaves the request pending
	for _, approver := range []string{"alice", "bob"} {
		req, err := env.updates.ApproveRequest(ctx, approver, page.ID, result.RequestID)
		if err != nil {
			t.Fatalf("ApproveRequest(%s) error: %v", approver, err)
		}
		if req.State != models.RequestPending {
			t.Fatalf("request executed after %s's approval; threshold is 3", approver)
		}
	}
	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.Name != "shared" {
		t.Fatal("content changed before threshold reached")
	}

	// Duplicate approval is rejected and does not advance the count
	if _, err := env.updates.ApproveRequest(ctx, "alice", page.ID, result.RequestID); !errors.Is(err, domain.ErrAlreadyApproved) {
		t.Fatalf("error = %v, want ErrAlreadyApproved", err)
	}

	// The T-th distinct approval executes
	req, err := env.updates.ApproveRequest(ctx, "carol", page.ID, result.RequestID)
	if err != nil {
		t.Fatalf("ApproveRequest(carol) error: %v", err)
	}
	if req.State != models.RequestExecuted {
		t.Error("request must execute once threshold distinct owners approved")
	}
	stored, _ = env.pages.GetPage(ctx, page.ID)
	if stored.Name != "renamed" {
		t.Errorf("name = %q, want renamed", stored.Name)
	}
	if stored.HTML != testDocument {
		t.Error("html must be untouched when only the name was replaced")
	}
}

func TestApproveRequestNotFound(t *testing.T) {
	env := newTestEnv(fixedSource{})
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
	})

	_, err := env.updates.ApproveRequest(context.Background(), "alice", page.ID, 99)
	if !errors.Is(err, domain.ErrRequestNotFound) {
		t.Errorf("error = %v, want ErrRequestNotFound", err)
	}
}

func TestRequestUpdatePermissionlessExecutesImmediately(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "open",
		HTML:          testDocument,
		OwnershipType: models.OwnershipPermissionless,
	})

	for i, caller := range []string{"bob", "carol"} {
		result, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
			Caller:  caller,
			PageID:  page.ID,
			NewHTML: "<!DOCTYPE html><html><p>v2</p></html>",
			Payment: 5,
		})
		if err != nil {
			t.Fatalf("RequestUpdate(%s) error: %v", caller, err)
		}
		if !result.Executed {
			t.Error("permissionless updates must execute immediately")
		}
		if want := int64(i + 1); result.RequestID != want {
			t.Errorf("request id = %d, want %d", result.RequestID, want)
		}
	}

	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.HTML != "<!DOCTYPE html><html><p>v2</p></html>" {
		t.Error("content not applied")
	}
	if stored.Balance != 10 {
		t.Errorf("balance = %d, want 10", stored.Balance)
	}

	// Both submissions are retained as the participant pool
	proposers, err := env.store.ListProposers(ctx, page.ID)
	if err != nil {
		t.Fatalf("ListProposers() error: %v", err)
	}
	if len(proposers) != 2 || proposers[0] != "bob" || proposers[1] != "carol" {
		t.Errorf("participant pool = %v, want [bob carol]", proposers)
	}

	if len(env.bus.published) != 2 {
		t.Errorf("published %d events, want 2 executions", len(env.bus.published))
	}
}
