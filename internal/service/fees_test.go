package service

import (
	"context"
	"errors"
	"testing"

	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/domain/services"
)

func TestWithdrawSingleOwnerTakesAll(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
		UpdateFee:     1000,
	})
	if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller: "bob", PageID: page.ID, NewHTML: "<h1>X</h1>", Payment: 1000,
	}); err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	// Only the owner may withdraw
	if _, err := env.fees.Withdraw(ctx, "bob", page.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("error = %v, want ErrNotOwner", err)
	}

	result, err := env.fees.Withdraw(ctx, "alice", page.ID)
	if err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}
	if result.Paid != 1000 || result.Remainder != 0 {
		t.Errorf("result = %+v, want paid=1000 remainder=0", result)
	}

	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.Balance != 0 {
		t.Errorf("page balance = %d, want 0", stored.Balance)
	}
	if balance, _ := env.store.Balance(ctx, "alice"); balance != 1000 {
		t.Errorf("alice account = %d, want 1000", balance)
	}

	// Withdrawing an empty balance pays nothing but succeeds
	result, err = env.fees.Withdraw(ctx, "alice", page.ID)
	if err != nil {
		t.Fatalf("Withdraw() on empty balance error: %v", err)
	}
	if result.Paid != 0 {
		t.Errorf("paid = %d, want 0", result.Paid)
	}
}

func TestWithdrawMultiSigSplitsWithRemainder(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:            "alice",
		Name:              "shared",
		HTML:              testDocument,
		OwnershipType:     models.OwnershipMultiSig,
		Owners:            []string{"alice", "bob", "carol"},
		ApprovalThreshold: 2,
	})
	if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller: "dave", PageID: page.ID, NewName: "renamed", Payment: 1000,
	}); err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	result, err := env.fees.Withdraw(ctx, "bob", page.ID)
	if err != nil {
		t.Fatalf("Withdraw() error: %v", err)
	}

	// 1000 / 3 = 333 each, remainder 1 stays in the page balance
	if result.Paid != 999 || result.Remainder != 1 {
		t.Errorf("result = %+v, want paid=999 remainder=1", result)
	}
	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.Balance != 1 {
		t.Errorf("page balance = %d, want remainder 1", stored.Balance)
	}
	var total int64 = stored.Balance
	for _, owner := range []string{"alice", "bob", "carol"} {
		balance, _ := env.store.Balance(ctx, owner)
		if balance != 333 {
			t.Errorf("%s account = %d, want 333", owner, balance)
		}
		total += balance
	}
	if total != 1000 {
		t.Errorf("shares plus remainder = %d, want the pre-withdrawal balance 1000", total)
	}
}

func TestWithdrawPermissionlessAlwaysFails(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "open",
		HTML:          testDocument,
		OwnershipType: models.OwnershipPermissionless,
	})
	if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller: "bob", PageID: page.ID, NewHTML: "<p>x</p>", Payment: 50,
	}); err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	if _, err := env.fees.Withdraw(ctx, "bob", page.ID); !errors.Is(err, domain.ErrWithdrawalNotAllowed) {
		t.Errorf("error = %v, want ErrWithdrawalNotAllowed", err)
	}
	stored, _ := env.pages.GetPage(ctx, page.ID)
	if stored.Balance != 50 {
		t.Errorf("balance = %d, want untouched 50", stored.Balance)
	}
}

func TestDistributeTreasuryPaysOneParticipant(t *testing.T) {
	tests := []struct {
		name      string
		draw      int
		recipient string
	}{
		{"first entry selected", 0, "bob"},
		{"second entry selected", 1, "carol"},
		{"repeat submitter weighted twice", 2, "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(fixedSource{value: tt.draw})
			ctx := context.Background()
			page := createTestPage(t, env, &services.CreatePageRequest{
				Caller:        "alice",
				Name:          "open",
				HTML:          testDocument,
				OwnershipType: models.OwnershipPermissionless,
			})
			for _, caller := range []string{"bob", "carol", "bob"} {
				if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
					Caller: caller, PageID: page.ID, NewHTML: "<p>x</p>", Payment: 100,
				}); err != nil {
					t.Fatalf("RequestUpdate(%s) error: %v", caller, err)
				}
			}

			result, err := env.fees.DistributeTreasury(ctx, "anyone", page.ID)
			if err != nil {
				t.Fatalf("DistributeTreasury() error: %v", err)
			}
			if result.Recipient != tt.recipient {
				t.Errorf("recipient = %s, want %s", result.Recipient, tt.recipient)
			}
			if result.Paid != 300 {
				t.Errorf("paid = %d, want the full balance 300", result.Paid)
			}

			stored, _ := env.pages.GetPage(ctx, page.ID)
			if stored.Balance != 0 {
				t.Errorf("balance = %d, want 0 after distribution", stored.Balance)
			}
			if balance, _ := env.store.Balance(ctx, tt.recipient); balance != 300 {
				t.Errorf("%s account = %d, want 300", tt.recipient, balance)
			}
		})
	}
}

func TestDistributeTreasuryExcludesPrePermissionlessProposers(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()
	page := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
		UpdateFee:     100,
	})

	// Bob proposes while the page is still single-owned; the request
	// stays pending.
	if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller: "bob", PageID: page.ID, NewHTML: "<p>x</p>", Payment: 100,
	}); err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	if _, err := env.ownership.ChangeOwnership(ctx, &services.ChangeOwnershipRequest{
		Caller:  "alice",
		PageID:  page.ID,
		NewType: models.OwnershipPermissionless,
	}); err != nil {
		t.Fatalf("ChangeOwnership() error: %v", err)
	}

	// Bob never submitted on the permissionless page, so the pool is empty.
	if _, err := env.fees.DistributeTreasury(ctx, "anyone", page.ID); !errors.Is(err, domain.ErrNoParticipants) {
		t.Fatalf("error = %v, want ErrNoParticipants for a pool of single-era proposers", err)
	}

	// Carol's submission after the switch is the first real pool entry.
	if _, err := env.updates.RequestUpdate(ctx, &services.RequestUpdateInput{
		Caller: "carol", PageID: page.ID, NewHTML: "<p>y</p>", Payment: 100,
	}); err != nil {
		t.Fatalf("RequestUpdate() error: %v", err)
	}

	result, err := env.fees.DistributeTreasury(ctx, "anyone", page.ID)
	if err != nil {
		t.Fatalf("DistributeTreasury() error: %v", err)
	}
	if result.Recipient != "carol" {
		t.Errorf("recipient = %s, want carol (bob's single-era request is not an entry)", result.Recipient)
	}
	if result.Paid != 200 {
		t.Errorf("paid = %d, want the full accrued balance 200", result.Paid)
	}
}

func TestDistributeTreasuryFailures(t *testing.T) {
	env := newTestEnv(fixedSource{})
	ctx := context.Background()

	single := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "page",
		HTML:          testDocument,
		OwnershipType: models.OwnershipSingle,
	})
	if _, err := env.fees.DistributeTreasury(ctx, "alice", single.ID); !errors.Is(err, domain.ErrNotPermissionless) {
		t.Errorf("error = %v, want ErrNotPermissionless", err)
	}

	open := createTestPage(t, env, &services.CreatePageRequest{
		Caller:        "alice",
		Name:          "open",
		HTML:          testDocument,
		OwnershipType: models.OwnershipPermissionless,
	})
	if _, err := env.fees.DistributeTreasury(ctx, "alice", open.ID); !errors.Is(err, domain.ErrNoParticipants) {
		t.Errorf("error = %v, want ErrNoParticipants", err)
	}
}
