package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ecocycle/rewards-api/internal/model"
	"github.com/ecocycle/rewards-api/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)

	tests := []struct {
		name    string
		req     model.CreateRedemptionRequest
		wantErr error
	}{
		{"missing user id", model.CreateRedemptionRequest{Points: 10}, ErrInvalidUserID},
		{"zero points", model.CreateRedemptionRequest{UserID: alice}, ErrInvalidPoints},
		{"negative points", model.CreateRedemptionRequest{UserID: alice, Points: -5}, ErrInvalidPoints},
		{"unknown user", model.CreateRedemptionRequest{UserID: 9999, Points: 10}, ErrUserNotFound},
		{"more than balance", model.CreateRedemptionRequest{UserID: alice, Points: 101}, ErrInsufficientPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.redemptions.Create(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if n := countRows(t, env.db, "redemption_requests"); n != 0 {
		t.Errorf("rejected requests wrote %d rows", n)
	}
}

func TestCreate_NotifiesAdmins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)
	admin1 := testutil.CreateUser(t, env.db, "Admin One", "admin1@ecocycle.local", 0, true)
	admin2 := testutil.CreateUser(t, env.db, "Admin Two", "admin2@ecocycle.local", 0, true)

	resp, err := env.redemptions.Create(ctx, model.CreateRedemptionRequest{UserID: alice, Points: 30, Status: "approved"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if resp.Request.Status != model.StatusPending {
		t.Errorf("status = %q, want pending regardless of body", resp.Request.Status)
	}
	if resp.Request.Points != 30 || resp.Request.UserID != alice {
		t.Errorf("unexpected request: %+v", resp.Request)
	}

	for _, admin := range []int64{admin1, admin2} {
		list, err := env.notifications.ListUnread(ctx, admin)
		if err != nil {
			t.Fatalf("ListUnread() unexpected error: %v", err)
		}
		if len(list) != 1 || list[0].Type != model.NotificationRedemptionRequest {
			t.Errorf("admin %d notifications = %+v, want one redemption_request", admin, list)
		}
	}

	points, err := env.users.Points(ctx, alice)
	if err != nil {
		t.Fatalf("Points() unexpected error: %v", err)
	}
	if points.Points != 100 {
		t.Errorf("points = %d, want 100 until approval", points.Points)
	}

	if got := env.feed.types(); len(got) != 1 || got[0] != "redemption_created" {
		t.Errorf("feed = %v, want [redemption_created]", got)
	}
}

func TestProcess_Approve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)
	admin := testutil.CreateUser(t, env.db, "Admin", "admin@ecocycle.local", 0, true)

	created, err := env.redemptions.Create(ctx, model.CreateRedemptionRequest{UserID: alice, Points: 30})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	resp, err := env.redemptions.Process(ctx, admin, model.ProcessRedemptionRequest{
		RequestID: created.Request.ID,
		AdminID:   admin,
		Status:    model.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	if resp.Request.Status != model.StatusApproved {
		t.Errorf("status = %q, want approved", resp.Request.Status)
	}
	if resp.Request.ProcessedBy == nil || *resp.Request.ProcessedBy != admin {
		t.Errorf("processed_by = %v, want %d", resp.Request.ProcessedBy, admin)
	}
	if resp.Request.ProcessedAt == nil {
		t.Error("expected processed_at to be set")
	}

	stats, err := env.users.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats() unexpected error: %v", err)
	}
	if stats.Points != 70 {
		t.Errorf("points = %d, want 70", stats.Points)
	}
	if !stats.Money.Equal(decimal.NewFromInt(30)) {
		t.Errorf("money = %s, want 30", stats.Money)
	}
	if stats.ApprovedRequests != 1 || stats.PendingRequests != 0 || stats.TotalRedeemedPoints != 30 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	txs, err := env.users.Transactions(ctx, alice)
	if err != nil {
		t.Fatalf("Transactions() unexpected error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len(transactions) = %d, want 1", len(txs))
	}
	if txs[0].Points != -30 || !txs[0].Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("transaction = %+v, want -30 points / +30 amount", txs[0])
	}
	if txs[0].ReferenceID == nil || *txs[0].ReferenceID != created.Request.ID {
		t.Errorf("reference_id = %v, want %d", txs[0].ReferenceID, created.Request.ID)
	}

	notes, err := env.notifications.ListUnread(ctx, alice)
	if err != nil {
		t.Fatalf("ListUnread() unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != model.NotificationRedemptionApproved {
		t.Errorf("user notifications = %+v, want one redemption_approved", notes)
	}

	pending, err := env.redemptions.ListPendingForUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListPendingForUser() unexpected error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0", len(pending))
	}

	approved, err := env.redemptions.ListByStatus(ctx, model.StatusApproved)
	if err != nil {
		t.Fatalf("ListByStatus() unexpected error: %v", err)
	}
	if len(approved) != 1 || approved[0].UserName != "Alice" || approved[0].UserEmail != "alice@ecocycle.local" {
		t.Errorf("approved listing = %+v", approved)
	}

	if got := env.feed.types(); len(got) != 2 || got[1] != "redemption_approved" {
		t.Errorf("feed = %v, want [redemption_created redemption_approved]", got)
	}
}

func TestProcess_Reject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)
	admin := testutil.CreateUser(t, env.db, "Admin", "admin@ecocycle.local", 0, true)

	created, err := env.redemptions.Create(ctx, model.CreateRedemptionRequest{UserID: alice, Points: 30})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	resp, err := env.redemptions.Process(ctx, admin, model.ProcessRedemptionRequest{
		RequestID: created.Request.ID,
		Status:    model.StatusRejected,
	})
	if err != nil {
		t.Fatalf("Process() unexpected error: %v", err)
	}
	if resp.Request.Status != model.StatusRejected {
		t.Errorf("status = %q, want rejected", resp.Request.Status)
	}

	stats, err := env.users.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats() unexpected error: %v", err)
	}
	if stats.Points != 100 || !stats.Money.IsZero() {
		t.Errorf("balances changed on reject: points=%d money=%s", stats.Points, stats.Money)
	}
	if n := countRows(t, env.db, "transactions"); n != 0 {
		t.Errorf("reject wrote %d transactions", n)
	}

	notes, err := env.notifications.ListUnread(ctx, alice)
	if err != nil {
		t.Fatalf("ListUnread() unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].Type != model.NotificationRedemptionRejected {
		t.Errorf("user notifications = %+v, want one redemption_rejected", notes)
	}

	_, err = env.redemptions.Process(ctx, admin, model.ProcessRedemptionRequest{
		RequestID: created.Request.ID,
		Status:    model.StatusApproved,
	})
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("second decision: expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestProcess_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, "Admin", "admin@ecocycle.local", 0, true)

	tests := []struct {
		name    string
		req     model.ProcessRedemptionRequest
		wantErr error
	}{
		{"missing request id", model.ProcessRedemptionRequest{Status: model.StatusApproved}, ErrRequestIDRequired},
		{"pending is not a decision", model.ProcessRedemptionRequest{RequestID: 1, Status: model.StatusPending}, ErrInvalidDecision},
		{"unknown status", model.ProcessRedemptionRequest{RequestID: 1, Status: "done"}, ErrInvalidDecision},
		{"admin mismatch", model.ProcessRedemptionRequest{RequestID: 1, AdminID: admin + 1, Status: model.StatusApproved}, ErrAdminMismatch},
		{"unknown request", model.ProcessRedemptionRequest{RequestID: 9999, Status: model.StatusApproved}, ErrRequestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.redemptions.Process(ctx, admin, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestProcess_InsufficientPointsRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)
	admin := testutil.CreateUser(t, env.db, "Admin", "admin@ecocycle.local", 0, true)

	created, err := env.redemptions.Create(ctx, model.CreateRedemptionRequest{UserID: alice, Points: 80})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	testutil.SetPoints(t, env.db, alice, 50)

	_, err = env.redemptions.Process(ctx, admin, model.ProcessRedemptionRequest{
		RequestID: created.Request.ID,
		Status:    model.StatusApproved,
	})
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}

	pending, err := env.redemptions.ListPendingForUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListPendingForUser() unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ProcessedBy != nil {
		t.Errorf("request should still be pending and unprocessed: %+v", pending)
	}

	stats, err := env.users.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats() unexpected error: %v", err)
	}
	if stats.Points != 50 || !stats.Money.IsZero() {
		t.Errorf("balances changed: points=%d money=%s", stats.Points, stats.Money)
	}
	if n := countRows(t, env.db, "transactions"); n != 0 {
		t.Errorf("rolled back approval wrote %d transactions", n)
	}
}

func TestProcess_ConcurrentApprovalsCreditOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@ecocycle.local", 100, false)
	admin := testutil.CreateUser(t, env.db, "Admin", "admin@ecocycle.local", 0, true)

	created, err := env.redemptions.Create(ctx, model.CreateRedemptionRequest{UserID: alice, Points: 30})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.redemptions.Process(ctx, admin, model.ProcessRedemptionRequest{
				RequestID: created.Request.ID,
				Status:    model.StatusApproved,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyProcessed):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if successes != 1 || conflicts != workers-1 {
		t.Errorf("successes=%d conflicts=%d, want 1 and %d", successes, conflicts, workers-1)
	}

	stats, err := env.users.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats() unexpected error: %v", err)
	}
	if stats.Points != 70 || !stats.Money.Equal(decimal.NewFromInt(30)) {
		t.Errorf("points=%d money=%s, want 70 and 30", stats.Points, stats.Money)
	}
	if n := countRows(t, env.db, "transactions"); n != 1 {
		t.Errorf("transactions = %d, want 1", n)
	}
}

func TestListByStatus_RejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.redemptions.ListByStatus(context.Background(), "archived"); !errors.Is(err, ErrInvalidListStatus) {
		t.Errorf("expected ErrInvalidListStatus, got %v", err)
	}
}
