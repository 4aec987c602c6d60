package service

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/ecocycle/rewards-api/internal/crypto"
	"github.com/ecocycle/rewards-api/internal/notify"
	"github.com/ecocycle/rewards-api/internal/repository"
	"github.com/ecocycle/rewards-api/internal/testutil"
)

type recordingFeed struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (f *recordingFeed) Broadcast(msg notify.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *recordingFeed) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.msgs))
	for i, m := range f.msgs {
		out[i] = m.Type
	}
	return out
}

type testEnv struct {
	db            *sql.DB
	tokens        *crypto.TokenIssuer
	feed          *recordingFeed
	auth          *AuthService
	redemptions   *RedemptionService
	users         *UserService
	admin         *AdminService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	redemptionRepo := repository.NewRedemptionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	recyclableRepo := repository.NewRecyclableRepository(db)

	tokens := crypto.NewTokenIssuer("test-secret", time.Hour)
	feed := &recordingFeed{}

	return &testEnv{
		db:     db,
		tokens: tokens,
		feed:   feed,
		auth:   NewAuthService(userRepo, tokens, "ecocycle.local"),
		redemptions: NewRedemptionService(
			repository.NewTxRunner(db), userRepo, redemptionRepo, notificationRepo, transactionRepo, feed, nil,
		),
		users:         NewUserService(userRepo, transactionRepo),
		admin:         NewAdminService(userRepo, recyclableRepo),
		notifications: NewNotificationService(notificationRepo, userRepo),
	}
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
