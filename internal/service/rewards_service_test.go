package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
)

// fakeRewardsRepo mirrors the Postgres semantics in memory: at-most-once
// interaction per (user, content) pair, guarded debits, atomic follow flip.
// The mutex stands in for the unique index and row locks, so the fake keeps
// those guarantees under concurrent callers too.
type fakeRewardsRepo struct {
	mu           sync.Mutex
	interactions map[string]bool
	balances     map[uuid.UUID]int
	hasFollowed  map[uuid.UUID]bool
	redemptions  []model.RedemptionRecord
	logs         []model.PointLog
}

func newFakeRewardsRepo() *fakeRewardsRepo {
	return &fakeRewardsRepo{
		interactions: make(map[string]bool),
		balances:     make(map[uuid.UUID]int),
		hasFollowed:  make(map[uuid.UUID]bool),
	}
}

func pairKey(userID, contentID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", userID, contentID)
}

func (f *fakeRewardsRepo) HasInteracted(_ context.Context, userID, contentID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interactions[pairKey(userID, contentID)], nil
}

func (f *fakeRewardsRepo) RecordInteractionAndCredit(_ context.Context, rec *model.InteractionRecord, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := pairKey(rec.UserID, rec.ContentID)
	if f.interactions[key] {
		return apperror.ErrAlreadyRecorded
	}
	if _, ok := f.balances[rec.UserID]; !ok {
		return apperror.ErrUserNotFound
	}
	f.interactions[key] = true
	f.balances[rec.UserID] += points
	f.logs = append(f.logs, model.PointLog{UserID: rec.UserID, Action: rec.Kind, Delta: points})
	return nil
}

func (f *fakeRewardsRepo) GrantFollowBonus(_ context.Context, userID uuid.UUID, points int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[userID]; !ok {
		return false, apperror.ErrUserNotFound
	}
	if f.hasFollowed[userID] {
		return false, nil
	}
	f.hasFollowed[userID] = true
	f.balances[userID] += points
	f.logs = append(f.logs, model.PointLog{UserID: userID, Action: "follow", Delta: points})
	return true, nil
}

func (f *fakeRewardsRepo) Credit(_ context.Context, userID uuid.UUID, amount int, action, referenceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[userID]; !ok {
		return apperror.ErrUserNotFound
	}
	f.balances[userID] += amount
	return nil
}

func (f *fakeRewardsRepo) Debit(_ context.Context, userID uuid.UUID, amount int, action, referenceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[userID]
	if !ok {
		return apperror.ErrUserNotFound
	}
	if balance < amount {
		return apperror.ErrInsufficientBalance
	}
	f.balances[userID] -= amount
	return nil
}

func (f *fakeRewardsRepo) Redeem(_ context.Context, user *model.User, threshold int, amountPayable float64, payoutDestination string) (*model.RedemptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[user.ID]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	if balance < threshold {
		return nil, apperror.ErrInsufficientBalance
	}
	f.balances[user.ID] -= threshold
	record := model.RedemptionRecord{
		UserID:            user.ID,
		UserName:          user.Username,
		UserEmail:         user.Email,
		PayoutDestination: payoutDestination,
		PointsSpent:       threshold,
		AmountPayable:     amountPayable,
	}
	f.redemptions = append(f.redemptions, record)
	return &record, nil
}

func (f *fakeRewardsRepo) GetBalance(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[userID]
	if !ok {
		return 0, apperror.ErrUserNotFound
	}
	return balance, nil
}

func (f *fakeRewardsRepo) GetPointLogs(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.PointLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PointLog
	for _, l := range f.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRewardsRepo) FindRedemptions(_ context.Context, limit, offset int) ([]model.RedemptionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redemptions, nil
}

// fakeUserRepo serves FindByID and the engagement snapshot; everything else
// is unused by the services under test.
type fakeUserRepo struct {
	users    map[uuid.UUID]*model.User
	snapshot []dto.EngagementRow
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User, profile *model.Profile) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	user, ok := f.users[uid]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.ErrUserNotFound
}

func (f *fakeUserRepo) FindRoleByName(_ context.Context, name string) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User, profile *model.Profile) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindAll(_ context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error { return nil }

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) SetPwaInstalled(_ context.Context, userID uuid.UUID, installed bool) error {
	if u, ok := f.users[userID]; ok {
		u.PwaInstalled = installed
	}
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, userID uuid.UUID) error { return nil }

func (f *fakeUserRepo) GetEngagementSnapshot(_ context.Context) ([]dto.EngagementRow, error) {
	return f.snapshot, nil
}

// fakeNotifier records notifications instead of touching Redis or the DB.
type fakeNotifier struct {
	sent []*model.Notification
}

func (f *fakeNotifier) CreateNotification(_ context.Context, n *model.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) GetNotifications(uuid.UUID, int, int) ([]model.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) MarkAsRead(uuid.UUID) error           { return nil }
func (f *fakeNotifier) MarkAllAsRead(uuid.UUID) error        { return nil }
func (f *fakeNotifier) UnreadCount(uuid.UUID) (int64, error) { return 0, nil }

func setupRewardsService(t *testing.T, startingBalance int) (RewardsService, *fakeRewardsRepo, *fakeUserRepo, *fakeNotifier, uuid.UUID) {
	t.Helper()

	repo := newFakeRewardsRepo()
	userRepo := newFakeUserRepo()
	notifier := &fakeNotifier{}

	userID := uuid.New()
	userRepo.users[userID] = &model.User{
		ID:            userID,
		Username:      "budi",
		Email:         "budi@example.com",
		PointsBalance: startingBalance,
	}
	repo.balances[userID] = startingBalance

	svc := NewRewardsService(repo, userRepo, nil, notifier)
	return svc, repo, userRepo, notifier, userID
}

func TestInteractAwardSchedule(t *testing.T) {
	tests := []struct {
		kind   string
		points int
	}{
		{model.InteractionWatch, 5},
		{model.InteractionLike, 5},
		{model.InteractionDislike, 5},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			svc, _, _, _, userID := setupRewardsService(t, 0)

			res, err := svc.Interact(context.Background(), userID, uuid.New(), tt.kind)
			if err != nil {
				t.Fatalf("Interact(%s) returned error: %v", tt.kind, err)
			}
			if !res.Rewarded {
				t.Errorf("Interact(%s) Rewarded = false, want true", tt.kind)
			}
			if res.Points != tt.points {
				t.Errorf("Interact(%s) Points = %d, want %d", tt.kind, res.Points, tt.points)
			}
			if res.Balance != tt.points {
				t.Errorf("Interact(%s) Balance = %d, want %d", tt.kind, res.Balance, tt.points)
			}
		})
	}
}

func TestInteractUnknownKind(t *testing.T) {
	svc, _, _, _, userID := setupRewardsService(t, 0)

	_, err := svc.Interact(context.Background(), userID, uuid.New(), "share")
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("Interact(share) error = %v, want ErrInvalidInput", err)
	}
}

func TestInteractAtMostOncePerPair(t *testing.T) {
	svc, _, _, _, userID := setupRewardsService(t, 0)
	contentID := uuid.New()

	first, err := svc.Interact(context.Background(), userID, contentID, model.InteractionWatch)
	if err != nil {
		t.Fatalf("first Interact returned error: %v", err)
	}
	if !first.Rewarded {
		t.Fatal("first Interact Rewarded = false, want true")
	}

	// A different kind on the same content still earns nothing.
	second, err := svc.Interact(context.Background(), userID, contentID, model.InteractionLike)
	if err != nil {
		t.Fatalf("second Interact returned error: %v", err)
	}
	if second.Rewarded {
		t.Error("second Interact Rewarded = true, want false")
	}
	if second.Points != 0 {
		t.Errorf("second Interact Points = %d, want 0", second.Points)
	}
	if second.Balance != 5 {
		t.Errorf("balance after repeat = %d, want 5", second.Balance)
	}
}

func TestInteractConcurrentSamePairAwardsOnce(t *testing.T) {
	svc, repo, _, _, userID := setupRewardsService(t, 0)
	contentID := uuid.New()

	const workers = 16
	rewarded := make([]bool, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Interact(context.Background(), userID, contentID, model.InteractionWatch)
			if err != nil {
				t.Errorf("Interact returned error: %v", err)
				return
			}
			rewarded[i] = res.Rewarded
		}(i)
	}
	wg.Wait()

	awards := 0
	for _, r := range rewarded {
		if r {
			awards++
		}
	}
	if awards != 1 {
		t.Errorf("rewarded %d of %d concurrent calls, want exactly 1", awards, workers)
	}
	if repo.balances[userID] != 5 {
		t.Errorf("balance after concurrent calls = %d, want 5", repo.balances[userID])
	}
}

func TestInteractDifferentContentAwardsAgain(t *testing.T) {
	svc, _, _, _, userID := setupRewardsService(t, 0)

	if _, err := svc.Interact(context.Background(), userID, uuid.New(), model.InteractionWatch); err != nil {
		t.Fatalf("first Interact returned error: %v", err)
	}
	res, err := svc.Interact(context.Background(), userID, uuid.New(), model.InteractionWatch)
	if err != nil {
		t.Fatalf("second Interact returned error: %v", err)
	}
	if !res.Rewarded || res.Balance != 10 {
		t.Errorf("second content: Rewarded=%v Balance=%d, want true/10", res.Rewarded, res.Balance)
	}
}

func TestFollowBonusGrantedOnce(t *testing.T) {
	svc, _, _, _, userID := setupRewardsService(t, 0)

	first, err := svc.Follow(context.Background(), userID)
	if err != nil {
		t.Fatalf("first Follow returned error: %v", err)
	}
	if !first.Rewarded || first.Points != 10 || first.Balance != 10 {
		t.Errorf("first Follow = %+v, want Rewarded=true Points=10 Balance=10", first)
	}

	second, err := svc.Follow(context.Background(), userID)
	if err != nil {
		t.Fatalf("second Follow returned error: %v", err)
	}
	if second.Rewarded {
		t.Error("second Follow Rewarded = true, want false")
	}
	if second.Balance != 10 {
		t.Errorf("balance after second Follow = %d, want 10", second.Balance)
	}
}

func TestRedeemBelowThreshold(t *testing.T) {
	svc, repo, _, notifier, userID := setupRewardsService(t, RedeemThreshold-1)

	_, err := svc.Redeem(context.Background(), userID, "dana:0812")
	if !errors.Is(err, apperror.ErrInsufficientBalance) {
		t.Fatalf("Redeem error = %v, want ErrInsufficientBalance", err)
	}
	if len(repo.redemptions) != 0 {
		t.Errorf("redemption records = %d, want 0", len(repo.redemptions))
	}
	if repo.balances[userID] != RedeemThreshold-1 {
		t.Errorf("balance changed on failed redeem: %d", repo.balances[userID])
	}
	if len(notifier.sent) != 0 {
		t.Errorf("notifications sent on failed redeem: %d", len(notifier.sent))
	}
}

func TestRedeemAtThreshold(t *testing.T) {
	svc, repo, _, notifier, userID := setupRewardsService(t, RedeemThreshold)

	res, err := svc.Redeem(context.Background(), userID, "gopay:0813")
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if res.PointsSpent != RedeemThreshold {
		t.Errorf("PointsSpent = %d, want %d", res.PointsSpent, RedeemThreshold)
	}
	if res.AmountPayable != RedeemPayout {
		t.Errorf("AmountPayable = %v, want %v", res.AmountPayable, RedeemPayout)
	}
	if res.Balance != 0 {
		t.Errorf("Balance = %d, want 0", res.Balance)
	}

	if len(repo.redemptions) != 1 {
		t.Fatalf("redemption records = %d, want 1", len(repo.redemptions))
	}
	record := repo.redemptions[0]
	if record.UserName != "budi" || record.UserEmail != "budi@example.com" {
		t.Errorf("record identity = %s/%s, want budi/budi@example.com", record.UserName, record.UserEmail)
	}
	if record.PayoutDestination != "gopay:0813" {
		t.Errorf("PayoutDestination = %s", record.PayoutDestination)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(notifier.sent))
	}
	if notifier.sent[0].Type != "redeem" {
		t.Errorf("notification type = %s, want redeem", notifier.sent[0].Type)
	}
}

func TestRedeemUnknownUser(t *testing.T) {
	svc, _, _, _, _ := setupRewardsService(t, 0)

	_, err := svc.Redeem(context.Background(), uuid.New(), "dana:0812")
	if !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("Redeem error = %v, want ErrUserNotFound", err)
	}
}

func TestGetBalance(t *testing.T) {
	svc, _, _, _, userID := setupRewardsService(t, 42)

	res, err := svc.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if res.Balance != 42 {
		t.Errorf("Balance = %d, want 42", res.Balance)
	}
	if res.HasFollowed {
		t.Error("HasFollowed = true, want false")
	}
}
