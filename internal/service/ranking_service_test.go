package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/pkg/apperror"
)

type fakeOracle struct {
	ids []string
	err error
}

func (f *fakeOracle) RankTop(_ context.Context, _ []dto.EngagementRow, _ int) ([]string, error) {
	return f.ids, f.err
}

func makeSnapshot(n int) []dto.EngagementRow {
	rows := make([]dto.EngagementRow, n)
	for i := range rows {
		rows[i] = dto.EngagementRow{
			UID:           fmt.Sprintf("user-%02d", i),
			DisplayName:   fmt.Sprintf("siswa%02d", i),
			PointsBalance: i * 10,
		}
	}
	return rows
}

func TestRankTopPadsSmallSnapshot(t *testing.T) {
	svc := NewRankingService(newFakeUserRepo(), nil)

	snapshot := makeSnapshot(7)
	ids, err := svc.RankTop(context.Background(), snapshot, 10)
	if err != nil {
		t.Fatalf("RankTop returned error: %v", err)
	}

	if len(ids) != 10 {
		t.Fatalf("len(ids) = %d, want 10", len(ids))
	}
	// Input order preserved, then empty padding.
	for i := 0; i < 7; i++ {
		if ids[i] != snapshot[i].UID {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], snapshot[i].UID)
		}
	}
	for i := 7; i < 10; i++ {
		if ids[i] != "" {
			t.Errorf("ids[%d] = %q, want empty padding", i, ids[i])
		}
	}
}

func TestRankTopExactSizeSkipsOracle(t *testing.T) {
	// Oracle would fail loudly; with exactly n rows it must not be called.
	oracle := &fakeOracle{err: errors.New("should not be called")}
	svc := NewRankingService(newFakeUserRepo(), oracle)

	snapshot := makeSnapshot(10)
	ids, err := svc.RankTop(context.Background(), snapshot, 10)
	if err != nil {
		t.Fatalf("RankTop returned error: %v", err)
	}
	for i, row := range snapshot {
		if ids[i] != row.UID {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], row.UID)
		}
	}
}

func TestRankTopOracle(t *testing.T) {
	snapshot := makeSnapshot(15)

	valid := make([]string, 10)
	for i := range valid {
		valid[i] = snapshot[14-i].UID
	}

	withDuplicate := append([]string{}, valid...)
	withDuplicate[9] = withDuplicate[0]

	withUnknown := append([]string{}, valid...)
	withUnknown[9] = "user-99"

	tests := []struct {
		name    string
		oracle  *fakeOracle
		wantErr bool
	}{
		{"valid ranking", &fakeOracle{ids: valid}, false},
		{"transport failure", &fakeOracle{err: errors.New("timeout")}, true},
		{"too few ids", &fakeOracle{ids: valid[:9]}, true},
		{"duplicate id", &fakeOracle{ids: withDuplicate}, true},
		{"unknown id", &fakeOracle{ids: withUnknown}, true},
		{"empty id", &fakeOracle{ids: append(append([]string{}, valid[:9]...), "")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRankingService(newFakeUserRepo(), tt.oracle)

			ids, err := svc.RankTop(context.Background(), snapshot, 10)
			if tt.wantErr {
				if !errors.Is(err, apperror.ErrOracle) {
					t.Fatalf("RankTop error = %v, want ErrOracle", err)
				}
				if ids != nil {
					t.Error("RankTop returned partial ranking alongside error")
				}
				return
			}
			if err != nil {
				t.Fatalf("RankTop returned error: %v", err)
			}
			if len(ids) != 10 {
				t.Fatalf("len(ids) = %d, want 10", len(ids))
			}
			if ids[0] != "user-14" {
				t.Errorf("ids[0] = %q, want user-14", ids[0])
			}
		})
	}
}

func TestRankTopDeterministicFallback(t *testing.T) {
	// No oracle configured: the weighted scorer decides.
	svc := NewRankingService(newFakeUserRepo(), nil)

	now := time.Now()
	snapshot := []dto.EngagementRow{
		{UID: "low", PointsBalance: 10},
		{UID: "courses", PointsBalance: 10, CoursesCompleted: 3},
		{UID: "rich", PointsBalance: 500},
		{UID: "tests", PointsBalance: 10, TestsTaken: 2},
		{UID: "recent", PointsBalance: 10, LastLoginAt: &now},
		{UID: "idle-a", PointsBalance: 5},
		{UID: "idle-b", PointsBalance: 5},
		{UID: "idle-c", PointsBalance: 5},
		{UID: "idle-d", PointsBalance: 5},
		{UID: "idle-e", PointsBalance: 5},
		{UID: "idle-f", PointsBalance: 5},
	}

	ids, err := svc.RankTop(context.Background(), snapshot, 10)
	if err != nil {
		t.Fatalf("RankTop returned error: %v", err)
	}

	if ids[0] != "rich" {
		t.Errorf("ids[0] = %q, want rich (points dominate)", ids[0])
	}
	if ids[1] != "courses" {
		t.Errorf("ids[1] = %q, want courses", ids[1])
	}
	if ids[2] != "tests" {
		t.Errorf("ids[2] = %q, want tests", ids[2])
	}
	if ids[3] != "recent" {
		t.Errorf("ids[3] = %q, want recent", ids[3])
	}

	// Equal scores break ties by UID so the ranking is stable.
	if ids[5] != "idle-a" || ids[6] != "idle-b" {
		t.Errorf("tie-break order = %v", ids[5:])
	}
}

func TestGetLeaderboardPadsEntries(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.snapshot = []dto.EngagementRow{
		{UID: "a", DisplayName: "ani", PointsBalance: 30},
		{UID: "b", DisplayName: "budi", PointsBalance: 20},
		{UID: "c", DisplayName: "cici", PointsBalance: 10},
	}

	svc := NewRankingService(userRepo, nil)

	entries, err := svc.GetLeaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetLeaderboard returned error: %v", err)
	}

	if len(entries) != 10 {
		t.Fatalf("len(entries) = %d, want 10", len(entries))
	}
	if entries[0].Position != 1 || entries[0].UserID != "a" || entries[0].Username != "ani" || entries[0].Points != 30 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	for i := 3; i < 10; i++ {
		if entries[i].UserID != "" {
			t.Errorf("entries[%d].UserID = %q, want empty slot", i, entries[i].UserID)
		}
		if entries[i].Position != i+1 {
			t.Errorf("entries[%d].Position = %d, want %d", i, entries[i].Position, i+1)
		}
	}
}
