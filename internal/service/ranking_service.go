package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"anara.com/bimbelpintar/internal/ai"
	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
)

const DefaultLeaderboardSize = 10

// RankingOracle proposes a best-to-worst ordering for an engagement
// snapshot. Implemented by the Gemini-backed oracle; tests swap in fakes.
type RankingOracle interface {
	RankTop(ctx context.Context, snapshot []dto.EngagementRow, n int) ([]string, error)
}

type RankingService interface {
	// RankTop returns exactly n slots. Small snapshots come back in input
	// order, right-padded with empty strings; larger pools are ranked by
	// the oracle (or the deterministic scorer when none is configured).
	RankTop(ctx context.Context, snapshot []dto.EngagementRow, n int) ([]string, error)
	GetLeaderboard(ctx context.Context, n int) ([]dto.LeaderboardEntry, error)
}

type rankingService struct {
	userRepo repository.UserRepository
	oracle   RankingOracle
}

func NewRankingService(userRepo repository.UserRepository, oracle RankingOracle) RankingService {
	return &rankingService{
		userRepo: userRepo,
		oracle:   oracle,
	}
}

func (s *rankingService) RankTop(ctx context.Context, snapshot []dto.EngagementRow, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}

	if len(snapshot) <= n {
		// Fixed-width contract: pad with empty slots.
		ids := make([]string, 0, n)
		for _, row := range snapshot {
			ids = append(ids, row.UID)
		}
		for len(ids) < n {
			ids = append(ids, "")
		}
		return ids, nil
	}

	if s.oracle != nil {
		ids, err := s.oracle.RankTop(ctx, snapshot, n)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrOracle, err)
		}
		if err := validateRanking(ids, snapshot, n); err != nil {
			return nil, err
		}
		return ids, nil
	}

	return scoreAndRank(snapshot, n), nil
}

// validateRanking rejects malformed oracle output: wrong length, repeated
// ids, or ids not present in the snapshot. No partial ranking survives.
func validateRanking(ids []string, snapshot []dto.EngagementRow, n int) error {
	if len(ids) != n {
		return fmt.Errorf("%w: expected %d ids, got %d", apperror.ErrOracle, n, len(ids))
	}

	known := make(map[string]bool, len(snapshot))
	for _, row := range snapshot {
		known[row.UID] = true
	}

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: empty id in ranking", apperror.ErrOracle)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s in ranking", apperror.ErrOracle, id)
		}
		if !known[id] {
			return fmt.Errorf("%w: unknown id %s in ranking", apperror.ErrOracle, id)
		}
		seen[id] = true
	}
	return nil
}

// Deterministic scorer weights. Points balance dominates, then courses
// completed, tests taken and login recency.
const (
	weightCourseCompleted = 50
	weightTestTaken       = 20
	recencyBonusMax       = 30
)

func engagementScore(row dto.EngagementRow, now time.Time) int {
	score := row.PointsBalance
	score += row.CoursesCompleted * weightCourseCompleted
	score += row.TestsTaken * weightTestTaken
	if row.LastLoginAt != nil {
		days := int(now.Sub(*row.LastLoginAt).Hours() / 24)
		if bonus := recencyBonusMax - days; bonus > 0 {
			score += bonus
		}
	}
	return score
}

func scoreAndRank(snapshot []dto.EngagementRow, n int) []string {
	now := time.Now()
	ranked := make([]dto.EngagementRow, len(snapshot))
	copy(ranked, snapshot)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := engagementScore(ranked[i], now), engagementScore(ranked[j], now)
		if si != sj {
			return si > sj
		}
		if ranked[i].PointsBalance != ranked[j].PointsBalance {
			return ranked[i].PointsBalance > ranked[j].PointsBalance
		}
		return ranked[i].UID < ranked[j].UID
	})

	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = ranked[i].UID
	}
	return ids
}

func (s *rankingService) GetLeaderboard(ctx context.Context, n int) ([]dto.LeaderboardEntry, error) {
	snapshot, err := s.userRepo.GetEngagementSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.RankTop(ctx, snapshot, n)
	if err != nil {
		return nil, err
	}

	byUID := make(map[string]dto.EngagementRow, len(snapshot))
	for _, row := range snapshot {
		byUID[row.UID] = row
	}

	entries := make([]dto.LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		entry := dto.LeaderboardEntry{Position: i + 1, UserID: id}
		if row, ok := byUID[id]; ok {
			entry.Username = row.DisplayName
			entry.Points = row.PointsBalance
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// geminiOracle delegates ranking to the LLM with a weighted rubric and a
// JSON snapshot, requesting structured JSON back.
type geminiOracle struct {
	provider ai.LLMProvider
	timeout  time.Duration
}

func NewGeminiOracle(provider ai.LLMProvider, timeout time.Duration) RankingOracle {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &geminiOracle{provider: provider, timeout: timeout}
}

func (o *geminiOracle) RankTop(ctx context.Context, snapshot []dto.EngagementRow, n int) ([]string, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`
Kamu adalah sistem pemeringkat siswa untuk platform bimbingan belajar.
Berikut data engagement semua siswa dalam format JSON:

%s

Tentukan %d siswa terbaik, urut dari yang paling aktif.
Kriteria penilaian (urutan prioritas):
1. points_balance (paling penting)
2. courses_completed
3. tests_taken
4. last_login_at yang paling baru

Outputnya HARUS format JSON: {"ranking": ["uid1", "uid2", ...]}
Field "ranking" berisi tepat %d uid yang berbeda, diambil dari data di atas.
`, string(payload), n, n)

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var result struct {
		Ranking []string `json:"ranking"`
	}
	if err := o.provider.GenerateStructured(ctx, prompt, &result); err != nil {
		return nil, err
	}

	return result.Ranking, nil
}
