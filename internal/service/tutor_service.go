package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"anara.com/bimbelpintar/internal/ai"
	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/internal/repository"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type TutorService interface {
	// AskTutor answers a free-form subject question with the LLM.
	AskTutor(ctx context.Context, input dto.AskTutorInput) (*dto.AskTutorResponse, error)
	// GeneratePracticeTest asks the LLM for a multiple-choice test, validates
	// the structure and stores it for the user.
	GeneratePracticeTest(ctx context.Context, userID uuid.UUID, input dto.GeneratePracticeTestInput) (*model.PracticeTest, error)
	GetPracticeTests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PracticeTest, error)
}

type tutorService struct {
	llm          ai.LLMProvider
	practiceRepo repository.PracticeTestRepository
	sanitizer    *bluemonday.Policy
}

func NewTutorService(llm ai.LLMProvider, practiceRepo repository.PracticeTestRepository) TutorService {
	return &tutorService{
		llm:          llm,
		practiceRepo: practiceRepo,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *tutorService) AskTutor(ctx context.Context, input dto.AskTutorInput) (*dto.AskTutorResponse, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: tutor AI is not configured", apperror.ErrInternal)
	}

	prompt := fmt.Sprintf(`
Kamu adalah tutor %s untuk siswa bimbingan belajar di Indonesia.
Jawab pertanyaan berikut dengan jelas dan singkat, pakai bahasa yang mudah dipahami siswa.
Kalau pertanyaannya di luar pelajaran %s, arahkan siswa kembali ke topik pelajaran.

Pertanyaan: %s
`, input.Subject, input.Subject, input.Question)

	answer, err := s.llm.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &dto.AskTutorResponse{
		Answer: s.sanitizer.Sanitize(answer),
	}, nil
}

func (s *tutorService) GeneratePracticeTest(ctx context.Context, userID uuid.UUID, input dto.GeneratePracticeTestInput) (*model.PracticeTest, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: tutor AI is not configured", apperror.ErrInternal)
	}

	count := input.QuestionCount
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(`
Buatkan %d soal pilihan ganda pelajaran %s topik "%s" untuk siswa bimbingan belajar.
Outputnya HARUS format JSON: {"questions": [{"question": "...", "options": ["A. ...", "B. ...", "C. ...", "D. ..."], "answer": "A"}]}
Setiap soal punya tepat 4 pilihan dan field "answer" berisi huruf jawaban yang benar.
`, count, input.Subject, input.Topic)

	var result struct {
		Questions []dto.PracticeQuestion `json:"questions"`
	}
	if err := s.llm.GenerateStructured(ctx, prompt, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrOracle, err)
	}

	if err := validateQuestions(result.Questions, count); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result.Questions)
	if err != nil {
		return nil, err
	}

	test := &model.PracticeTest{
		UserID:    userID,
		Subject:   input.Subject,
		Topic:     input.Topic,
		Questions: string(raw),
	}
	if err := s.practiceRepo.Create(ctx, test); err != nil {
		return nil, err
	}

	return test, nil
}

func validateQuestions(questions []dto.PracticeQuestion, want int) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: model returned no questions", apperror.ErrOracle)
	}
	if len(questions) != want {
		return fmt.Errorf("%w: expected %d questions, got %d", apperror.ErrOracle, want, len(questions))
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d is empty", apperror.ErrOracle, i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("%w: question %d has %d options", apperror.ErrOracle, i+1, len(q.Options))
		}
		if strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("%w: question %d has no answer", apperror.ErrOracle, i+1)
		}
	}

	return nil
}

func (s *tutorService) GetPracticeTests(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.PracticeTest, error) {
	return s.practiceRepo.FindByUserID(ctx, userID, limit, offset)
}
