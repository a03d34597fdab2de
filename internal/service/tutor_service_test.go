package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"anara.com/bimbelpintar/internal/dto"
	"anara.com/bimbelpintar/internal/model"
	"anara.com/bimbelpintar/pkg/apperror"
	"github.com/google/uuid"
)

// fakeLLM answers with canned payloads instead of calling Gemini.
type fakeLLM struct {
	text       string
	structured string
	err        error
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func (f *fakeLLM) GenerateStructured(_ context.Context, _ string, output interface{}) error {
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.structured), output)
}

func (f *fakeLLM) Close() {}

type fakePracticeRepo struct {
	created []*model.PracticeTest
}

func (f *fakePracticeRepo) Create(_ context.Context, test *model.PracticeTest) error {
	f.created = append(f.created, test)
	return nil
}

func (f *fakePracticeRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.PracticeTest, error) {
	var out []model.PracticeTest
	for _, tst := range f.created {
		if tst.UserID == userID {
			out = append(out, *tst)
		}
	}
	return out, nil
}

func (f *fakePracticeRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	n, _ := f.FindByUserID(context.Background(), userID, 0, 0)
	return int64(len(n)), nil
}

func questionsJSON(n int) string {
	qs := make([]dto.PracticeQuestion, n)
	for i := range qs {
		qs[i] = dto.PracticeQuestion{
			Question: "Berapa hasil 2+2?",
			Options:  []string{"A. 3", "B. 4", "C. 5", "D. 6"},
			Answer:   "B",
		}
	}
	raw, _ := json.Marshal(map[string]any{"questions": qs})
	return string(raw)
}

func TestAskTutorSanitizesAnswer(t *testing.T) {
	llm := &fakeLLM{text: `Jawabannya 4.<script>alert("x")</script>`}
	svc := NewTutorService(llm, &fakePracticeRepo{})

	res, err := svc.AskTutor(context.Background(), dto.AskTutorInput{
		Subject:  "matematika",
		Question: "Berapa 2+2?",
	})
	if err != nil {
		t.Fatalf("AskTutor returned error: %v", err)
	}
	if strings.Contains(res.Answer, "<script>") {
		t.Errorf("answer still contains script tag: %q", res.Answer)
	}
	if !strings.Contains(res.Answer, "Jawabannya 4.") {
		t.Errorf("answer lost its content: %q", res.Answer)
	}
}

func TestAskTutorWithoutProvider(t *testing.T) {
	svc := NewTutorService(nil, &fakePracticeRepo{})

	_, err := svc.AskTutor(context.Background(), dto.AskTutorInput{Subject: "fisika", Question: "Apa itu gaya?"})
	if !errors.Is(err, apperror.ErrInternal) {
		t.Fatalf("AskTutor error = %v, want ErrInternal", err)
	}
}

func TestGeneratePracticeTest(t *testing.T) {
	tests := []struct {
		name       string
		structured string
		llmErr     error
		count      int
		wantErr    bool
	}{
		{"valid test", questionsJSON(5), nil, 5, false},
		{"wrong question count", questionsJSON(3), nil, 5, true},
		{"no questions", `{"questions": []}`, nil, 5, true},
		{"missing options", `{"questions": [{"question": "q", "options": ["A"], "answer": "A"}]}`, nil, 1, true},
		{"transport failure", "", errors.New("timeout"), 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePracticeRepo{}
			svc := NewTutorService(&fakeLLM{structured: tt.structured, err: tt.llmErr}, repo)

			userID := uuid.New()
			test, err := svc.GeneratePracticeTest(context.Background(), userID, dto.GeneratePracticeTestInput{
				Subject:       "matematika",
				Topic:         "pecahan",
				QuestionCount: tt.count,
			})

			if tt.wantErr {
				if !errors.Is(err, apperror.ErrOracle) {
					t.Fatalf("GeneratePracticeTest error = %v, want ErrOracle", err)
				}
				if len(repo.created) != 0 {
					t.Error("invalid test was stored")
				}
				return
			}

			if err != nil {
				t.Fatalf("GeneratePracticeTest returned error: %v", err)
			}
			if test.UserID != userID || test.Subject != "matematika" || test.Topic != "pecahan" {
				t.Errorf("stored test = %+v", test)
			}

			var stored []dto.PracticeQuestion
			if err := json.Unmarshal([]byte(test.Questions), &stored); err != nil {
				t.Fatalf("stored questions are not valid JSON: %v", err)
			}
			if len(stored) != tt.count {
				t.Errorf("stored %d questions, want %d", len(stored), tt.count)
			}
		})
	}
}
