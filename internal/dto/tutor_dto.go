package dto

type AskTutorInput struct {
	Subject  string `json:"subject" binding:"required,max=50"`
	Question string `json:"question" binding:"required,min=5"`
}

type AskTutorResponse struct {
	Answer string `json:"answer"`
}

type GeneratePracticeTestInput struct {
	Subject       string `json:"subject" binding:"required,max=50"`
	Topic         string `json:"topic" binding:"required,max=100"`
	QuestionCount int    `json:"question_count" binding:"min=1,max=20"`
}

type PracticeQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
