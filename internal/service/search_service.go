package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"anara.com/bimbelpintar/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexCourse(course *model.Course) error
	IndexEbook(ebook *model.Ebook) error
	DeleteCourse(id string) error
	DeleteEbook(id string) error
	GenerateSearchToken(userRole string) (string, error)
}

type meiliSearchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &meiliSearchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *meiliSearchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{
		Limit: 20,
	})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"courses", "ebooks"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

func (s *meiliSearchService) initIndexes() {
	// Courses index
	filterableAttrs := []string{"subject", "level", "is_free"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index("courses").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update courses filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "price"}
	_, err = s.client.Index("courses").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update courses sortable attributes: %v", err)
	}

	// Ebooks index
	ebookFilterable := []string{"subject"}
	ebookFilterableInterface := make([]any, len(ebookFilterable))
	for i, v := range ebookFilterable {
		ebookFilterableInterface[i] = v
	}
	_, err = s.client.Index("ebooks").UpdateFilterableAttributes(&ebookFilterableInterface)
	if err != nil {
		log.Printf("Failed to update ebooks filterable attributes: %v", err)
	}

	ebookSortable := []string{"created_at"}
	_, err = s.client.Index("ebooks").UpdateSortableAttributes(&ebookSortable)
	if err != nil {
		log.Printf("Failed to update ebooks sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliCourseDoc struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Slug         string `json:"slug"`
	Subject      string `json:"subject"`
	Level        string `json:"level"`
	Price        int    `json:"price"`
	IsFree       bool   `json:"is_free"`
	ThumbnailURL string `json:"thumbnail_url"`
	CreatedAt    int64  `json:"created_at"`
}

type meiliEbookDoc struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Subject   string `json:"subject"`
	CoverURL  string `json:"cover_url"`
	CreatedAt int64  `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)

	cleanText := html.UnescapeString(sanitized)

	cleanText = strings.Join(strings.Fields(cleanText), " ")

	return cleanText
}

func (s *meiliSearchService) IndexCourse(course *model.Course) error {
	doc := meiliCourseDoc{
		ID:           course.ID.String(),
		Title:        course.Title,
		Description:  s.cleanContentForIndex(course.Description),
		Slug:         course.Slug,
		Subject:      course.Subject,
		Level:        course.Level,
		Price:        course.Price,
		IsFree:       course.IsFree,
		ThumbnailURL: getStringOrEmpty(course.ThumbnailURL),
		CreatedAt:    course.CreatedAt.Unix(),
	}

	task, err := s.client.Index("courses").AddDocuments([]meiliCourseDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed course %s, task id: %d", course.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexEbook(ebook *model.Ebook) error {
	doc := meiliEbookDoc{
		ID:        ebook.ID.String(),
		Title:     ebook.Title,
		Author:    ebook.Author,
		Subject:   ebook.Subject,
		CoverURL:  getStringOrEmpty(ebook.CoverURL),
		CreatedAt: ebook.CreatedAt.Unix(),
	}

	task, err := s.client.Index("ebooks").AddDocuments([]meiliEbookDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed ebook %s, task id: %d", ebook.ID, task.TaskUID)
	return nil
}

func getStringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *meiliSearchService) DeleteCourse(id string) error {
	_, err := s.client.Index("courses").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) DeleteEbook(id string) error {
	_, err := s.client.Index("ebooks").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	// The catalog is readable by every role; the tenant token only scopes
	// which indexes are reachable.
	searchRules := map[string]any{
		"courses": map[string]any{"filter": nil},
		"ebooks":  map[string]any{"filter": nil},
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
