package ai

import (
	"context"
	"sync"
	"testing"
)

func TestStructuredAndTextCallsShareNoModelState(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	provider, err := NewGeminiProvider(context.Background(), "")
	if err != nil {
		t.Fatalf("NewGeminiProvider returned error: %v", err)
	}
	defer provider.Close()

	// A canceled context keeps the calls local; the errors are expected.
	// What matters is that structured and free-form calls running at the
	// same time never touch each other's generation config.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out struct{}
			_ = provider.GenerateStructured(ctx, "ping", &out)
			_, _ = provider.GenerateText(ctx, "ping")
		}()
	}
	wg.Wait()

	if provider.model.ResponseMIMEType != "" {
		t.Errorf("text model MIME = %q, want unset", provider.model.ResponseMIMEType)
	}
	if provider.jsonModel.ResponseMIMEType != "application/json" {
		t.Errorf("json model MIME = %q, want application/json", provider.jsonModel.ResponseMIMEType)
	}
}
