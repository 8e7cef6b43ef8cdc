package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"invoicescan/internal/records"
)

// Gemini implements the Extractor interface using Google Gemini.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini Extractor.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ExtractRecords submits the document image and the fixed instruction
// prompt in a single request and parses the model's answer.
func (g *Gemini) ExtractRecords(imageData []byte) (*records.Set, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// The rasterizer always hands over PNG, and genai.ImageData wants the
	// bare format suffix rather than a full MIME type.
	parts := []genai.Part{
		genai.ImageData("png", imageData),
		genai.Text(extractionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("%w: generating content: %v", ErrExtractionFailed, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from gemini", ErrExtractionFailed)
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	return ParseRecords(responseText.String())
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
