package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ParseTimeout is the timeout for Gemini API calls.
const ParseTimeout = 30 * time.Second

// ErrParseTimeout indicates the Gemini API call timed out.
var ErrParseTimeout = errors.New("grocery parsing timed out")

// ErrNoItems indicates no usable items could be extracted.
var ErrNoItems = errors.New("no items extracted")

// DefaultCategories is the list of ingredient categories to classify into.
var DefaultCategories = []string{
	"Vegetables",
	"Fruits",
	"Meat & Seafood",
	"Dairy & Eggs",
	"Grains & Noodles",
	"Sauces & Condiments",
	"Snacks",
	"Beverages",
	"Frozen",
	"Others",
}

// GroceryItem is one ingredient extracted from a label photo or a grocery
// list message. Expiry is whatever date text Gemini found, passed through to
// the same parser that handles typed input.
type GroceryItem struct {
	Name       string  `json:"name"`
	Quantity   string  `json:"quantity"`
	Category   string  `json:"category"`
	Expiry     string  `json:"expiry"`
	Confidence float64 `json:"confidence"`
}

type groceryResponse struct {
	Items []GroceryItem `json:"items"`
}

// ParseLabel extracts product name and expiry date from a food label photo.
func (c *Client) ParseLabel(ctx context.Context, imageBytes []byte, mimeType string) ([]GroceryItem, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("image data is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageBytes}},
				{Text: buildLabelPrompt(DefaultCategories)},
			},
		},
	}, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrParseTimeout
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return itemsFromResponse(resp)
}

// ParseGroceryList extracts ingredients from a free-text grocery message,
// Thai or English, one or many items.
func (c *Client) ParseGroceryList(ctx context.Context, text string) ([]GroceryItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, ParseTimeout)
	defer cancel()

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: buildGroceryListPrompt(DefaultCategories)},
				{Text: text},
			},
		},
	}, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrParseTimeout
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return itemsFromResponse(resp)
}

func buildLabelPrompt(categories []string) string {
	return fmt.Sprintf(`Read this food product label and extract the items on it.
Return ONLY a JSON object with no additional text or markdown formatting.

Format:
{"items": [{"name": "...", "quantity": "...", "category": "...", "expiry": "...", "confidence": 0.95}]}

Rules:
- name: the product name, keep the original language
- quantity: package size if printed (e.g. "1 L", "500 g"), else ""
- category: one of: %s
- expiry: the expiry or best-before date exactly as printed, else ""
- confidence: 0.0 to 1.0`, strings.Join(categories, ", "))
}

func buildGroceryListPrompt(categories []string) string {
	return fmt.Sprintf(`Extract grocery items from the user's message. The message may be
in Thai or English and may contain several items.
Return ONLY a JSON object with no additional text or markdown formatting.

Format:
{"items": [{"name": "...", "quantity": "...", "category": "...", "expiry": "...", "confidence": 0.95}]}

Rules:
- name: the ingredient name, keep the original language
- quantity: amount if mentioned, else ""
- category: one of: %s
- expiry: any expiry date mentioned, exactly as written, else ""
- confidence: 0.0 to 1.0`, strings.Join(categories, ", "))
}

func itemsFromResponse(resp *genai.GenerateContentResponse) ([]GroceryItem, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from Gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			textContent += part.Text
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	items, err := parseGroceryResponse(textContent)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}

func parseGroceryResponse(response string) ([]GroceryItem, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var gr groceryResponse
	if err := json.Unmarshal([]byte(response), &gr); err != nil {
		return nil, fmt.Errorf("failed to parse grocery response: %w", err)
	}

	// Drop entries Gemini returned with no name at all.
	items := gr.Items[:0]
	for _, item := range gr.Items {
		if strings.TrimSpace(item.Name) != "" {
			items = append(items, item)
		}
	}
	return items, nil
}
