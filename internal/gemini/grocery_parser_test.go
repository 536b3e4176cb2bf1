package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error
}

func (m *mockGenerator) GenerateContent(
	_ context.Context,
	_ string,
	_ []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return m.response, m.err
}

func makeItemsResponse(jsonText string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{
						{Text: jsonText},
					},
				},
			},
		},
	}
}

func TestParseGroceryResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     []GroceryItem
		wantErr  bool
	}{
		{
			name:     "single item",
			response: `{"items": [{"name": "นมสด", "quantity": "1 L", "category": "Dairy & Eggs", "expiry": "9 ส.ค. 2568", "confidence": 0.95}]}`,
			want: []GroceryItem{
				{Name: "นมสด", Quantity: "1 L", Category: "Dairy & Eggs", Expiry: "9 ส.ค. 2568", Confidence: 0.95},
			},
		},
		{
			name:     "multiple items",
			response: `{"items": [{"name": "eggs", "quantity": "12"}, {"name": "rice", "quantity": "5 kg"}]}`,
			want: []GroceryItem{
				{Name: "eggs", Quantity: "12"},
				{Name: "rice", Quantity: "5 kg"},
			},
		},
		{
			name:     "markdown code fences stripped",
			response: "```json\n{\"items\": [{\"name\": \"tofu\"}]}\n```",
			want:     []GroceryItem{{Name: "tofu"}},
		},
		{
			name:     "nameless entries dropped",
			response: `{"items": [{"name": "  "}, {"name": "garlic"}]}`,
			want:     []GroceryItem{{Name: "garlic"}},
		},
		{
			name:     "empty items list",
			response: `{"items": []}`,
			want:     nil,
		},
		{
			name:     "invalid json",
			response: `not json at all`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseGroceryResponse(tt.response)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.want), len(got))
			for i := range tt.want {
				require.Equal(t, tt.want[i].Name, got[i].Name)
				require.Equal(t, tt.want[i].Quantity, got[i].Quantity)
				require.Equal(t, tt.want[i].Category, got[i].Category)
				require.Equal(t, tt.want[i].Expiry, got[i].Expiry)
			}
		})
	}
}

func TestParseGroceryList(t *testing.T) {
	t.Parallel()

	t.Run("successful response", func(t *testing.T) {
		t.Parallel()
		mock := &mockGenerator{
			response: makeItemsResponse(`{"items": [{"name": "ไข่ไก่", "quantity": "10 ฟอง", "category": "Dairy & Eggs", "confidence": 0.9}]}`),
		}
		client := NewClientWithGenerator(mock)

		items, err := client.ParseGroceryList(context.Background(), "ซื้อไข่ไก่ 10 ฟอง")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "ไข่ไก่", items[0].Name)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{})

		_, err := client.ParseGroceryList(context.Background(), "   ")
		require.Error(t, err)
	})

	t.Run("API error surfaces", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{err: errors.New("quota exceeded")})

		_, err := client.ParseGroceryList(context.Background(), "milk")
		require.Error(t, err)
	})

	t.Run("no items returns ErrNoItems", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{
			response: makeItemsResponse(`{"items": []}`),
		})

		_, err := client.ParseGroceryList(context.Background(), "hello")
		require.ErrorIs(t, err, ErrNoItems)
	})

	t.Run("empty candidates errors", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{
			response: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{}},
		})

		_, err := client.ParseGroceryList(context.Background(), "milk")
		require.Error(t, err)
	})
}

func TestParseLabel(t *testing.T) {
	t.Parallel()

	t.Run("successful response", func(t *testing.T) {
		t.Parallel()
		mock := &mockGenerator{
			response: makeItemsResponse(`{"items": [{"name": "Meiji Milk", "quantity": "2 L", "category": "Dairy & Eggs", "expiry": "15/09/2025", "confidence": 0.97}]}`),
		}
		client := NewClientWithGenerator(mock)

		items, err := client.ParseLabel(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "15/09/2025", items[0].Expiry)
	})

	t.Run("empty image rejected", func(t *testing.T) {
		t.Parallel()
		client := NewClientWithGenerator(&mockGenerator{})

		_, err := client.ParseLabel(context.Background(), nil, "image/jpeg")
		require.Error(t, err)
	})
}

func TestBuildPrompts(t *testing.T) {
	t.Parallel()

	categories := []string{"Vegetables", "Frozen"}

	label := buildLabelPrompt(categories)
	require.Contains(t, label, "Vegetables")
	require.Contains(t, label, "expiry")
	require.Contains(t, label, "JSON")

	list := buildGroceryListPrompt(categories)
	require.Contains(t, list, "Frozen")
	require.Contains(t, list, "Thai")
}
