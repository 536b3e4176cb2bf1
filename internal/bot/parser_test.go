package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIngredientInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    string
		want    IngredientInput
		wantErr error
	}{
		{
			name: "name only",
			args: "นมสด",
			want: IngredientInput{Name: "นมสด"},
		},
		{
			name: "name and quantity",
			args: "ไข่ไก่, 10 ฟอง",
			want: IngredientInput{Name: "ไข่ไก่", Quantity: "10 ฟอง"},
		},
		{
			name: "name quantity and expiry",
			args: "นมสด, 1 ลิตร, 9 ส.ค. 2568",
			want: IngredientInput{Name: "นมสด", Quantity: "1 ลิตร", ExpiryRaw: "9 ส.ค. 2568"},
		},
		{
			name: "name with spaces",
			args: "extra virgin olive oil, 1 bottle",
			want: IngredientInput{Name: "extra virgin olive oil", Quantity: "1 bottle"},
		},
		{
			name: "no expiry marker",
			args: "เกลือ, 1 กก., -",
			want: IngredientInput{Name: "เกลือ", Quantity: "1 กก.", ExpiryRaw: "-"},
		},
		{
			name: "whitespace trimmed",
			args: "  milk ,  2 L ,  01/09/2025  ",
			want: IngredientInput{Name: "milk", Quantity: "2 L", ExpiryRaw: "01/09/2025"},
		},
		{
			name:    "empty input",
			args:    "",
			wantErr: ErrEmptyName,
		},
		{
			name:    "only separators",
			args:    " , , ",
			wantErr: ErrEmptyName,
		},
		{
			name:    "name too long",
			args:    strings.Repeat("x", 61),
			wantErr: ErrNameTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseIngredientInput(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		cmd  string
		want string
	}{
		{"plain", "/add milk", "/add", "milk"},
		{"no args", "/add", "/add", ""},
		{"bot mention", "/add@pantrybot milk", "/add", "milk"},
		{"bot mention no args", "/add@pantrybot", "/add", ""},
		{"extra spaces", "/add   milk  ", "/add", "milk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, extractCommandArgs(tt.text, tt.cmd))
		})
	}
}
