package bot

import (
	"errors"
	"strings"

	"gitlab.com/napatw/pantry-bot/internal/models"
)

// ErrEmptyName indicates the ingredient input had no name.
var ErrEmptyName = errors.New("ingredient name is required")

// ErrNameTooLong indicates the ingredient name exceeds the limit.
var ErrNameTooLong = errors.New("ingredient name is too long")

// IngredientInput is the parsed form of an /add argument string.
type IngredientInput struct {
	Name      string
	Quantity  string
	ExpiryRaw string
}

// ParseIngredientInput parses comma separated /add arguments:
// "name", "name, quantity" or "name, quantity, expiry". Thai ingredient
// names routinely contain spaces, so commas are the only separator.
func ParseIngredientInput(args string) (IngredientInput, error) {
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	input := IngredientInput{Name: parts[0]}
	if len(parts) > 1 {
		input.Quantity = parts[1]
	}
	if len(parts) > 2 {
		// Expiry may itself contain commas in odd formats; rejoin the tail.
		input.ExpiryRaw = strings.TrimSpace(strings.Join(parts[2:], ", "))
	}

	if input.Name == "" {
		return IngredientInput{}, ErrEmptyName
	}
	if len([]rune(input.Name)) > models.MaxIngredientNameLength {
		return IngredientInput{}, ErrNameTooLong
	}
	return input, nil
}

// extractCommandArgs strips the /command prefix (and optional @botname suffix)
// from a message and returns the remaining trimmed arguments.
func extractCommandArgs(text, command string) string {
	args := strings.TrimSpace(strings.TrimPrefix(text, command))
	if strings.HasPrefix(args, "@") {
		if spaceIdx := strings.Index(args, " "); spaceIdx != -1 {
			args = strings.TrimSpace(args[spaceIdx:])
		} else {
			args = ""
		}
	}
	return args
}
