package promptpay

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantTag string
		wantVal string
		wantErr bool
	}{
		{
			name:    "13-digit national ID",
			input:   "1234567890123",
			wantTag: TagNationalID,
			wantVal: "1234567890123",
		},
		{
			name:    "national ID with separators",
			input:   "1-2345-67890-12-3",
			wantTag: TagNationalID,
			wantVal: "1234567890123",
		},
		{
			name:    "local phone with leading zero",
			input:   "0812345678",
			wantTag: TagPhone,
			wantVal: "0066812345678",
		},
		{
			name:    "nine-digit phone without leading zero",
			input:   "812345678",
			wantTag: TagPhone,
			wantVal: "0066812345678",
		},
		{
			name:    "phone with country code",
			input:   "66812345678",
			wantTag: TagPhone,
			wantVal: "0066812345678",
		},
		{
			name:    "phone already international",
			input:   "0066812345678",
			wantTag: TagPhone,
			wantVal: "0066812345678",
		},
		{
			name:    "phone with dashes",
			input:   "081-234-5678",
			wantTag: TagPhone,
			wantVal: "0066812345678",
		},
		{
			name:    "letters only",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
		{
			name:    "too short to be anything",
			input:   "12345",
			wantErr: true,
		},
		{
			name:    "ten digits not starting with zero",
			input:   "8123456789",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := Normalize(tt.input)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidID)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantTag, id.Tag)
			require.Equal(t, tt.wantVal, id.Value)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"0812345678", "66812345678", "1234567890123"} {
		first, err := Normalize(input)
		require.NoError(t, err)

		second, err := Normalize(first.Value)
		require.NoError(t, err)
		require.Equal(t, first, second, "normalizing %q twice should be stable", input)
	}
}

func TestChecksum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  uint16
	}{
		{"123456789", 0x29B1}, // standard CCITT-FALSE check value
		{"", 0xFFFF},
		{"A", 0xB915},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Checksum([]byte(tt.input)), "crc of %q", tt.input)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("encodes phone merchant", func(t *testing.T) {
		t.Parallel()
		payload, err := Build(Payment{
			PromptPayID: "0812345678",
			Amount:      decimal.NewFromInt(99),
		})
		require.NoError(t, err)

		require.True(t, len(payload) > 8)
		require.Contains(t, payload, "000201", "payload format indicator")
		require.Contains(t, payload, "010212", "dynamic point of initiation")
		require.Contains(t, payload, "29370016A00000067701011101130066812345678",
			"merchant account template with AID and phone")
		require.Contains(t, payload, "52040000")
		require.Contains(t, payload, "5303764")
		require.Contains(t, payload, "540599.00", "tag 54, length 05, amount 99.00")
		require.Contains(t, payload, "5802TH")
		require.Contains(t, payload, "5908Merchant")
		require.Contains(t, payload, "6007Bangkok")
		require.True(t, Verify(payload), "checksum must round-trip")
	})

	t.Run("encodes national ID merchant", func(t *testing.T) {
		t.Parallel()
		payload, err := Build(Payment{
			PromptPayID: "1-2345-67890-12-3",
			Amount:      decimal.NewFromFloat(123.4),
		})
		require.NoError(t, err)

		require.Contains(t, payload, "02131234567890123", "national ID field")
		require.Contains(t, payload, "5406123.40", "amount padded to two decimals")
		require.True(t, Verify(payload))
	})

	t.Run("truncates merchant metadata", func(t *testing.T) {
		t.Parallel()
		payload, err := Build(Payment{
			PromptPayID:  "0812345678",
			Amount:       decimal.NewFromInt(1),
			MerchantName: "A Very Long Shop Name That Exceeds The Limit",
			MerchantCity: "A Very Long City Name",
		})
		require.NoError(t, err)

		require.Contains(t, payload, "5925A Very Long Shop Name Tha")
		require.Contains(t, payload, "6015A Very Long Cit")
		require.True(t, Verify(payload))
	})

	t.Run("truncates Thai merchant name by characters", func(t *testing.T) {
		t.Parallel()
		payload, err := Build(Payment{
			PromptPayID:  "0812345678",
			Amount:       decimal.NewFromInt(1),
			MerchantName: strings.Repeat("ก", 30),
		})
		require.NoError(t, err)

		require.True(t, utf8.ValidString(payload), "no mid-rune cut")
		// 25 runes survive; the length prefix counts their 75 bytes.
		require.Contains(t, payload, "5975"+strings.Repeat("ก", 25))
		require.True(t, Verify(payload))
	})

	t.Run("rejects invalid identifier", func(t *testing.T) {
		t.Parallel()
		_, err := Build(Payment{PromptPayID: "abc", Amount: decimal.NewFromInt(100)})
		require.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		p := Payment{PromptPayID: "0899999999", Amount: decimal.NewFromFloat(45.50)}
		a, err := Build(p)
		require.NoError(t, err)
		b, err := Build(p)
		require.NoError(t, err)
		require.Equal(t, a, b)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	payload, err := Build(Payment{PromptPayID: "0812345678", Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)

	require.True(t, Verify(payload))

	// Flip one character in the body and the checksum no longer matches.
	tampered := "1" + payload[1:]
	require.False(t, Verify(tampered))

	// Corrupt the checksum itself.
	bad := payload[:len(payload)-4] + "0000"
	if payload[len(payload)-4:] == "0000" {
		bad = payload[:len(payload)-4] + "FFFF"
	}
	require.False(t, Verify(bad))

	require.False(t, Verify(""))
	require.False(t, Verify("too-short"))
}

func ExampleBuild() {
	payload, _ := Build(Payment{
		PromptPayID:  "0812345678",
		Amount:       decimal.NewFromFloat(123.40),
		MerchantName: "Noodle House",
		MerchantCity: "Chiang Mai",
	})
	fmt.Println(Verify(payload))
	// Output: true
}
