package cardid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name     string
		card     string
		sequence int
		edition  int
		want     string
	}{
		{name: "plain", card: "Aria", sequence: 1, edition: 1, want: "ARIA00101"},
		{name: "long name", card: "Seraphina", sequence: 12, edition: 3, want: "SERA01203"},
		{name: "skips non letters", card: "J-1 Ho", sequence: 7, edition: 10, want: "JHOX00710"},
		{name: "short name padded", card: "Bo", sequence: 100, edition: 2, want: "BOXX10002"},
		{name: "wide numbers keep digits", card: "Aria", sequence: 1234, edition: 123, want: "ARIA1234123"},
		{name: "non ascii ignored", card: "Ñoël", sequence: 1, edition: 1, want: "OLXX00101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Synthesize(tt.card, tt.sequence, tt.edition))
		})
	}
}

func TestSynthesize_PrefixCollision(t *testing.T) {
	// different cards, different owners, same sequence and edition
	assert.Equal(t, Synthesize("Aria", 1, 1), Synthesize("Ariana", 1, 1))
	assert.NotEqual(t, WithSuffix(Synthesize("Aria", 1, 1), 1), Synthesize("Ariana", 1, 1))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "ARIA00101", WithSuffix("ARIA00101", 0))
	assert.Equal(t, "ARIA00101A", WithSuffix("ARIA00101", 1))
	assert.Equal(t, "ARIA00101Z", WithSuffix("ARIA00101", 26))
	assert.Equal(t, "ARIA00101AA", WithSuffix("ARIA00101", 27))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "mina01", want: "MINA01"},
		{raw: "  Star7 ", want: "STAR7"},
		{raw: "", wantErr: ErrEmpty},
		{raw: "ABCDEFGHIJK", wantErr: ErrTooLong},
		{raw: "no-dash", wantErr: ErrNotAlnum},
		{raw: "ÄBC", wantErr: ErrNotAlnum},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
