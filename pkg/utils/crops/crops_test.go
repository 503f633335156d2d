package crops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAspectRatio(t *testing.T) {
	tests := []struct {
		label   string
		want    float64
		wantErr bool
	}{
		{label: "16:9", want: 16.0 / 9.0},
		{label: "9:16", want: 9.0 / 16.0},
		{label: "1:1", want: 1},
		{label: "2.39:1", want: 2.39},
		{label: " 4 : 3 ", want: 4.0 / 3.0},
		{label: "abc", wantErr: true},
		{label: "", wantErr: true},
		{label: "16", wantErr: true},
		{label: "16:9:1", wantErr: true},
		{label: "16:x", wantErr: true},
		{label: "x:9", wantErr: true},
		{label: "16:0", wantErr: true},
		{label: "0:9", wantErr: true},
		{label: "-16:9", wantErr: true},
		{label: "Inf:1", wantErr: true},
		{label: "NaN:1", wantErr: true},
		{label: ":9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			ar, err := ParseAspectRatio(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidRatioLabel))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, ar.Value, 1e-12)
		})
	}
}

func TestAspectRatio_MatchesByLabel(t *testing.T) {
	ar, err := ParseAspectRatio("16:9")
	require.NoError(t, err)

	assert.True(t, ar.Matches("16:9"))
	assert.True(t, ar.Matches(" 16:9"))
	// Numerically equal, but a different label.
	assert.False(t, ar.Matches("32:18"))
	assert.False(t, AspectRatio{}.Matches(""))
}
