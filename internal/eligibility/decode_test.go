package eligibility

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProfile(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		p, err := DecodeProfile([]byte(`{"score": 280, "disqualifiers": {"warrants": true, "dui": false}}`))
		require.NoError(t, err)
		assert.Equal(t, 280, p.Score)
		assert.True(t, p.Disqualifiers.Has(FlagWarrants))
		assert.False(t, p.Disqualifiers.Has(FlagDUI))
	})

	t.Run("disqualifiers are optional", func(t *testing.T) {
		p, err := DecodeProfile([]byte(`{"score": 0}`))
		require.NoError(t, err)
		assert.Equal(t, 0, p.Score)
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing score", `{"disqualifiers": {}}`, "score"},
		{"string score", `{"score": "300"}`, "score"},
		{"fractional score", `{"score": 300.5}`, "score"},
		{"non-boolean flag", `{"score": 300, "disqualifiers": {"felony": "yes"}}`, "disqualifiers.felony"},
		{"numeric flag", `{"score": 300, "disqualifiers": {"dui": 1}}`, "disqualifiers.dui"},
		{"not an object", `[1, 2]`, "(root)"},
		{"malformed json", `{"score": `, "(root)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProfile([]byte(tt.body))
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %T", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDecodeRequirement(t *testing.T) {
	t.Run("omitted policy falls back to catalog", func(t *testing.T) {
		r, err := DecodeRequirement([]byte(`{"minScore": 270, "relevantDisqualifiers": {"dui": true}}`))
		require.NoError(t, err)
		assert.Nil(t, r.AlwaysDisqualifying)

		got, err := Evaluate(ApplicantProfile{Score: 280, Disqualifiers: FlagSet{FlagWarrants: true}}, r)
		require.NoError(t, err)
		assert.Equal(t, DisqualifierPresent{Flag: FlagWarrants}, got.Reason)
	})

	t.Run("explicit empty policy is kept", func(t *testing.T) {
		r, err := DecodeRequirement([]byte(`{"minScore": 270, "alwaysDisqualifying": []}`))
		require.NoError(t, err)
		require.NotNil(t, r.AlwaysDisqualifying)
		assert.Empty(t, r.AlwaysDisqualifying)
	})

	t.Run("policy list becomes a set", func(t *testing.T) {
		r, err := DecodeRequirement([]byte(`{"minScore": 270, "alwaysDisqualifying": ["warrants", "felony"]}`))
		require.NoError(t, err)
		assert.True(t, r.AlwaysDisqualifying.Contains(FlagWarrants))
		assert.True(t, r.AlwaysDisqualifying.Contains(FlagFelony))
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing minScore", `{"relevantDisqualifiers": {}}`, "minScore"},
		{"non-boolean relevance", `{"minScore": 270, "relevantDisqualifiers": {"felony": null}}`, "relevantDisqualifiers.felony"},
		{"policy is not a list", `{"minScore": 270, "alwaysDisqualifying": "warrants"}`, "alwaysDisqualifying"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequirement([]byte(tt.body))
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestRequirementRoundTrip(t *testing.T) {
	withWarrants := ApplicantProfile{Score: 300, Disqualifiers: FlagSet{FlagWarrants: true}}

	tests := []struct {
		name        string
		requirement JobRequirement
		nilPolicy   bool
	}{
		{
			name:        "nil policy and nil relevance",
			requirement: JobRequirement{MinScore: 270},
			nilPolicy:   true,
		},
		{
			name:        "empty policy disables it",
			requirement: JobRequirement{MinScore: 270, RelevantDisqualifiers: FlagSet{}, AlwaysDisqualifying: NewKeySet()},
		},
		{
			name: "populated policy",
			requirement: JobRequirement{
				MinScore:              270,
				RelevantDisqualifiers: FlagSet{FlagDUI: true},
				AlwaysDisqualifying:   NewKeySet(FlagWarrants, FlagFelony),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.requirement)
			require.NoError(t, err)

			decoded, err := DecodeRequirement(data)
			require.NoError(t, err, "encoded as %s", data)

			if tt.nilPolicy {
				assert.Nil(t, decoded.AlwaysDisqualifying)
			} else {
				require.NotNil(t, decoded.AlwaysDisqualifying)
				assert.Equal(t, tt.requirement.AlwaysDisqualifying.Sorted(), decoded.AlwaysDisqualifying.Sorted())
			}
			assert.Equal(t, tt.requirement.MinScore, decoded.MinScore)

			before, err := Evaluate(withWarrants, tt.requirement)
			require.NoError(t, err)
			after, err := Evaluate(withWarrants, decoded)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		})
	}
}

func TestDecodeAcceptsNullCollections(t *testing.T) {
	p, err := DecodeProfile([]byte(`{"score": 280, "disqualifiers": null}`))
	require.NoError(t, err)
	assert.False(t, p.Disqualifiers.Has(FlagWarrants))

	r, err := DecodeRequirement([]byte(`{"minScore": 270, "relevantDisqualifiers": null, "alwaysDisqualifying": null}`))
	require.NoError(t, err)
	assert.Nil(t, r.AlwaysDisqualifying)
	assert.Empty(t, r.RelevantDisqualifiers)
}

func TestResultJSON(t *testing.T) {
	t.Run("eligible omits reason", func(t *testing.T) {
		raw, err := json.Marshal(Result{Eligible: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"eligible": true}`, string(raw))
	})

	t.Run("score too low carries both numbers", func(t *testing.T) {
		raw, err := json.Marshal(Result{Reason: ScoreTooLow{Score: 0, MinScore: 240}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"eligible": false, "failureReason": {"kind": "ScoreTooLow", "score": 0, "minScore": 240}}`, string(raw))
	})

	t.Run("disqualifier decodes back to the same reason", func(t *testing.T) {
		in := Result{Reason: DisqualifierPresent{Flag: FlagDUI}}
		raw, err := json.Marshal(in)
		require.NoError(t, err)

		var out Result
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, in, out)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		var out Result
		err := json.Unmarshal([]byte(`{"eligible": false, "failureReason": {"kind": "Vibes"}}`), &out)
		assert.Error(t, err)
	})
}
