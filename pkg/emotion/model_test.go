package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpposite_Symmetric(t *testing.T) {
	for _, e := range AllEmotions {
		assert.Equal(t, e, e.Opposite().Opposite(), "opposite of opposite of %s", e)
		assert.NotEqual(t, e, e.Opposite(), "%s cannot be its own opposite", e)
	}
}

func TestParseBasicEmotion(t *testing.T) {
	for _, e := range AllEmotions {
		parsed, ok := ParseBasicEmotion(string(e))
		require.True(t, ok)
		assert.Equal(t, e, parsed)
	}

	_, ok := ParseBasicEmotion("confused")
	assert.False(t, ok)
	_, ok = ParseBasicEmotion("")
	assert.False(t, ok)
}

func TestEventMagnitude(t *testing.T) {
	assert.Equal(t, 0.03, EventMagnitude("weak"))
	assert.Equal(t, 0.05, EventMagnitude("medium"))
	assert.Equal(t, 0.10, EventMagnitude("strong"))

	// Unrecognized strengths fall back to the default instead of failing.
	assert.Equal(t, DefaultEventMagnitude, EventMagnitude("overwhelming"))
	assert.Equal(t, DefaultEventMagnitude, EventMagnitude(""))
}

func TestCategoryFor_Boundaries(t *testing.T) {
	for _, e := range AllEmotions {
		assert.Equal(t, CategoryWeak, CategoryFor(e, 0.0))
		assert.Equal(t, CategoryWeak, CategoryFor(e, 0.29))
		assert.Equal(t, CategoryBasic, CategoryFor(e, 0.3))
		assert.Equal(t, CategoryBasic, CategoryFor(e, 0.69))
		assert.Equal(t, CategoryStrong, CategoryFor(e, 0.7))
		assert.Equal(t, CategoryStrong, CategoryFor(e, 1.0))
	}
}

func TestAlternateName(t *testing.T) {
	name, ok := AlternateName(Joy, CategoryStrong, LangEN)
	require.True(t, ok)
	assert.Equal(t, "ecstasy", name)

	name, ok = AlternateName(Joy, CategoryStrong, LangJA)
	require.True(t, ok)
	assert.Equal(t, "恍惚", name)

	_, ok = AlternateName(Joy, CategoryBasic, LangEN)
	assert.False(t, ok, "basic category has no alternate name")
}

func TestAlternateNames_DistinctPerEmotion(t *testing.T) {
	seen := make(map[string]BasicEmotion)
	for _, e := range AllEmotions {
		for _, cat := range []IntensityCategory{CategoryWeak, CategoryStrong} {
			name, ok := AlternateName(e, cat, LangEN)
			require.True(t, ok, "%s/%s", e, cat)
			if prev, dup := seen[name]; dup {
				t.Fatalf("alternate name %q shared by %s and %s", name, prev, e)
			}
			seen[name] = e
		}
	}
}

func TestCompoundForPair_AllPairsDefined(t *testing.T) {
	count := 0
	for i, a := range AllEmotions {
		for _, b := range AllEmotions[i+1:] {
			c1, ok := CompoundForPair(a, b)
			require.True(t, ok, "missing compound for %s+%s", a, b)
			c2, ok := CompoundForPair(b, a)
			require.True(t, ok)
			assert.Equal(t, c1, c2, "lookup must be order-independent")
			assert.NotEmpty(t, c1.EN)
			assert.NotEmpty(t, c1.JA)
			count++
		}
	}
	assert.Equal(t, 28, count)
}

func TestCompoundForPair_KnownDyads(t *testing.T) {
	cases := []struct {
		a, b BasicEmotion
		want string
	}{
		{Joy, Anticipation, "Optimism"},
		{Joy, Trust, "Love"},
		{Anticipation, Trust, "Hope"},
		{Fear, Surprise, "Awe"},
		{Sadness, Disgust, "Remorse"},
		{Anger, Disgust, "Contempt"},
	}
	for _, tc := range cases {
		c, ok := CompoundForPair(tc.a, tc.b)
		require.True(t, ok)
		assert.Equal(t, tc.want, c.EN)
	}
}

func TestCompoundForPair_SameEmotion(t *testing.T) {
	_, ok := CompoundForPair(Joy, Joy)
	assert.False(t, ok)
}
