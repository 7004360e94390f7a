package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalog_go/internal/model"
)

func TestTagsEquivalent(t *testing.T) {
	ref := BoardTagRef{Slug: "voice-of-customer", Name: "Voice of Customer"}

	cases := []struct {
		assetTag string
		want     bool
	}{
		{"voice-of-customer", true},
		{"Voice-Of-Customer", true}, // case-insensitive slug match
		{"VOICE of customer", true}, // case-insensitive name match
		{"voice of customer", true},
		{"customer", false},       // substring is not equivalence
		{"voice-of", false},       // prefix is not equivalence
		{"voiceofcustomer", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TagsEquivalent(c.assetTag, ref), "assetTag=%q", c.assetTag)
	}
}

func TestTagsEquivalent_SlugVsName(t *testing.T) {
	ref := BoardTagRef{Slug: "pricing-strategy", Name: "Pricing Strategy"}

	// neither the slug nor the name of the board tag
	assert.False(t, TagsEquivalent("pricing", ref))
	// matching only the name still counts
	assert.True(t, TagsEquivalent("pricing strategy", ref))
}

func TestCountMatchesPerBoardTag(t *testing.T) {
	refs := []BoardTagRef{
		{Slug: "go-to-market", Name: "Go to Market"},
		{Slug: "pricing-strategy", Name: "Pricing Strategy"},
		{Slug: "enablement", Name: "Enablement"},
	}
	assetLists := [][]string{
		{"Go-To-Market", "misc"},                    // slug match, folded case
		{"pricing strategy", "go to market"},        // two name matches
		{"unrelated", "tags"},                       // no match
		{"ENABLEMENT", "enablement", "Enablement"},  // duplicates count once per asset
	}

	counts := CountMatchesPerBoardTag(assetLists, refs)

	assert.Equal(t, 2, counts["go-to-market"])
	assert.Equal(t, 1, counts["pricing-strategy"])
	assert.Equal(t, 1, counts["enablement"])
}

func TestCountMatchesPerBoardTag_EmptyInputs(t *testing.T) {
	refs := []BoardTagRef{{Slug: "a", Name: "A"}}

	counts := CountMatchesPerBoardTag(nil, refs)
	assert.Equal(t, 0, counts["a"])

	counts = CountMatchesPerBoardTag([][]string{{"a"}}, nil)
	assert.Empty(t, counts)
}

func TestMatchTagIDs(t *testing.T) {
	vocabulary := []*model.Tag{
		{TagID: 1, Slug: "go-to-market", Name: "Go to Market"},
		{TagID: 2, Slug: "pricing-strategy", Name: "Pricing Strategy"},
		{TagID: 3, Slug: "enablement", Name: "Enablement"},
	}

	ids := MatchTagIDs([]string{"Go-To-Market", "enablement", "nothing"}, vocabulary)
	assert.Equal(t, []int64{1, 3}, ids)

	// name matches too
	ids = MatchTagIDs([]string{"pricing strategy"}, vocabulary)
	assert.Equal(t, []int64{2}, ids)

	assert.Nil(t, MatchTagIDs(nil, vocabulary))
	assert.Nil(t, MatchTagIDs([]string{"nope"}, vocabulary))
}
