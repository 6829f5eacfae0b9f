package wikilink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_BasicLink(t *testing.T) {
	require.Equal(t, []string{"[[Note A]]"}, Extract("See [[Note A]] for details."))
}

func TestExtract_LinkWithTitle(t *testing.T) {
	require.Equal(t, []string{"[[Note A|my note]]"}, Extract("See [[Note A|my note]]."))
}

func TestExtract_Embed(t *testing.T) {
	require.Equal(t, []string{"![[Note A]]"}, Extract("![[Note A]]"))
}

func TestExtract_DoubledEmbedMarkerIsNotAnEmbed(t *testing.T) {
	occs := ExtractOccurrences("!![[Note A]]")
	require.Len(t, occs, 1)
	require.Equal(t, "[[Note A]]", occs[0].Raw)
	require.Equal(t, 2, occs[0].Start)
	require.Equal(t, 12, occs[0].End)
}

func TestExtract_EmbedMarkerMidText(t *testing.T) {
	occs := ExtractOccurrences("see ![[pic.png]] here")
	require.Len(t, occs, 1)
	require.Equal(t, "![[pic.png]]", occs[0].Raw)
	require.Equal(t, 4, occs[0].Start)
}

func TestExtract_AdjacentTokensDoNotMerge(t *testing.T) {
	require.Equal(t, []string{"[[a]]", "[[b]]"}, Extract("[[a]][[b]]"))
}

func TestExtract_DocumentOrderAndDuplicatesPreserved(t *testing.T) {
	tokens := Extract("[[x]] then [[y]] then [[x]] again")
	require.Equal(t, []string{"[[x]]", "[[y]]", "[[x]]"}, tokens)
}

func TestExtract_NewlineBreaksToken(t *testing.T) {
	require.Nil(t, Extract("[[Note\nA]]"))
	require.Nil(t, Extract("[[Note A|my\ntitle]]"))
}

func TestExtract_PipeAllowedOnlyInTitleSegment(t *testing.T) {
	// The name segment stops at the first |; the rest up to ]] is title.
	tokens := Extract("[[a|b|c]]")
	require.Equal(t, []string{"[[a|b|c]]"}, tokens)
}

func TestExtract_NonASCIINames(t *testing.T) {
	tokens := Extract("mood: [[♡ cinni''s dream home ♡]] and [[café]]")
	require.Equal(t, []string{"[[♡ cinni''s dream home ♡]]", "[[café]]"}, tokens)
}

func TestExtract_EmptyAndNoMatches(t *testing.T) {
	require.Nil(t, Extract(""))
	require.Nil(t, Extract("no links here"))
	require.Nil(t, Extract("[single] [brackets]"))
}

func TestExtractOccurrences_Positions(t *testing.T) {
	text := "a [[x]] b [[y|t]] c"
	occs := ExtractOccurrences(text)
	require.Len(t, occs, 2)
	for _, occ := range occs {
		require.Equal(t, occ.Raw, text[occ.Start:occ.End])
	}
}
