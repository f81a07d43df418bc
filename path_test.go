// Copyright (c) 2014 Alex Kalyvitis
// Portions Copyright (c) 2016 Ning Sun (handlebars-rust)

package handlebars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePathSegments(t *testing.T) {
	segs := ParsePath("addr.['country']")
	assert.Equal(t, []PathSegment{
		{Kind: SegID, Name: "addr"},
		{Kind: SegRawID, Name: "country"},
	}, segs)
}

func TestParsePathLeadingUps(t *testing.T) {
	segs := ParsePath("../../age")
	assert.Equal(t, 2, leadingUps(segs))
}

func TestParsePathNumericIndex(t *testing.T) {
	segs := ParsePath("titles[0]")
	assert.Equal(t, []PathSegment{
		{Kind: SegID, Name: "titles"},
		{Kind: SegNumID, Name: "0"},
	}, segs)
}
