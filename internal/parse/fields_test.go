package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"January 2, 2006",
	"2006",
}

func TestDateParser_Established(t *testing.T) {
	p, err := NewDateParser(testLayouts, "UTC")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		raw      string
		wantYear int
		wantNil  bool
	}{
		{name: "ISO date", raw: "1947-08-14", wantYear: 1947},
		{name: "ISO datetime", raw: "2002-01-01 00:00:00", wantYear: 2002},
		{name: "Slashes", raw: "09/01/1882", wantYear: 1882},
		{name: "Month name", raw: "March 3, 1999", wantYear: 1999},
		{name: "Bare year", raw: "1973", wantYear: 1973},
		{name: "Bare year with float suffix", raw: "1973.0", wantYear: 1973},
		{name: "Surrounding whitespace", raw: "  2010-05-06 ", wantYear: 2010},
		{name: "Garbage", raw: "not-a-date", wantNil: true},
		{name: "Empty", raw: "", wantNil: true},
		{name: "NaN", raw: "NaN", wantNil: true},
		{name: "Dash", raw: "-", wantNil: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Established(tc.raw)
			if tc.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantYear, got.Year())
		})
	}
}

func TestNewDateParser_Errors(t *testing.T) {
	_, err := NewDateParser(nil, "UTC")
	assert.Error(t, err)

	_, err = NewDateParser(testLayouts, "Not/AZone")
	assert.Error(t, err)
}

func TestNewDateParser_Timezone(t *testing.T) {
	p, err := NewDateParser([]string{"2006-01-02"}, "Asia/Karachi")
	require.NoError(t, err)

	got := p.Established("2000-01-01")
	require.NotNil(t, got)
	loc, _ := time.LoadLocation("Asia/Karachi")
	assert.Equal(t, loc.String(), got.Location().String())
}

func TestSector(t *testing.T) {
	assert.Equal(t, "Public", Sector(" public "))
	assert.Equal(t, "Private", Sector("PRIVATE"))
	assert.Equal(t, "Semi-Government", Sector(" Semi-Government"))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", YesNo("yes"))
	assert.Equal(t, "No", YesNo(" No "))
	assert.Equal(t, "Maybe", YesNo("Maybe"))
}

func TestText(t *testing.T) {
	assert.Equal(t, "University of the Punjab", Text("  University  of the\tPunjab "))
}
