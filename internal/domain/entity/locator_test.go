package entity

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		tableActive bool
		want        Locator
	}{
		{
			name: "plain text",
			raw:  "Login",
			want: Locator{Kind: LocatorText, Raw: "Login"},
		},
		{
			name: "xpath prefix",
			raw:  "xpath=//div[@bar\\='bar']",
			want: Locator{Kind: LocatorXPath, Raw: "xpath=//div[@bar\\='bar']", XPath: "//div[@bar='bar']"},
		},
		{
			name: "grouped xpath",
			raw:  "(//button)[2]",
			want: Locator{Kind: LocatorXPath, Raw: "(//button)[2]", XPath: "(//button)[2]"},
		},
		{
			name: "coordinate without table is text",
			raw:  "r1c1",
			want: Locator{Kind: LocatorText, Raw: "r1c1"},
		},
		{
			name:        "coordinate with table",
			raw:         "r?Bob/c3",
			tableActive: true,
			want: Locator{Kind: LocatorTableCoord, Raw: "r?Bob/c3", Coord: TableCoord{
				Row: Axis{Kind: AxisText, Text: "Bob"},
				Col: Axis{Kind: AxisIndex, Index: 3},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLocator(tt.raw, tt.tableActive)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLocator mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsXPath(t *testing.T) {
	for _, x := range []string{"xpath=//div[@bar='bar']", "//div[@bar='bar']", "/html/body/table[1]"} {
		assert.True(t, IsXPath(x), x)
	}
	assert.False(t, IsXPath("div[@bar='bar']"))
}

func TestParseTableCoord(t *testing.T) {
	idx := func(n int) Axis { return Axis{Kind: AxisIndex, Index: n} }
	txt := func(s string) Axis { return Axis{Kind: AxisText, Text: s} }

	tests := []struct {
		in   string
		want TableCoord
	}{
		{"r1c3", TableCoord{idx(1), idx(3)}},
		{"c1r3", TableCoord{idx(3), idx(1)}},
		{"r12c3", TableCoord{idx(12), idx(3)}},
		{"r31337c652", TableCoord{idx(31337), idx(652)}},
		{"r-1c2", TableCoord{idx(-1), idx(2)}},
		{"r?Bob/c3", TableCoord{txt("Bob"), idx(3)}},
		{"r2/c?Age", TableCoord{idx(2), txt("Age")}},
		{"r?12/34 paid/c-1", TableCoord{txt("12/34 paid"), idx(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTableCoord(tt.in)
			assert.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTableCoord(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}

	for _, bad := range []string{"Login", "r2d2 card", "r?/c1", "rc", "row1col2"} {
		_, ok := ParseTableCoord(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseKey(t *testing.T) {
	got, err := ParseKey("{ENTER}")
	assert.NoError(t, err)
	assert.Equal(t, KeyEnter, got)

	got, err = ParseKey("{CTRL + a}")
	assert.NoError(t, err)
	assert.Equal(t, KeyControl+"a", got)

	got, err = ParseKey("{F5}")
	assert.NoError(t, err)
	assert.Equal(t, "\ue035", got)

	got, err = ParseKey("plain")
	assert.NoError(t, err)
	assert.Equal(t, "plain", got)

	_, err = ParseKey("{HYPER}")
	assert.Error(t, err)
}

func TestRectOverlap(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 10, Height: 10}

	assert.False(t, a.Overlaps(Rect{X: 30, Y: 30, Width: 10, Height: 10}))
	assert.True(t, Rect{X: 10, Y: 15, Width: 10, Height: 5}.Overlaps(Rect{X: 15, Y: 10, Width: 25, Height: 20}))
	assert.True(t, a.Overlaps(Rect{X: 15, Y: 15, Width: 25, Height: 15}))
	assert.True(t, a.Overlaps(Rect{X: 15, Y: 15, Width: 3, Height: 3}))
}
