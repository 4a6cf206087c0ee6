package mapper

import (
	"reflect"
	"testing"

	"github.com/testpulse/testpulse-go/model"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "no markers",
			title: "should add two numbers",
			want:  nil,
		},
		{
			name:  "all three patterns in priority order",
			title: "should work [unit] @fast #integration",
			want:  []string{"unit", "fast", "integration"},
		},
		{
			name:  "bracket group with multiple names",
			title: "parses input [unit, slow ,regression]",
			want:  []string{"unit", "slow", "regression"},
		},
		{
			name:  "empty bracket pieces dropped",
			title: "edge [ , unit,, ]",
			want:  []string{"unit"},
		},
		{
			name:  "multiple bracket groups",
			title: "[a,b] then [c]",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "at-mentions with hyphen and underscore",
			title: "checks @fast-path and @db_layer",
			want:  []string{"fast-path", "db_layer"},
		},
		{
			name:  "hash after at",
			title: "#later @sooner",
			want:  []string{"sooner", "later"},
		},
		{
			name:  "duplicates kept at extraction stage",
			title: "@fast @fast",
			want:  []string{"fast", "fast"},
		},
		{
			name:  "markers across newlines",
			title: "first line @one\nsecond line #two",
			want:  []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTags(tt.title)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestCollectTags(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		ancestors []string
		want      []model.Tag
	}{
		{
			name:      "default tag when nothing matches",
			title:     "plain title",
			ancestors: []string{"plain group"},
			want:      []model.Tag{{ID: 1, Name: "default"}},
		},
		{
			name:      "dedup across title and ancestors, first wins",
			title:     "does a thing @fast",
			ancestors: []string{"group @fast [unit]"},
			want:      []model.Tag{{ID: 1, Name: "fast"}, {ID: 2, Name: "unit"}},
		},
		{
			name:      "title tags precede ancestor tags",
			title:     "[b]",
			ancestors: []string{"[a]"},
			want:      []model.Tag{{ID: 1, Name: "b"}, {ID: 2, Name: "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectTags(tt.title, tt.ancestors)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("collectTags(%q, %v) = %v, want %v", tt.title, tt.ancestors, got, tt.want)
			}
		})
	}
}
