package analysis

import "testing"

func TestArticleTitle(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "first substantial line wins",
			text: "The Effects of Sleep Deprivation on Memory\n\nIntroduction text follows here.",
			want: "The Effects of Sleep Deprivation on Memory",
		},
		{
			name: "short lines are skipped",
			text: "Draft v2\nJohn Doe\nA Longitudinal Study of Reading Habits in Adolescents\nbody",
			want: "A Longitudinal Study of Reading Habits in Adolescents",
		},
		{
			name: "abstract lines are skipped",
			text: "Abstract of the submitted manuscript follows\nMachine Learning Methods for Citation Analysis\nbody",
			want: "Machine Learning Methods for Citation Analysis",
		},
		{
			name: "abstract match is case insensitive",
			text: "ABSTRACT: This paper examines several things\nNeural Approaches to Claim Verification Tasks\n",
			want: "Neural Approaches to Claim Verification Tasks",
		},
		{
			name: "blank leading lines ignored",
			text: "\n\n   \nQuantum Error Correction in Noisy Devices Today\n",
			want: "Quantum Error Correction in Noisy Devices Today",
		},
		{
			name: "no candidate falls back",
			text: "one\ntwo three\nfour five six",
			want: "Untitled",
		},
		{
			name: "candidate beyond line ten is ignored",
			text: "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nThis Title Appears Far Too Late In The Document",
			want: "Untitled",
		},
		{
			name: "empty input",
			text: "",
			want: "Untitled",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ArticleTitle(tc.text); got != tc.want {
				t.Fatalf("ArticleTitle = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two\tthree\nfour", 4},
		{"  spaced   out   words  ", 3},
	}
	for _, tc := range cases {
		if got := WordCount(tc.text); got != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}
