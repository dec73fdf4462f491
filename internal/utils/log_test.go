package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "zero limit drops everything", input: "Senior Software Engineer", limit: 0, want: ""},
		{name: "fits", input: "React, Go", limit: 40, want: "React, Go"},
		{name: "exact length", input: "React", limit: 5, want: "React"},
		{name: "cut with ellipsis", input: "Parse this resume: John Doe", limit: 17, want: "Parse this resume..."},
		{name: "surrounding whitespace ignored", input: "\n  {\"job_title\": \"x\"}  \n", limit: 3, want: "{\"j..."},
		{name: "newlines flattened", input: "Jane Doe\n\nSkills:\tGo,  SQL", limit: 60, want: "Jane Doe Skills: Go, SQL"},
		{name: "counts runes not bytes", input: "CO₂ savings", limit: 3, want: "CO₂..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}
