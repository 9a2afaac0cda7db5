// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/critika-app/critika/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline end to end.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Science Fiction", "science-fiction"},
		{"accents", "Café Littéraire", "cafe-litteraire"},
		{"punctuation", "Drama: The Best!", "drama-the-best"},
		{"multi_space", "Film   Noir", "film-noir"},
		{"leading_trailing", "  - Horror - ", "horror"},
		{"digits", "Top 10 Picks", "top-10-picks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
