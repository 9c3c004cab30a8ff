package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rwahyudi/galeri_backend/models"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"domestic with dashes", "0851-5730-0793", "6285157300793"},
		{"domestic plain", "085157300793", "6285157300793"},
		{"international with plus", "+62 851 5730 0793", "6285157300793"},
		{"international plain", "6285157300793", "6285157300793"},
		{"bare subscriber number", "85157300793", "6285157300793"},
		{"domestic with spaces", "0851 5730 0793", "6285157300793"},
		{"parenthesized", "(0851) 5730-0793", "6285157300793"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhoneSameSubscriberSameKey(t *testing.T) {
	spellings := []string{
		"0851-5730-0793",
		"+6285157300793",
		"62 851 5730 0793",
		"85157300793",
	}

	for _, s := range spellings {
		got, err := NormalizePhone(s)
		assert.NoError(t, err, "input %q", s)
		assert.Equal(t, "6285157300793", got, "input %q", s)
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"letters only", "not-a-phone"},
		{"wrong country prefix", "15551234567"},
		{"too short", "0812345"},
		{"too long", "628123456789012345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePhone(tt.input)
			assert.True(t, errors.Is(err, models.ErrInvalidPhoneFormat), "got %v", err)
		})
	}
}
