package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitsInt32(t *testing.T) {
	testData := []struct {
		literal string
		negated bool
		fits    bool
	}{
		{literal: "0", fits: true},
		{literal: "2147483647", fits: true},
		{literal: "2147483648", fits: false},
		{literal: "2147483648", negated: true, fits: true},
		{literal: "2147483649", negated: true, fits: false},
		{literal: "99999999999999999999999", fits: false},
		{literal: "abc", fits: false},
	}
	for _, d := range testData {
		assert.Equal(t, d.fits, FitsInt32(d.literal, d.negated), d)
	}
}

func TestLetters(t *testing.T) {
	assert.True(t, IsUpperLetter('A'))
	assert.False(t, IsUpperLetter('a'))
	assert.True(t, IsLowerLetter('z'))
	assert.True(t, IsLetterOrUnderscoreOrNumber('_'))
	assert.False(t, IsNumberAndLargerThanZero('0'))
	assert.True(t, IsNumberAndLargerThanZero('7'))
}
