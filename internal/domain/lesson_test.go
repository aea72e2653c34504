package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLesson_Title(t *testing.T) {
	assert.Equal(t, "Biology", Lesson{Topic: "biology"}.Title())
	assert.Equal(t, "", Lesson{}.Title())
}

func TestSeedLessons_FreshCopies(t *testing.T) {
	first := SeedLessons()
	first[0].Space = 0

	second := SeedLessons()
	assert.Equal(t, 5, second[0].Space)
	assert.Len(t, second, 10)
}
