package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanRating(t *testing.T) {
	t.Run("no reviews", func(t *testing.T) {
		assert.Equal(t, 0.0, MeanRating(nil))
	})

	t.Run("single review", func(t *testing.T) {
		assert.Equal(t, 4.0, MeanRating([]TutorReview{{ReviewRating: 4}}))
	})

	t.Run("rounded to one decimal", func(t *testing.T) {
		reviews := []TutorReview{
			{ReviewRating: 5},
			{ReviewRating: 4},
			{ReviewRating: 4},
		}
		assert.Equal(t, 4.3, MeanRating(reviews))
	})

	t.Run("half rounds up", func(t *testing.T) {
		reviews := []TutorReview{
			{ReviewRating: 4},
			{ReviewRating: 5},
		}
		assert.Equal(t, 4.5, MeanRating(reviews))
	})
}
