package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

func TestScoreArticle(t *testing.T) {
	positive := domain.Article{Title: "Markets rally as profits rise", Description: "strong growth"}
	assert.Equal(t, 0.5, ScoreArticle(positive))

	negative := domain.Article{Title: "Stocks fall sharply", Description: "bearish decline continues"}
	assert.Equal(t, -0.5, ScoreArticle(negative))

	neutral := domain.Article{Title: "Fed meets this week", Description: "officials to discuss policy"}
	assert.Equal(t, 0.0, ScoreArticle(neutral))

	mixed := domain.Article{Title: "Shares rise after earlier drop", Description: ""}
	assert.Equal(t, 0.0, ScoreArticle(mixed))
}

func TestTopicSentiment(t *testing.T) {
	topic := domain.NewsResult{
		Query: "stock market",
		Articles: []domain.Article{
			{Title: "Big rally in tech"},
			{Title: "Banks report loss"},
			{Title: "Profits up across the board"},
			{Title: "", Description: ""}, // no puntúa
		},
	}

	score, count := TopicSentiment(topic)
	assert.Equal(t, 3, count)
	assert.InDelta(t, 0.5/3.0, score, 0.001)
}

func TestTopicSentiment_Empty(t *testing.T) {
	score, count := TopicSentiment(domain.NewsResult{Query: "x"})
	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, score)
}
