package analyzer

import (
	"strings"

	"github.com/alejandrodnm/dailyideas/internal/domain"
)

// Scorer de sentimiento por palabras clave: cada artículo puntúa 0.5
// (positivo), -0.5 (negativo) o 0 (neutral) según qué lista domina en su
// título y descripción.

var positiveWords = []string{
	"up", "rise", "gain", "positive", "growth", "profit", "rally", "bullish", "success",
}

var negativeWords = []string{
	"down", "fall", "loss", "negative", "decline", "drop", "bearish", "fail", "crash",
}

// ScoreArticle puntúa un artículo individual.
func ScoreArticle(article domain.Article) float64 {
	text := strings.ToLower(article.Title + " " + article.Description)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return 0.5
	case neg > pos:
		return -0.5
	default:
		return 0
	}
}

// TopicSentiment devuelve el sentimiento medio de un tema y cuántos
// artículos puntuaron. Artículos sin título ni descripción no cuentan.
func TopicSentiment(topic domain.NewsResult) (float64, int) {
	var sum float64
	var count int
	for _, article := range topic.Articles {
		if article.Title == "" && article.Description == "" {
			continue
		}
		sum += ScoreArticle(article)
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}
