package detector

import (
	"testing"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/lexicon"
	"wisefido-session-safety/internal/textnorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultDetector() *Detector {
	return New(lexicon.Default())
}

func findHit(hits []Hit, cat domain.RiskCategory) *Hit {
	for i := range hits {
		if hits[i].Category == cat {
			return &hits[i]
		}
	}
	return nil
}

func TestDetect_SuicidePhrase(t *testing.T) {
	d := defaultDetector()

	hits := d.Detect(textnorm.Normalize("I don't want to live anymore."))
	hit := findHit(hits, domain.CategorySuicide)
	require.NotNil(t, hit)
	assert.Equal(t, domain.SeverityHigh, hit.Severity)
	assert.Equal(t, "don't want to live", hit.MatchedPhrase)
}

func TestDetect_CurlyApostrophe(t *testing.T) {
	d := defaultDetector()

	hits := d.Detect(textnorm.Normalize("I don’t want to live anymore."))
	assert.NotNil(t, findHit(hits, domain.CategorySuicide))
}

func TestDetect_MultipleCategories(t *testing.T) {
	d := defaultDetector()

	hits := d.Detect(textnorm.Normalize("Everything feels hopeless and I started drinking again."))
	assert.NotNil(t, findHit(hits, domain.CategoryHopelessness))
	assert.NotNil(t, findHit(hits, domain.CategorySubstance))
	assert.Nil(t, findHit(hits, domain.CategorySuicide))
}

func TestDetect_OnePerCategory(t *testing.T) {
	d := defaultDetector()

	// 两个自杀相关词条只产生一条 suicide 命中
	hits := d.Detect(textnorm.Normalize("I want to die, there is no reason to live."))
	count := 0
	for _, h := range hits {
		if h.Category == domain.CategorySuicide {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDetect_AccentInsensitive(t *testing.T) {
	d := defaultDetector()

	hits := d.Detect(textnorm.Normalize("Me siento sin esperanza y con mucha DEPRESIÓN"))
	assert.NotNil(t, findHit(hits, domain.CategoryHopelessness))
	assert.NotNil(t, findHit(hits, domain.CategoryDepression))
}

func TestDetect_NoRisk(t *testing.T) {
	d := defaultDetector()

	assert.Empty(t, d.Detect(textnorm.Normalize("The weather is lovely today.")))
	assert.Empty(t, d.Detect(""))
}

func TestDetect_SubstringMatchHasNoWordBoundary(t *testing.T) {
	d := defaultDetector()

	// 子串匹配不做词边界检查：嵌在长词里的词条也会命中（召回优先的既定行为）
	hits := d.Detect(textnorm.Normalize("she spoke about overdosed patients in her ward"))
	assert.NotNil(t, findHit(hits, domain.CategorySubstance))
}

func TestDetect_Monotonicity(t *testing.T) {
	base, err := lexicon.New(map[domain.RiskCategory]lexicon.Entry{
		domain.CategoryAnxiety: {
			Severity: domain.SeverityLow,
			Phrases:  map[string][]string{"en": {"anxious"}},
		},
	})
	require.NoError(t, err)

	extended, err := lexicon.New(map[domain.RiskCategory]lexicon.Entry{
		domain.CategoryAnxiety: {
			Severity: domain.SeverityLow,
			Phrases:  map[string][]string{"en": {"anxious", "panic attack"}},
		},
		domain.CategoryDepression: {
			Severity: domain.SeverityLow,
			Phrases:  map[string][]string{"en": {"depressed"}},
		},
	})
	require.NoError(t, err)

	text := textnorm.Normalize("I feel anxious today")

	// 扩充词库不会移除原有命中
	baseHits := New(base).Detect(text)
	extHits := New(extended).Detect(text)
	require.NotNil(t, findHit(baseHits, domain.CategoryAnxiety))
	require.NotNil(t, findHit(extHits, domain.CategoryAnxiety))

	// 分类没有任何词条时永不命中
	assert.Nil(t, findHit(baseHits, domain.CategoryDepression))
	assert.Nil(t, findHit(New(base).Detect(textnorm.Normalize("so depressed")), domain.CategoryDepression))
}
