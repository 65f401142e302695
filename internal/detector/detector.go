package detector

import (
	"strings"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/lexicon"
)

// Hit 单个分类的命中结果
type Hit struct {
	Category      domain.RiskCategory
	Severity      domain.Severity
	MatchedPhrase string
}

// Detector 危机关键词检测器
// 词库注入后只读，无网络调用，无副作用，可跨会话并发使用
type Detector struct {
	lex *lexicon.Lexicon
}

// New 创建检测器
func New(lex *lexicon.Lexicon) *Detector {
	return &Detector{lex: lex}
}

// Detect 对已归一化文本做词库匹配，每个分类最多返回一条命中
// 各分类独立评估，一个片段可以同时命中多个分类
//
// 匹配是纯子串包含，不做词边界检查：词条嵌在无关长词里会误报
// 这是召回优先的有意取舍，改成词边界匹配前需要临床评审
func (d *Detector) Detect(normalizedText string) []Hit {
	if normalizedText == "" {
		return nil
	}

	var hits []Hit
	for _, category := range d.lex.Categories() {
		entry, ok := d.lex.Entry(category)
		if !ok {
			continue
		}
		if phrase, matched := firstMatch(normalizedText, entry.Phrases); matched {
			hits = append(hits, Hit{
				Category:      category,
				Severity:      entry.Severity,
				MatchedPhrase: phrase,
			})
		}
	}
	return hits
}

// firstMatch 跨所有 locale 找第一个命中的词条（词条在词库加载时已归一化）
func firstMatch(text string, phrases map[string][]string) (string, bool) {
	for _, list := range phrases {
		for _, phrase := range list {
			if strings.Contains(text, phrase) {
				return phrase, true
			}
		}
	}
	return "", false
}
