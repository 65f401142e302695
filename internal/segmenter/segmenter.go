package segmenter

import (
	"errors"
	"math"
	"strings"
	"unicode"
)

// DefaultWordsPerSecond 缺省语速（每秒词数），用于合成计时
const DefaultWordsPerSecond = 2.5

// ErrEmptyTranscript 原始文本切分不出任何句子
// 这是校验错误而不是静默空结果：安全信号通道里空结果与"无风险"不可区分
var ErrEmptyTranscript = errors.New("empty transcript: no sentences extracted")

// Piece 切分后的带合成计时的句子
type Piece struct {
	Text      string
	StartTime float64 // 会话内偏移（秒）
	EndTime   float64
}

// Segment 把整块转写文本切成有序句子并赋予合成时间窗
// 只在上游给的是未切分大块文本时使用；已对齐时间的片段走结构化摄取路径
//
// 切分规则：句末标点（. ! ?）后跟空白处断句，去掉首尾空白，丢弃空结果
// 计时规则：duration = max(1, round(词数/语速))，游标从 startOffsetSec 起连续推进，
// 产出单调不重叠、首尾相接的时间窗
func Segment(rawText string, startOffsetSec, wordsPerSecond float64) ([]Piece, error) {
	if wordsPerSecond <= 0 {
		wordsPerSecond = DefaultWordsPerSecond
	}

	sentences := splitSentences(rawText)
	if len(sentences) == 0 {
		return nil, ErrEmptyTranscript
	}

	pieces := make([]Piece, 0, len(sentences))
	cursor := startOffsetSec
	for _, sentence := range sentences {
		words := len(strings.Fields(sentence))
		duration := math.Round(float64(words) / wordsPerSecond)
		if duration < 1 {
			duration = 1
		}
		pieces = append(pieces, Piece{
			Text:      sentence,
			StartTime: cursor,
			EndTime:   cursor + duration,
		})
		cursor += duration
	}
	return pieces, nil
}

// splitSentences 按句末标点+空白断句；没有句末标点的尾部残句也保留
func splitSentences(raw string) []string {
	var out []string
	runes := []rune(raw)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			out = append(out, s)
		}
	}
	return out
}
