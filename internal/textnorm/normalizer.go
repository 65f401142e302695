package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// latinFold 不带组合标记的拉丁扩展字符，NFD 分解无法还原成基础字母，需要显式折叠
// 同时把弯引号折叠成直引号，保证 "don't" 类词条能匹配两种写法
var latinFold = map[rune]string{
	'ı': "i",
	'ø': "o",
	'đ': "d",
	'ð': "d",
	'ł': "l",
	'þ': "th",
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'’': "'",
	'‘': "'",
}

// Normalize 词库匹配前的文本归一化：小写 + NFD 分解去组合标记 + 拉丁扩展折叠
// 纯函数，幂等；无法识别的字符原样透传
func Normalize(s string) string {
	lower := strings.ToLower(s)

	// transform 链有内部状态，不能跨 goroutine 共享，每次调用重建
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if repl, ok := latinFold[r]; ok {
			b.WriteString(repl)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
