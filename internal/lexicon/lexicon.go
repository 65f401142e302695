package lexicon

import (
	"fmt"
	"os"
	"sort"

	"wisefido-session-safety/internal/domain"
	"wisefido-session-safety/internal/textnorm"

	"gopkg.in/yaml.v3"
)

// Entry 单个分类的词库条目
type Entry struct {
	Severity domain.Severity     `yaml:"severity"`
	Phrases  map[string][]string `yaml:"phrases"` // locale → 词条列表
}

// Lexicon 危机关键词词库
// 进程启动时加载一次，词条在构建时预归一化，之后只读（跨会话并发读取无需加锁）
type Lexicon struct {
	entries    map[domain.RiskCategory]Entry
	categories []domain.RiskCategory // 排序后的分类列表，保证检测结果顺序稳定
}

// New 从原始条目构建词库（词条经过 textnorm 归一化）
func New(entries map[domain.RiskCategory]Entry) (*Lexicon, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("lexicon must contain at least one category")
	}

	normalized := make(map[domain.RiskCategory]Entry, len(entries))
	categories := make([]domain.RiskCategory, 0, len(entries))

	for category, entry := range entries {
		if category == "" {
			return nil, fmt.Errorf("lexicon category name cannot be empty")
		}
		switch entry.Severity {
		case domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh:
		default:
			return nil, fmt.Errorf("invalid severity %q for category %q", entry.Severity, category)
		}

		phrases := make(map[string][]string, len(entry.Phrases))
		for locale, list := range entry.Phrases {
			normList := make([]string, 0, len(list))
			for _, phrase := range list {
				if phrase == "" {
					continue
				}
				normList = append(normList, textnorm.Normalize(phrase))
			}
			if len(normList) > 0 {
				phrases[locale] = normList
			}
		}

		normalized[category] = Entry{Severity: entry.Severity, Phrases: phrases}
		categories = append(categories, category)
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	return &Lexicon{entries: normalized, categories: categories}, nil
}

// LoadFile 从 YAML 文件加载词库（用于 LEXICON_PATH 覆盖内置词库）
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var entries map[domain.RiskCategory]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}

	lex, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid lexicon file %s: %w", path, err)
	}
	return lex, nil
}

// Categories 返回排序后的分类列表
func (l *Lexicon) Categories() []domain.RiskCategory {
	return l.categories
}

// Entry 返回指定分类的条目
func (l *Lexicon) Entry(category domain.RiskCategory) (Entry, bool) {
	e, ok := l.entries[category]
	return e, ok
}

// Default 内置多语言词库
// 首过滤以召回优先：词条做子串匹配，不做词边界检查（临床评审确认前保持现状）
func Default() *Lexicon {
	lex, err := New(map[domain.RiskCategory]Entry{
		domain.CategorySuicide: {
			Severity: domain.SeverityHigh,
			Phrases: map[string][]string{
				"en": {"kill myself", "end my life", "suicide", "want to die", "don't want to live", "better off dead", "no reason to live"},
				"es": {"quitarme la vida", "suicidarme", "no quiero vivir", "quiero morir"},
				"fr": {"me suicider", "en finir avec la vie", "je veux mourir"},
				"de": {"mich umbringen", "nicht mehr leben", "sterben wollen"},
				"pt": {"me matar", "não quero viver", "quero morrer"},
			},
		},
		domain.CategorySelfHarm: {
			Severity: domain.SeverityHigh,
			Phrases: map[string][]string{
				"en": {"hurt myself", "cut myself", "self harm", "harm myself", "cutting again"},
				"es": {"hacerme daño", "cortarme", "lastimarme"},
				"fr": {"me faire du mal", "me couper"},
				"de": {"mich verletzen", "mich ritzen"},
				"pt": {"me machucar", "me cortar"},
			},
		},
		domain.CategoryViolence: {
			Severity: domain.SeverityHigh,
			Phrases: map[string][]string{
				"en": {"kill them", "hurt them", "hurt someone", "make them pay", "going to hurt"},
				"es": {"matarlos", "hacerles daño", "lastimar a alguien"},
				"fr": {"leur faire du mal", "les tuer"},
				"de": {"ihnen wehtun", "jemanden verletzen"},
				"pt": {"machucar alguém", "matá-los"},
			},
		},
		domain.CategoryHopelessness: {
			Severity: domain.SeverityMedium,
			Phrases: map[string][]string{
				"en": {"hopeless", "no way out", "nothing seems to help", "no point anymore", "give up on everything", "nothing matters"},
				"es": {"sin esperanza", "no tiene sentido", "nada ayuda"},
				"fr": {"sans espoir", "à quoi bon", "rien ne sert"},
				"de": {"hoffnungslos", "keinen ausweg", "nichts hilft"},
				"pt": {"sem esperança", "não tem saída", "nada adianta"},
			},
		},
		domain.CategorySubstance: {
			Severity: domain.SeverityMedium,
			Phrases: map[string][]string{
				"en": {"drinking again", "using again", "overdose", "relapsed", "got high", "too many pills"},
				"es": {"sobredosis", "recaída", "bebiendo otra vez"},
				"fr": {"rechute", "surdose", "je rebois"},
				"de": {"rückfall", "überdosis", "wieder getrunken"},
				"pt": {"recaída", "overdose", "bebendo de novo"},
			},
		},
		domain.CategoryAnxiety: {
			Severity: domain.SeverityLow,
			Phrases: map[string][]string{
				"en": {"anxious", "panic attack", "can't calm down", "heart is racing", "anxiety"},
				"es": {"ansioso", "ansiosa", "ataque de pánico"},
				"fr": {"anxieux", "anxieuse", "crise de panique"},
				"de": {"panikattacke", "ängstlich", "angstzustände"},
				"pt": {"ansioso", "ansiosa", "ataque de pânico"},
			},
		},
		domain.CategoryDepression: {
			Severity: domain.SeverityLow,
			Phrases: map[string][]string{
				"en": {"depressed", "depression", "worthless", "can't get out of bed", "feel empty"},
				"es": {"deprimido", "deprimida", "depresión"},
				"fr": {"déprimé", "déprimée", "dépression"},
				"de": {"deprimiert", "depression", "wertlos"},
				"pt": {"deprimido", "deprimida", "depressão"},
			},
		},
	})
	if err != nil {
		// 内置词库是编译期常量数据，构建失败属于编程错误
		panic(fmt.Sprintf("invalid built-in lexicon: %v", err))
	}
	return lex
}

// Load 按配置加载词库：路径为空时使用内置词库
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
