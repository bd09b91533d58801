package interpret

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smartwallet/backend/internal/domain/valueobject"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules is the compiled form of a local interpretation rule file.
type Rules struct {
	currencies       []currencyRule
	incomeKeywords   []string
	categories       []categoryRule
	merchantPatterns []*regexp.Regexp
}

type currencyRule struct {
	currency valueobject.Currency
	patterns []*regexp.Regexp
}

type categoryRule struct {
	name     string
	keywords []string
}

type rulesFile struct {
	Currencies     map[string][]string `yaml:"currencies"`
	IncomeKeywords []string            `yaml:"income_keywords"`
	Categories     []struct {
		Name     string   `yaml:"name"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
	MerchantPatterns []string `yaml:"merchant_patterns"`
}

// DefaultRules returns the rules embedded in the binary.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRules)
}

// ParseRules compiles a YAML rule file.
func ParseRules(data []byte) (*Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	rules := &Rules{
		incomeKeywords: lowerAll(f.IncomeKeywords),
	}

	// Iterate in a fixed order so detection is deterministic.
	for _, code := range append([]valueobject.Currency{valueobject.CurrencyBRL}, valueobject.ForeignCurrencies...) {
		patterns, ok := f.Currencies[string(code)]
		if !ok {
			continue
		}
		rule := currencyRule{currency: code}
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("invalid %s pattern %q: %w", code, p, err)
			}
			rule.patterns = append(rule.patterns, re)
		}
		rules.currencies = append(rules.currencies, rule)
	}
	for code := range f.Currencies {
		if c := valueobject.Currency(code); !c.IsValid() {
			return nil, fmt.Errorf("unsupported currency %q in rules", code)
		}
	}

	for _, c := range f.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category rule without name")
		}
		rules.categories = append(rules.categories, categoryRule{name: c.Name, keywords: lowerAll(c.Keywords)})
	}

	for _, p := range f.MerchantPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid merchant pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("merchant pattern %q has no capture group", p)
		}
		rules.merchantPatterns = append(rules.merchantPatterns, re)
	}

	return rules, nil
}

// detectCurrency returns the first currency mentioned in lower, or false.
func (r *Rules) detectCurrency(lower string) (valueobject.Currency, bool) {
	for _, rule := range r.currencies {
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				return rule.currency, true
			}
		}
	}
	return "", false
}

func (r *Rules) category(lower string) (string, bool) {
	for _, c := range r.categories {
		if containsAny(lower, c.keywords) {
			return c.name, true
		}
	}
	return "", false
}

func (r *Rules) merchant(text string) string {
	for _, re := range r.merchantPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(strings.TrimSpace(m[1]), ".")
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
