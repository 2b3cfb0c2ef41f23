package vader

import (
	"errors"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	boostIncr    = 0.293
	boostDecr    = -0.293
	capsIncr     = 0.733
	negScalar    = -0.74
	neverScalar  = 1.25
	normAlpha    = 15
	exclaimIncr  = 0.292
	exclaimMax   = 4
	questionIncr = 0.18
	questionMax  = 0.96
	butBefore    = 0.5
	butAfter     = 1.5
	lookBack     = 3
)

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	boosters = map[string]float64{
		"absolutely": boostIncr, "amazingly": boostIncr, "awfully": boostIncr,
		"completely": boostIncr, "considerably": boostIncr, "decidedly": boostIncr,
		"deeply": boostIncr, "enormously": boostIncr, "entirely": boostIncr,
		"especially": boostIncr, "exceptionally": boostIncr, "extremely": boostIncr,
		"fabulously": boostIncr, "fully": boostIncr, "greatly": boostIncr,
		"hella": boostIncr, "highly": boostIncr, "hugely": boostIncr,
		"incredibly": boostIncr, "intensely": boostIncr, "majorly": boostIncr,
		"more": boostIncr, "most": boostIncr, "particularly": boostIncr,
		"purely": boostIncr, "quite": boostIncr, "really": boostIncr,
		"remarkably": boostIncr, "so": boostIncr, "substantially": boostIncr,
		"thoroughly": boostIncr, "totally": boostIncr, "tremendously": boostIncr,
		"uber": boostIncr, "unbelievably": boostIncr, "unusually": boostIncr,
		"utterly": boostIncr, "very": boostIncr,

		"almost": boostDecr, "barely": boostDecr, "hardly": boostDecr,
		"kinda": boostDecr, "less": boostDecr, "little": boostDecr,
		"marginally": boostDecr, "occasionally": boostDecr, "partly": boostDecr,
		"scarcely": boostDecr, "slightly": boostDecr, "somewhat": boostDecr,
		"sorta": boostDecr,
	}

	negations = map[string]bool{
		"aint": true, "arent": true, "cannot": true, "cant": true, "couldnt": true,
		"darent": true, "didnt": true, "doesnt": true, "dont": true, "hadnt": true,
		"hasnt": true, "havent": true, "isnt": true, "mightnt": true, "mustnt": true,
		"neither": true, "neednt": true, "never": true, "none": true, "nope": true,
		"nor": true, "not": true, "nothing": true, "nowhere": true, "oughtnt": true,
		"shant": true, "shouldnt": true, "uhuh": true, "wasnt": true, "werent": true,
		"without": true, "wont": true, "wouldnt": true, "rarely": true, "seldom": true,
		"despite": true,
	}
)

// Analyzer scores text against a valence lexicon.
type Analyzer struct {
	lexicon Lexicon
}

// NewAnalyzer returns an analyzer over lex.
func NewAnalyzer(lex Lexicon) (*Analyzer, error) {
	if len(lex) == 0 {
		return nil, errors.New("lexicon required")
	}
	return &Analyzer{lexicon: lex}, nil
}

// Compound returns the normalized polarity of text in [-1, 1].
func (a *Analyzer) Compound(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	lower := make([]string, len(tokens))
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}
	capDiff := hasCapDifferential(tokens)

	valences := make([]float64, len(tokens))
	for i := range tokens {
		valences[i] = a.valence(tokens, lower, i, capDiff)
	}

	applyButRule(lower, valences)

	var sum float64
	for _, v := range valences {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	punct := punctuationEmphasis(text)
	if sum > 0 {
		sum += punct
	} else {
		sum -= punct
	}

	return normalize(sum)
}

func (a *Analyzer) valence(tokens, lower []string, i int, capDiff bool) float64 {
	if _, ok := boosters[lower[i]]; ok {
		return 0
	}
	if lower[i] == "kind" && i < len(lower)-1 && lower[i+1] == "of" {
		return 0
	}

	v, ok := a.lexicon[lower[i]]
	if !ok || v == 0 {
		return 0
	}

	// "no" before another lexicon word only negates it
	if lower[i] == "no" && i < len(lower)-1 {
		if _, next := a.lexicon[lower[i+1]]; next {
			v = 0
		}
	}
	if (i > 0 && lower[i-1] == "no") || (i > 1 && lower[i-2] == "no") ||
		(i > 2 && lower[i-3] == "no" && (lower[i-1] == "or" || lower[i-1] == "nor")) {
		v = a.lexicon[lower[i]] * negScalar
	}

	if capDiff && isUpper(tokens[i]) {
		if v > 0 {
			v += capsIncr
		} else {
			v -= capsIncr
		}
	}

	for back := 1; back <= lookBack && i-back >= 0; back++ {
		prev := lower[i-back]
		if _, inLex := a.lexicon[prev]; inLex {
			continue
		}
		s := boosterScalar(tokens[i-back], prev, v, capDiff)
		switch back {
		case 2:
			s *= 0.95
		case 3:
			s *= 0.9
		}
		v += s
		v = negationCheck(v, lower, back, i)
	}

	if i > 0 && lower[i-1] == "least" && (i < 2 || (lower[i-2] != "at" && lower[i-2] != "very")) {
		v *= negScalar
	}

	return v
}

// negationCheck applies negation and the "never so", "never this" and
// "without doubt" idioms for the token back positions before i.
func negationCheck(v float64, lower []string, back, i int) float64 {
	emph := func(w string) bool { return w == "so" || w == "this" }

	switch back {
	case 1:
		if isNegated(lower[i-1]) {
			return v * negScalar
		}
	case 2:
		switch {
		case lower[i-2] == "never" && emph(lower[i-1]):
			return v * neverScalar
		case lower[i-2] == "without" && lower[i-1] == "doubt":
			return v
		case isNegated(lower[i-2]):
			return v * negScalar
		}
	case 3:
		switch {
		case (lower[i-3] == "never" && emph(lower[i-2])) || emph(lower[i-1]):
			return v * neverScalar
		case lower[i-3] == "without" && (lower[i-2] == "doubt" || lower[i-1] == "doubt"):
			return v
		case isNegated(lower[i-3]):
			return v * negScalar
		}
	}
	return v
}

func boosterScalar(token, lower string, valence float64, capDiff bool) float64 {
	scalar, ok := boosters[lower]
	if !ok {
		return 0
	}
	if valence < 0 {
		scalar = -scalar
	}
	if capDiff && isUpper(token) {
		if valence > 0 {
			scalar += capsIncr
		} else {
			scalar -= capsIncr
		}
	}
	return scalar
}

func applyButRule(lower []string, valences []float64) {
	bi := -1
	for i, w := range lower {
		if w == "but" {
			bi = i
			break
		}
	}
	if bi < 0 {
		return
	}
	for i := range valences {
		switch {
		case i < bi:
			valences[i] *= butBefore
		case i > bi:
			valences[i] *= butAfter
		}
	}
}

func punctuationEmphasis(text string) float64 {
	ep := math.Min(float64(strings.Count(text, "!")), exclaimMax) * exclaimIncr

	var qm float64
	if n := strings.Count(text, "?"); n > 1 {
		if n <= 3 {
			qm = float64(n) * questionIncr
		} else {
			qm = questionMax
		}
	}
	return ep + qm
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normAlpha)
	return math.Max(-1, math.Min(1, n))
}

func isNegated(lower string) bool {
	return negations[strings.ReplaceAll(lower, "'", "")] || strings.Contains(lower, "n't")
}

func hasCapDifferential(tokens []string) bool {
	upper := 0
	for _, t := range tokens {
		if isUpper(t) {
			upper++
		}
	}
	return upper > 0 && upper < len(tokens)
}

// isUpper reports whether token has at least one letter and no lower case letters.
func isUpper(token string) bool {
	letters := false
	for _, r := range token {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			letters = true
		}
	}
	return letters
}

// tokenize splits on white space and trims surrounding punctuation unless
// that leaves two characters or fewer, so emoticons and short words like
// "ok!" stay as written. Tokens of a single character are dropped.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	list := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.Trim(f, asciiPunct)
		if utf8.RuneCountInString(t) <= 2 {
			t = f
		}
		if utf8.RuneCountInString(t) <= 1 {
			continue
		}
		list = append(list, t)
	}
	return list
}
