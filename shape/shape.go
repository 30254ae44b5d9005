package shape

import (
	"fmt"
	"regexp"
)

// Tag is the coarse lexical class of a token, derived from its surface form.
type Tag int

const (
	Lowercase Tag = iota
	TwoDigit
	FourDigit
	AlphaNum
	DigitHyphen
	DigitSlash
	DigitComma
	DigitPeriod
	Numeric
	SingleCap
	AllCaps
	CapPeriod
	InitialCap
	Other
)

// codes are the short names used inside feature strings. Models trained
// against these names depend on them.
var codes = [...]string{
	Lowercase:   "lc",
	TwoDigit:    "2d",
	FourDigit:   "4d",
	AlphaNum:    "an",
	DigitHyphen: "dd",
	DigitSlash:  "ds",
	DigitComma:  "dc",
	DigitPeriod: "dp",
	Numeric:     "num",
	SingleCap:   "sc",
	AllCaps:     "ac",
	CapPeriod:   "cp",
	InitialCap:  "ic",
	Other:       "other",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(codes) {
		return "?"
	}
	return codes[t]
}

// Tags returns all tags in precedence order.
func Tags() []Tag {
	tags := make([]Tag, len(codes))
	for i := range codes {
		tags[i] = Tag(i)
	}
	return tags
}

// ParseTag returns the Tag for its short code.
func ParseTag(code string) (Tag, error) {
	for i, c := range codes {
		if c == code {
			return Tag(i), nil
		}
	}
	return Other, fmt.Errorf("unknown shape code: %q", code)
}

// Classifier maps a token to its shape.
type Classifier interface {
	Classify(token string) Tag
}

var (
	lowercase  = regexp.MustCompile(`^[a-z]+$`)
	twoDigits  = regexp.MustCompile(`^[0-9][0-9]$`)
	fourDigits = regexp.MustCompile(`^[0-9][0-9][0-9][0-9]$`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasLetter  = regexp.MustCompile(`[a-zA-Z]`)
	hasHyphen  = regexp.MustCompile(`-`)
	hasSlash   = regexp.MustCompile(`/`)
	hasComma   = regexp.MustCompile(`,`)
	hasPeriod  = regexp.MustCompile(`\.`)
	allCaps    = regexp.MustCompile(`^[A-Z]+$`)
	capPeriod  = regexp.MustCompile(`^[A-Z]\.$`)
	initialCap = regexp.MustCompile(`^[A-Z]`)
)

type rule struct {
	match func(string) bool
	tag   Tag
}

// digitRules decide among the tokens that contain at least one digit.
var digitRules = []rule{
	{hasLetter.MatchString, AlphaNum},
	{hasHyphen.MatchString, DigitHyphen},
	{hasSlash.MatchString, DigitSlash},
	{hasComma.MatchString, DigitComma},
	{hasPeriod.MatchString, DigitPeriod},
}

// rules is evaluated in order, the first match wins. Reordering changes the
// classification of existing corpora.
var rules = []rule{
	{lowercase.MatchString, Lowercase},
	{twoDigits.MatchString, TwoDigit},
	{fourDigits.MatchString, FourDigit},
	{hasNumber.MatchString, Numeric}, // refined by digitRules
	{func(s string) bool { return len(s) == 1 && allCaps.MatchString(s) }, SingleCap},
	{allCaps.MatchString, AllCaps},
	{capPeriod.MatchString, CapPeriod},
	{initialCap.MatchString, InitialCap},
}

// Classify returns the shape of token. It never fails: tokens no rule
// matches, the empty string included, are Other.
func Classify(token string) Tag {
	for _, r := range rules {
		if !r.match(token) {
			continue
		}
		if r.tag != Numeric {
			return r.tag
		}
		for _, dr := range digitRules {
			if dr.match(token) {
				return dr.tag
			}
		}
		return Numeric
	}
	return Other
}

type cascade struct{}

func (cascade) Classify(token string) Tag { return Classify(token) }

// Default is the uncached Classifier. It is safe for concurrent use.
var Default Classifier = cascade{}
