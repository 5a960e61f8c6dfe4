package domain

import (
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	LangEN Lang = "en"
	LangVI Lang = "vi"
)

var langMatcher = language.NewMatcher([]language.Tag{language.English, language.Vietnamese})

// ParseLang maps a BCP-47 tag ("vi-VN", "EN", "en-US") to a supported Lang.
func ParseLang(s string) (Lang, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return LangEN, true
	case "vi":
		return LangVI, true
	}
	return "", false
}

// MatchLang picks en|vi from an Accept-Language header, English when nothing matches.
func MatchLang(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LangEN
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return LangEN
	}
	return LangVI
}

// Other returns the sibling language.
func (l Lang) Other() Lang {
	if l == LangVI {
		return LangEN
	}
	return LangVI
}

// LocalizedValue is one logical field held in both languages.
type LocalizedValue struct {
	EN string `json:"en"`
	VI string `json:"vi"`
}

func L(en, vi string) LocalizedValue { return LocalizedValue{EN: en, VI: vi} }

// Localized dereferences p, treating nil as the empty pair.
func Localized(p *LocalizedValue) LocalizedValue {
	if p == nil {
		return LocalizedValue{}
	}
	return *p
}

func (v LocalizedValue) side(lang Lang) string {
	if lang == LangVI {
		return v.VI
	}
	return v.EN
}

// Get returns v[lang], then v[fallback], then "".
func (v LocalizedValue) Get(lang, fallback Lang) string {
	if s := v.side(lang); s != "" {
		return s
	}
	return v.side(fallback)
}

// WithLang replaces one side only. The sibling is left as is, even when empty.
func (v LocalizedValue) WithLang(lang Lang, text string) LocalizedValue {
	if lang == LangVI {
		v.VI = text
	} else {
		v.EN = text
	}
	return v
}

// ReconcileForSave back-fills an empty side from its sibling.
// Runs once at submission; editing never fills a side the user left blank.
func (v LocalizedValue) ReconcileForSave() LocalizedValue {
	switch {
	case v.EN == "" && v.VI != "":
		v.EN = v.VI
	case v.VI == "" && v.EN != "":
		v.VI = v.EN
	}
	return v
}

func (v LocalizedValue) IsEmpty() bool { return v.EN == "" && v.VI == "" }

// HasContent reports whether either side holds non-blank text.
func (v LocalizedValue) HasContent() bool {
	return strings.TrimSpace(v.EN) != "" || strings.TrimSpace(v.VI) != ""
}

// MatchesName compares against another name side by side, case-insensitively.
// Blank sides never match.
func (v LocalizedValue) MatchesName(other LocalizedValue) bool {
	eq := func(a, b string) bool {
		a, b = strings.TrimSpace(a), strings.TrimSpace(b)
		return a != "" && b != "" && strings.EqualFold(a, b)
	}
	return eq(v.EN, other.EN) || eq(v.VI, other.VI)
}

// LocalizedList is a per-language list, used for SEO keywords.
type LocalizedList struct {
	EN []string `json:"en"`
	VI []string `json:"vi"`
}

func (v LocalizedList) Get(lang, fallback Lang) []string {
	pick := func(l Lang) []string {
		if l == LangVI {
			return v.VI
		}
		return v.EN
	}
	if s := pick(lang); len(s) > 0 {
		return s
	}
	return pick(fallback)
}

func (v LocalizedList) ReconcileForSave() LocalizedList {
	out := v.Clone()
	switch {
	case len(out.EN) == 0 && len(out.VI) > 0:
		out.EN = append([]string(nil), out.VI...)
	case len(out.VI) == 0 && len(out.EN) > 0:
		out.VI = append([]string(nil), out.EN...)
	}
	return out
}

// Clone never returns nil slices, so encoded drafts carry [] rather than null.
func (v LocalizedList) Clone() LocalizedList {
	return LocalizedList{EN: cloneStrings(v.EN), VI: cloneStrings(v.VI)}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
