package ocr

// Language identifies a script family recognized by the engine pool. The
// family, not any individual tongue, is the identity used for engine caching:
// recognizing English and French text shares one Latin engine.
type Language string

// Script families. These are the canonical pool keys.
const (
	Latin      Language = "latin"
	Chinese    Language = "chinese"
	Japanese   Language = "japanese"
	Korean     Language = "korean"
	Devanagari Language = "devanagari"
	Cyrillic   Language = "cyrillic"
	Arabic     Language = "arabic"
)

// Legacy per-tongue values kept for callers that predate script-family
// grouping. Each aliases to a family via Script.
const (
	English    Language = "english"
	German     Language = "german"
	French     Language = "french"
	Spanish    Language = "spanish"
	Italian    Language = "italian"
	Portuguese Language = "portuguese"
	Russian    Language = "russian"
	Ukrainian  Language = "ukrainian"
	Hindi      Language = "hindi"
	Mandarin   Language = "mandarin"
)

var legacyScripts = map[Language]Language{
	English:    Latin,
	German:     Latin,
	French:     Latin,
	Spanish:    Latin,
	Italian:    Latin,
	Portuguese: Latin,
	Russian:    Cyrillic,
	Ukrainian:  Cyrillic,
	Hindi:      Devanagari,
	Mandarin:   Chinese,
}

// Script resolves the language to its script family. Families map to
// themselves; unknown values default to Latin so a stale persisted setting
// still produces a usable engine.
func (l Language) Script() Language {
	switch l {
	case Latin, Chinese, Japanese, Korean, Devanagari, Cyrillic, Arabic:
		return l
	}
	if s, ok := legacyScripts[l]; ok {
		return s
	}
	return Latin
}

// IsScript reports whether the value is a canonical script family rather than
// a legacy alias.
func (l Language) IsScript() bool { return l.Script() == l }

// TessdataCode returns the Tesseract traineddata code for the script family
// (e.g., "eng" for Latin, "chi_sim" for Chinese).
func (l Language) TessdataCode() string {
	switch l.Script() {
	case Chinese:
		return "chi_sim"
	case Japanese:
		return "jpn"
	case Korean:
		return "kor"
	case Devanagari:
		return "hin"
	case Cyrillic:
		return "rus"
	case Arabic:
		return "ara"
	default:
		return "eng"
	}
}

func (l Language) String() string { return string(l) }
