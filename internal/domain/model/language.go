package model

import "fmt"

type Language string

const (
	LanguagePython Language = "python"
	LanguageJava   Language = "java"
	LanguageC      Language = "c"

	DefaultLanguage = LanguagePython
)

// Languages lists the selectable languages in display order.
var Languages = []Language{LanguagePython, LanguageJava, LanguageC}

func (l Language) Valid() bool {
	switch l {
	case LanguagePython, LanguageJava, LanguageC:
		return true
	}
	return false
}

func (l Language) DisplayName() string {
	switch l {
	case LanguagePython:
		return "Python"
	case LanguageJava:
		return "Java"
	case LanguageC:
		return "C"
	}
	return string(l)
}

func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !l.Valid() {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return l, nil
}
