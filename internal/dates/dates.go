// Package dates разбирает свободный текст дат поездки ("October 2023",
// "early March 2024", "2023-10-12") в год и месяц.
// Разбор строго best-effort: нераспознанный текст дает nil/nil, ошибок не бывает.
package dates

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
)

// Resolved - результат разбора свободного текста даты.
// Nil-поля означают "не удалось определить".
type Resolved struct {
	Year  *int
	Month *int // 1-12
}

var monthNames = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

var (
	wordRe = regexp.MustCompile(`[a-zA-Z]+`)
	yearRe = regexp.MustCompile(`\b(1[0-9]{3}|2[0-9]{3})\b`)
)

// Resolve извлекает год и/или месяц из свободного текста.
// Берется первая интерпретация; день и время не возвращаются.
func Resolve(text string) Resolved {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Resolved{}
	}

	// Сначала полный парсер: покрывает машинные форматы ("2023-10-12", "12 Oct 2023", ...)
	if t, err := dateparse.ParseAny(trimmed); err == nil {
		year := t.Year()
		month := int(t.Month())
		return Resolved{Year: &year, Month: &month}
	}

	// Эвристика для текстов вида "October 2023" или "early March",
	// которые полный парсер не принимает: ищем первое имя месяца и первый год.
	var res Resolved
	for _, word := range wordRe.FindAllString(strings.ToLower(trimmed), -1) {
		if m, ok := monthNames[word]; ok {
			month := m
			res.Month = &month
			break
		}
	}
	if match := yearRe.FindString(trimmed); match != "" {
		if y, err := strconv.Atoi(match); err == nil {
			res.Year = &y
		}
	}
	return res
}
