package cities

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// the major Ukrainian cities the tracking flow offers. tabletki.ua
// accepts arbitrary city names, this list only seeds the picker.
var Ukraine = []string{
	"Київ", "Харків", "Одеса", "Дніпро", "Донецьк", "Запоріжжя", "Львів",
	"Кривий Ріг", "Миколаїв", "Маріуполь", "Луганськ", "Вінниця",
	"Херсон", "Полтава", "Чернігів", "Черкаси", "Житомир", "Суми",
	"Рівне", "Івано-Франківськ", "Кропивницький", "Тернопіль", "Луцьк",
	"Ужгород", "Кам'янець-Подільський", "Мелітополь", "Бердянськ", "Нікополь",
}

const maxMatches = 10

// Match filters candidates down to those containing the fragment
// (case-insensitive) and ranks them: prefix matches before mid-string
// matches, shorter names before longer ones. at most 10 results,
// an empty fragment yields nothing.
func Match(fragment string, candidates []string) []string {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return nil
	}

	var matched []string
	for _, city := range candidates {
		if strings.Contains(strings.ToLower(city), fragment) {
			matched = append(matched, city)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		iPrefix := strings.HasPrefix(strings.ToLower(matched[i]), fragment)
		jPrefix := strings.HasPrefix(strings.ToLower(matched[j]), fragment)
		if iPrefix != jPrefix {
			return iPrefix
		}
		// character count, not bytes: Cyrillic names are two bytes
		// per letter and would otherwise lose to longer ASCII ones
		return utf8.RuneCountInString(matched[i]) < utf8.RuneCountInString(matched[j])
	})

	if len(matched) > maxMatches {
		matched = matched[:maxMatches]
	}
	return matched
}

const suggestThreshold = 0.72

// Suggest is the fallback for when Match comes up empty: likely
// misspellings ranked by Jaro-Winkler similarity.
func Suggest(fragment string, candidates []string) []string {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return nil
	}

	type scored struct {
		city       string
		similarity float64
	}
	var results []scored
	for _, city := range candidates {
		similarity := matchr.JaroWinkler(fragment, strings.ToLower(city), false)
		if similarity < suggestThreshold {
			continue
		}
		results = append(results, scored{city: city, similarity: similarity})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].similarity > results[j].similarity
	})

	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.city)
	}
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out
}
