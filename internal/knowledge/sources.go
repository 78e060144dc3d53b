package knowledge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/guttosm/fertilizer-service/internal/domain/model"
)

// MaxSources is how many passages are cited with an answer.
const MaxSources = 3

var issueNumber = regexp.MustCompile(`\d+`)

var guideNames = []struct {
	keyword string
	name    string
}{
	{"cucumber", "오이 재배 가이드"},
	{"tomato", "토마토 재배 가이드"},
	{"cabbage", "배추 재배 가이드"},
}

// DisplayName turns a document file name into a readable title.
func DisplayName(source string) string {
	if source == "" {
		return "unknown"
	}
	name := strings.ReplaceAll(strings.ReplaceAll(source, "_ocr_OCR.pdf", ""), "_", " ")
	lower := strings.ToLower(name)

	if strings.Contains(lower, "weekly farm") {
		if n := issueNumber.FindString(name); n != "" {
			return "주간농사정보 제" + n + "호"
		}
		return name
	}
	for _, g := range guideNames {
		if strings.Contains(lower, g.keyword) {
			return g.name
		}
	}
	return name
}

// FormatSources renders the first MaxSources passages as "1. name (p.page)".
func FormatSources(passages []model.Passage) []string {
	n := len(passages)
	if n > MaxSources {
		n = MaxSources
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%d. %s (p.%d)", i+1, DisplayName(passages[i].Source), passages[i].Page))
	}
	return out
}
