// Package reference holds the static reference data used by the
// recommendation pipeline: the crop code table, the fertilizer catalog and the
// default farm profile.
package reference

import (
	"sort"
	"strings"
)

// DefaultCategory is reported for codes outside the known prefixes.
const DefaultCategory = "기타"

// Crop is one entry of the crop code table.
type Crop struct {
	Name     string `json:"name" example:"맥주보리"`
	Code     string `json:"code" example:"01001"`
	Category string `json:"category" example:"맥류"`
}

var categoryByPrefix = map[string]string{
	"01": "맥류",
	"02": "벼류",
	"03": "콩류",
	"04": "서류",
	"05": "채소류",
	"06": "과수류",
	"07": "특용작물",
	"08": "사료작물",
	"09": "화훼류",
}

// crop codes understood by the soil fertilizer API
var defaultCrops = []struct{ name, code string }{
	{"맥주보리", "01001"}, {"쌀보리", "01002"}, {"밀", "01003"}, {"귀리", "01004"}, {"호밀", "01005"},
	{"쌀", "02001"}, {"찰벼", "02002"}, {"흑미", "02003"},
	{"대두", "03001"}, {"팥", "03002"}, {"녹두", "03003"}, {"강낭콩", "03004"},
	{"감자", "04001"}, {"고구마", "04002"},
	{"배추", "05001"}, {"무", "05002"}, {"당근", "05003"}, {"양파", "05004"},
	{"마늘", "05005"}, {"생강", "05006"}, {"토마토", "05007"}, {"오이", "05008"},
	{"호박", "05009"}, {"가지", "05010"}, {"고추", "05011"}, {"파프리카", "05012"},
	{"사과", "06001"}, {"배", "06002"}, {"복숭아", "06003"}, {"자두", "06004"},
	{"감", "06005"}, {"포도", "06006"}, {"키위", "06007"}, {"딸기", "06008"},
	{"참깨", "07001"}, {"들깨", "07002"}, {"땅콩", "07003"}, {"해바라기", "07004"},
	{"옥수수", "08001"}, {"수수", "08002"}, {"알팔파", "08003"},
	{"국화", "09001"}, {"장미", "09002"}, {"카네이션", "09003"},
}

// Farm records use common names that differ from the table.
var defaultAliases = map[string]string{
	"콩": "대두",
}

// Category returns the crop category for a code, keyed by its two-digit prefix.
func Category(code string) string {
	if len(code) < 2 {
		return DefaultCategory
	}
	if c, ok := categoryByPrefix[code[:2]]; ok {
		return c
	}
	return DefaultCategory
}

// CropTable maps crop names to codes and back. It is immutable after
// construction and safe for concurrent use.
type CropTable struct {
	byName  map[string]Crop
	byCode  map[string]Crop
	aliases map[string]string
	ordered []Crop
}

// NewCropTable builds a table from name/code pairs and name aliases.
// Later duplicates of a name are ignored.
func NewCropTable(pairs map[string]string, aliases map[string]string) *CropTable {
	names := make([]string, 0, len(pairs))
	for name := range pairs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := pairs[names[i]], pairs[names[j]]
		if ci != cj {
			return ci < cj
		}
		return names[i] < names[j]
	})

	t := newCropTable(len(names), aliases)
	for _, name := range names {
		t.add(name, pairs[name])
	}
	return t
}

// DefaultCropTable returns the built-in table.
func DefaultCropTable() *CropTable {
	t := newCropTable(len(defaultCrops), defaultAliases)
	for _, c := range defaultCrops {
		t.add(c.name, c.code)
	}
	return t
}

func newCropTable(size int, aliases map[string]string) *CropTable {
	t := &CropTable{
		byName:  make(map[string]Crop, size),
		byCode:  make(map[string]Crop, size),
		aliases: make(map[string]string, len(aliases)),
		ordered: make([]Crop, 0, size),
	}
	for alias, target := range aliases {
		t.aliases[strings.TrimSpace(alias)] = strings.TrimSpace(target)
	}
	return t
}

func (t *CropTable) add(name, code string) {
	name = strings.TrimSpace(name)
	if name == "" || code == "" {
		return
	}
	if _, exists := t.byName[name]; exists {
		return
	}
	c := Crop{Name: name, Code: code, Category: Category(code)}
	t.byName[name] = c
	if _, exists := t.byCode[code]; !exists {
		t.byCode[code] = c
	}
	t.ordered = append(t.ordered, c)
}

// Lookup resolves a crop name, following aliases. The returned Crop keeps the
// table's canonical name.
func (t *CropTable) Lookup(name string) (Crop, bool) {
	name = strings.TrimSpace(name)
	if c, ok := t.byName[name]; ok {
		return c, true
	}
	if target, ok := t.aliases[name]; ok {
		c, ok := t.byName[target]
		return c, ok
	}
	return Crop{}, false
}

// CropCode returns the crop code for a name.
func (t *CropTable) CropCode(name string) (string, bool) {
	c, ok := t.Lookup(name)
	return c.Code, ok
}

// CropName returns the canonical crop name for a code.
func (t *CropTable) CropName(code string) (string, bool) {
	c, ok := t.byCode[strings.TrimSpace(code)]
	return c.Name, ok
}

// IsSupported reports whether name resolves to a code.
func (t *CropTable) IsSupported(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Crops returns every crop in code order.
func (t *CropTable) Crops() []Crop {
	out := make([]Crop, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// CropsByCategory returns the crops in one category.
func (t *CropTable) CropsByCategory(category string) []Crop {
	var out []Crop
	for _, c := range t.ordered {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// Categories returns the distinct categories in code order.
func (t *CropTable) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range t.ordered {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}

// Len returns the number of crops in the table.
func (t *CropTable) Len() int {
	return len(t.ordered)
}
