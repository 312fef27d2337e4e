package classifier

import "strings"

// Category is one classification outcome for a message.
type Category string

const (
	CategoryImportant  Category = "Important"
	CategoryPromotions Category = "Promotions"
	CategorySocial     Category = "Social"
	CategoryMarketing  Category = "Marketing"
	CategorySpam       Category = "Spam"
	CategoryGeneral    Category = "General"

	// CategoryUnclassified marks messages whose model call failed. A
	// successful model answer is never mapped here; unrecognized
	// answers coerce to CategoryGeneral instead.
	CategoryUnclassified Category = "Unclassified"
)

// taxonomy is the closed set of labels a successful model call may
// produce.
var taxonomy = map[Category]bool{
	CategoryImportant:  true,
	CategoryPromotions: true,
	CategorySocial:     true,
	CategoryMarketing:  true,
	CategorySpam:       true,
	CategoryGeneral:    true,
}

// Categories returns the six labels the model is asked to choose from,
// in prompt order.
func Categories() []Category {
	return []Category{
		CategoryImportant,
		CategoryPromotions,
		CategorySocial,
		CategoryMarketing,
		CategorySpam,
		CategoryGeneral,
	}
}

// Normalize coerces a free-text model answer onto the taxonomy. It
// keeps only the first line, strips everything that is not an ASCII
// letter, title-cases the remainder, and falls back to General when the
// result is not one of the six labels. It is total: every input maps to
// a valid category.
func Normalize(answer string) Category {
	line := answer
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	var b strings.Builder
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	token := b.String()
	if token == "" {
		return CategoryGeneral
	}

	token = strings.ToUpper(token[:1]) + strings.ToLower(token[1:])
	if c := Category(token); taxonomy[c] {
		return c
	}
	return CategoryGeneral
}
