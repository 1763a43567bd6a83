package exercise

import "fmt"

// Template selects how a record is turned into embedding text. The two layouts
// produce different vectors for the same record and are not interchangeable.
type Template string

const (
	// TemplateLabeled is one "Label: value" line per field, used for the document store.
	TemplateLabeled Template = "labeled"
	// TemplateSentence is a single sentence-style line, used for the vector file.
	TemplateSentence Template = "sentence"
)

// Compose renders r with the given template. Unknown templates fall back to TemplateLabeled.
func Compose(t Template, r Record) string {
	switch t {
	case TemplateSentence:
		return fmt.Sprintf("Exercise: %s. Target: %s. Equipment: %s. Level: %s. Description: %s",
			r.Field(KeyTitle), r.Field(KeyBodyPart), r.Field(KeyEquipment), r.Field(KeyLevel), r.Field(KeyDesc))
	default:
		return fmt.Sprintf("Title: %s\nDescription: %s\nType: %s\nBody Part: %s\nEquipment: %s\nLevel: %s",
			r.Field(KeyTitle), r.Field(KeyDesc), r.Field(KeyType), r.Field(KeyBodyPart), r.Field(KeyEquipment), r.Field(KeyLevel))
	}
}
