package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Document is the wire form of a syncable entity as stored in the remote
// document store.
type Document interface {
	Collection() EntityType
	DocID() string
	DocOwner() string
	DocModified() time.Time
}

var validate = validator.New()

// DecodeDocument parses a raw remote record and re-runs the range and
// non-empty checks the validating constructors enforce. Only after these pass
// may the document's trusted restore path be used; a record that fails here
// is rejected whole, never partially applied.
func DecodeDocument(collection EntityType, raw []byte) (Document, error) {
	var doc Document
	switch collection {
	case EntityFood:
		doc = &FoodDocument{}
	case EntityExercise:
		doc = &ExerciseDocument{}
	case EntityMeal:
		doc = &MealDocument{}
	case EntityDailyLog:
		doc = &DailyLogDocument{}
	default:
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", collection, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid %s document: %w", collection, err)
	}
	if doc.DocModified().IsZero() {
		return nil, fmt.Errorf("invalid %s document %s: missing last_modified", collection, doc.DocID())
	}
	if err := checkDocumentNames(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkDocumentNames rejects whitespace-only names, which the `required` tag
// alone would let through.
func checkDocumentNames(doc Document) error {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	switch d := doc.(type) {
	case *FoodDocument:
		if blank(d.Name) {
			return fmt.Errorf("invalid foods document %s: blank name", d.ID)
		}
	case *ExerciseDocument:
		if blank(d.Name) {
			return fmt.Errorf("invalid exercises document %s: blank name", d.ID)
		}
	case *MealDocument:
		if blank(d.Name) {
			return fmt.Errorf("invalid meals document %s: blank name", d.ID)
		}
		for i, ing := range d.Ingredients {
			if blank(ing.Name) || blank(ing.Unit) {
				return fmt.Errorf("invalid meals document %s: blank ingredient %d", d.ID, i+1)
			}
		}
	}
	return nil
}
