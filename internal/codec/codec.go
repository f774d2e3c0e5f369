// Package codec converts catalog entities to and from the JSON documents
// used for catalog export and import.
//
// Field names are fixed by previously exported files:
//
//	DishType: {"name", "id", "image"?}
//	Recipe:   {"name", "recipeDescription", "ingredients"?, "type", "id", "image"?}
//
// Images are standard base64 strings and are omitted when absent.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"recipebook/internal/model"

	"github.com/google/uuid"
)

var (
	errMissingField = errors.New("missing required field")
	errNullField    = errors.New("required field is null")
)

type dishTypeDocument struct {
	Name  string    `json:"name"`
	ID    uuid.UUID `json:"id"`
	Image *[]byte   `json:"image,omitempty"`
}

type recipeDocument struct {
	Name        string    `json:"name"`
	Description string    `json:"recipeDescription"`
	Ingredients []string  `json:"ingredients"`
	Type        string    `json:"type"`
	ID          uuid.UUID `json:"id"`
	Image       *[]byte   `json:"image,omitempty"`
}

// EncodeDishTypes encodes dish types as a JSON array.
func EncodeDishTypes(dishTypes []model.DishType) ([]byte, error) {
	docs := make([]dishTypeDocument, 0, len(dishTypes))
	for _, dt := range dishTypes {
		docs = append(docs, dishTypeDocument{
			Name:  dt.Name,
			ID:    dt.ID,
			Image: imagePointer(dt.Image),
		})
	}
	return marshal(docs)
}

// EncodeRecipes encodes recipes as a JSON array. Recipes without ingredients
// are written with an empty "ingredients" array.
func EncodeRecipes(recipes []model.Recipe) ([]byte, error) {
	docs := make([]recipeDocument, 0, len(recipes))
	for _, r := range recipes {
		ingredients := r.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		docs = append(docs, recipeDocument{
			Name:        r.Name,
			Description: r.Description,
			Ingredients: ingredients,
			Type:        r.Type,
			ID:          r.ID,
			Image:       imagePointer(r.Image),
		})
	}
	return marshal(docs)
}

// DecodeDishTypes decodes a JSON array of dish types.
// It fails with *model.DecodeError when the input is malformed or an element
// lacks "name" or "id".
func DecodeDishTypes(data []byte) ([]model.DishType, error) {
	objects, err := splitArray(data)
	if err != nil {
		return nil, err
	}

	dishTypes := make([]model.DishType, 0, len(objects))
	for i, obj := range objects {
		var dt model.DishType
		if dt.Name, err = requiredString(obj, i, "name"); err != nil {
			return nil, err
		}
		if dt.ID, err = requiredUUID(obj, i, "id"); err != nil {
			return nil, err
		}
		dt.Image = optionalImage(obj, "image")
		dishTypes = append(dishTypes, dt)
	}
	return dishTypes, nil
}

// DecodeRecipes decodes a JSON array of recipes.
// It fails with *model.DecodeError when the input is malformed or an element
// lacks "name", "recipeDescription", "type" or "id". A missing or malformed
// "ingredients" value decodes to an empty list.
func DecodeRecipes(data []byte) ([]model.Recipe, error) {
	objects, err := splitArray(data)
	if err != nil {
		return nil, err
	}

	recipes := make([]model.Recipe, 0, len(objects))
	for i, obj := range objects {
		var r model.Recipe
		if r.Name, err = requiredString(obj, i, "name"); err != nil {
			return nil, err
		}
		if r.Description, err = requiredString(obj, i, "recipeDescription"); err != nil {
			return nil, err
		}
		if r.Type, err = requiredString(obj, i, "type"); err != nil {
			return nil, err
		}
		if r.ID, err = requiredUUID(obj, i, "id"); err != nil {
			return nil, err
		}
		r.Ingredients = optionalStrings(obj, "ingredients")
		r.Image = optionalImage(obj, "image")
		recipes = append(recipes, r)
	}
	return recipes, nil
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog document: %w", err)
	}
	return data, nil
}

func imagePointer(img model.Image) *[]byte {
	data, ok := img.Bytes()
	if !ok {
		return nil
	}
	if data == nil {
		data = []byte{}
	}
	return &data
}

// splitArray parses a JSON array of objects, keeping each field raw.
func splitArray(data []byte) ([]map[string]json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, &model.DecodeError{Index: -1, Err: err}
	}
	if elements == nil {
		// "null" is valid JSON but not an array.
		return nil, &model.DecodeError{Index: -1, Err: errors.New("document is not a JSON array")}
	}

	objects := make([]map[string]json.RawMessage, 0, len(elements))
	for i, raw := range elements {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return nil, &model.DecodeError{Index: i, Err: errors.New("element is not a JSON object")}
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requiredString(obj map[string]json.RawMessage, index int, field string) (string, error) {
	raw, ok := obj[field]
	if !ok {
		return "", &model.DecodeError{Index: index, Field: field, Err: errMissingField}
	}
	if isNull(raw) {
		return "", &model.DecodeError{Index: index, Field: field, Err: errNullField}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &model.DecodeError{Index: index, Field: field, Err: err}
	}
	return s, nil
}

func requiredUUID(obj map[string]json.RawMessage, index int, field string) (uuid.UUID, error) {
	s, err := requiredString(obj, index, field)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &model.DecodeError{Index: index, Field: field, Err: err}
	}
	return id, nil
}

func optionalStrings(obj map[string]json.RawMessage, field string) []string {
	values := []string{}
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return values
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return values
	}
	return decoded
}

func optionalImage(obj map[string]json.RawMessage, field string) model.Image {
	raw, ok := obj[field]
	if !ok || isNull(raw) {
		return model.NoImage
	}
	var data []byte
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.NoImage
	}
	return model.NewImage(data)
}

// WithPath attaches a document location to a decode error.
func WithPath(err error, path string) error {
	var decodeErr *model.DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Path == "" {
		decodeErr.Path = path
	}
	return err
}
