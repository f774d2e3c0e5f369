package model

import "fmt"

// MergePolicy decides what an import does with a record whose ID already exists.
type MergePolicy string

const (
	// MergeDuplicate always inserts a new row, even when the ID is taken.
	MergeDuplicate MergePolicy = "duplicate"
	// MergeSkip keeps the stored record and drops the imported one.
	MergeSkip MergePolicy = "skip"
	// MergeOverwrite replaces every stored row carrying the ID.
	MergeOverwrite MergePolicy = "overwrite"
)

// ParseMergePolicy parses a merge policy name. An empty string yields MergeDuplicate.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", MergeDuplicate:
		return MergeDuplicate, nil
	case MergeSkip, MergeOverwrite:
		return MergePolicy(s), nil
	default:
		return "", fmt.Errorf("invalid merge policy: %s (must be duplicate, skip, or overwrite)", s)
	}
}

// DeletePolicy decides what happens to recipes when their dish type is deleted.
type DeletePolicy string

const (
	// DeleteOrphan leaves recipes pointing at the removed name.
	DeleteOrphan DeletePolicy = "orphan"
	// DeleteNullify clears the type of referencing recipes.
	DeleteNullify DeletePolicy = "nullify"
	// DeleteCascade deletes referencing recipes.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteBlock refuses to delete a dish type that is still referenced.
	DeleteBlock DeletePolicy = "block"
)

// ParseDeletePolicy parses a delete policy name. An empty string yields DeleteOrphan.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", DeleteOrphan:
		return DeleteOrphan, nil
	case DeleteNullify, DeleteCascade, DeleteBlock:
		return DeletePolicy(s), nil
	default:
		return "", fmt.Errorf("invalid delete policy: %s (must be orphan, nullify, cascade, or block)", s)
	}
}
