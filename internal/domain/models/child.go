// internal/domain/models/child.go
package models

// Child is a child taking part in a trip leg.
//
// Identity is ID. Names are meant to be unique within a class but nothing
// enforces it; the roster de-duplicates by name (see rostersync).
type Child struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
