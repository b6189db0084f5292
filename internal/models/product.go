package models

import "strings"

const MaxProductNameLength = 200

// Product is the projection of a stored product document.
type Product struct {
	ID    ObjectID `bson:"_id,omitempty" json:"id"`
	Name  string   `bson:"name" json:"name"`
	Price float64  `bson:"price" json:"price"`
}

func (Product) CollectionName() string {
	return "products"
}

func (p Product) GetUpdates() any {
	return ProductFields{Name: p.Name, Price: p.Price}
}

func (p Product) GetObjectID() ObjectID {
	return p.ID
}

// ProductInput is the client-supplied body for create and update.
type ProductInput struct {
	Name  string   `json:"name" form:"name" validate:"required,max=200"`
	Price *float64 `json:"price" form:"price" validate:"required,gte=0"`
}

// Normalize trims the name in place before validation.
func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// ProductFields is the replace-of-fields update document.
type ProductFields struct {
	Name  string  `bson:"name"`
	Price float64 `bson:"price"`
}

// Fields expects a validated input; a nil price reads as 0.
func (in ProductInput) Fields() ProductFields {
	fields := ProductFields{Name: in.Name}
	if in.Price != nil {
		fields.Price = *in.Price
	}
	return fields
}

// ProductPage is one bounded read plus the number of documents matching the
// filter regardless of paging.
type ProductPage struct {
	Items []*Product `json:"items"`
	Total int64      `json:"total"`
}
