package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID is the external, opaque form of a document identifier. It is
// stored as a native ObjectID and surfaces as its hex string.
//
//nolint:recvcheck // use pointer receiver to match bson.UnmarshalValue
type ObjectID string

// ParseObjectID decodes an external identifier. Anything that is not a
// 24 character hex ObjectID fails with ErrInvalidIdentifier.
func ParseObjectID(s string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidIdentifier.Wrap(err)
	}
	return oid, nil
}

func NewObjectID(oid primitive.ObjectID) ObjectID {
	return ObjectID(oid.Hex())
}

func (o ObjectID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	p, err := primitive.ObjectIDFromHex(string(o))
	if err != nil {
		return bson.TypeNull, nil, err
	}
	return bson.MarshalValue(p)
}

func (o *ObjectID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	var p primitive.ObjectID
	err := bson.UnmarshalValue(t, data, &p)
	if err != nil {
		return err
	}
	*o = ObjectID(p.Hex())
	return nil
}

func (o ObjectID) IsZero() bool {
	return o == ""
}

func (o ObjectID) String() string {
	return string(o)
}
