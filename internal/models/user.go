package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a document in the users collection. Password is never serialized
// into JSON responses.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PhoneNumber      string             `bson:"phoneNumber" json:"phoneNumber"`
	Password         string             `bson:"password,omitempty" json:"-"`
	FcmToken         string             `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	Name             string             `bson:"name,omitempty" json:"name,omitempty"`
	Age              int                `bson:"age,omitempty" json:"age,omitempty"`
	Profession       string             `bson:"profession,omitempty" json:"profession,omitempty"`
	Institute        string             `bson:"institute,omitempty" json:"institute,omitempty"`
	Company          string             `bson:"company,omitempty" json:"company,omitempty"`
	GraduationYear   int                `bson:"graduationYear,omitempty" json:"graduationYear,omitempty"`
	CurrentCity      string             `bson:"currentCity,omitempty" json:"currentCity,omitempty"`
	HomeCity         string             `bson:"homeCity,omitempty" json:"homeCity,omitempty"`
	Bio              string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Interests        []string           `bson:"interests" json:"interests"`
	Connects         []string           `bson:"connects" json:"connects"`
	ReceivedRequests []string           `bson:"receivedRequests" json:"receivedRequests"`
	SentRequests     []string           `bson:"sentRequests" json:"sentRequests"`
	CreatedOn        time.Time          `bson:"createdOn" json:"createdOn"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
}

// Relation list field names as stored in the user document.
const (
	RelationConnects         = "connects"
	RelationSentRequests     = "sentRequests"
	RelationReceivedRequests = "receivedRequests"
)

// RelationUpdate describes list mutations applied to a single user document
// in one write. Keys are relation field names, values are peer user ids.
type RelationUpdate struct {
	Push map[string]string
	Pull map[string]string
}

// Inverse returns the update that undoes this one. Used for compensating a
// failed second write in a two-document transition.
func (u RelationUpdate) Inverse() RelationUpdate {
	inv := RelationUpdate{}
	if len(u.Push) > 0 {
		inv.Pull = make(map[string]string, len(u.Push))
		for field, id := range u.Push {
			inv.Pull[field] = id
		}
	}
	if len(u.Pull) > 0 {
		inv.Push = make(map[string]string, len(u.Pull))
		for field, id := range u.Pull {
			inv.Push[field] = id
		}
	}
	return inv
}

// ProfilePatch carries the independently updatable profile fields. Nil
// pointers are left untouched by the store; non-nil zero values are written.
type ProfilePatch struct {
	FcmToken       *string   `bson:"fcmToken,omitempty" json:"fcmToken"`
	Name           *string   `bson:"name,omitempty" json:"name"`
	Age            *int      `bson:"age,omitempty" json:"age"`
	Profession     *string   `bson:"profession,omitempty" json:"profession"`
	Institute      *string   `bson:"institute,omitempty" json:"institute"`
	Company        *string   `bson:"company,omitempty" json:"company"`
	GraduationYear *int      `bson:"graduationYear,omitempty" json:"graduationYear"`
	CurrentCity    *string   `bson:"currentCity,omitempty" json:"currentCity"`
	HomeCity       *string   `bson:"homeCity,omitempty" json:"homeCity"`
	Bio            *string   `bson:"bio,omitempty" json:"bio"`
	Interests      *[]string `bson:"interests,omitempty" json:"interests"`
}

func (p *ProfilePatch) IsEmpty() bool {
	return p == nil || *p == ProfilePatch{}
}

// FilterCriteria matches users whose field value is a member of the given
// set. An empty list for a criterion matches no documents.
type FilterCriteria struct {
	Profession []string `json:"profession"`
	Company    []string `json:"company"`
	Institute  []string `json:"institute"`
}
