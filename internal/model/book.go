package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookCondition describes the physical state of a listed book.
type BookCondition string

const (
	ConditionNew     BookCondition = "New"
	ConditionLikeNew BookCondition = "Like New"
	ConditionGood    BookCondition = "Good"
	ConditionFair    BookCondition = "Fair"
	ConditionPoor    BookCondition = "Poor"
)

// Valid reports whether the condition is one of the known values.
func (c BookCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// Genre is the closed set of genres a book can be listed under.
type Genre string

const (
	GenreFantasy    Genre = "Fantasy"
	GenreSciFi      Genre = "Science Fiction"
	GenreMystery    Genre = "Mystery"
	GenreThriller   Genre = "Thriller"
	GenreRomance    Genre = "Romance"
	GenreHorror     Genre = "Horror"
	GenreBiography  Genre = "Biography"
	GenreHistory    Genre = "History"
	GenreSelfHelp   Genre = "Self-Help"
	GenrePoetry     Genre = "Poetry"
	GenreNonFiction Genre = "Non-Fiction"
	GenreClassic    Genre = "Classic"
)

// AllGenres lists every valid genre, in display order.
var AllGenres = []Genre{
	GenreFantasy, GenreSciFi, GenreMystery, GenreThriller, GenreRomance,
	GenreHorror, GenreBiography, GenreHistory, GenreSelfHelp, GenrePoetry,
	GenreNonFiction, GenreClassic,
}

// Valid reports whether the genre is a member of the closed enumeration.
func (g Genre) Valid() bool {
	for _, known := range AllGenres {
		if g == known {
			return true
		}
	}
	return false
}

// Book is a listing on the exchange platform. A book with IsTaken set must
// not be the target of new exchange requests.
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     string             `bson:"user_id" json:"user_id"`
	Name        string             `bson:"bookName" json:"bookName"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	Genre       Genre              `bson:"genre,omitempty" json:"genre,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Condition   BookCondition      `bson:"bookCondition,omitempty" json:"bookCondition,omitempty"`
	Images      []string           `bson:"bookImages,omitempty" json:"bookImages,omitempty"`
	IsTaken     bool               `bson:"is_taken" json:"is_taken"`
	ViewCount   int64              `bson:"view_count,omitempty" json:"view_count,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// BookOwner is the denormalized owner info attached to book detail responses.
type BookOwner struct {
	UserID            string `json:"user_id,omitempty"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// User is the slice of the user document this service reads. Accounts are
// created and authenticated by the external token service.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName         string             `bson:"fName" json:"fName"`
	LastName          string             `bson:"lName" json:"lName"`
	Email             string             `bson:"email" json:"email"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty" json:"profile_picture_url,omitempty"`
}
