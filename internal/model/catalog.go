package model

// Country is a production country (`countries` table).  Names are unique.
type Country struct {
	ID   uint64 // countries.id
	Name string // countries.country_name
}

// Genre is a movie genre (`genres` table).  Names are unique.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.genre_name
}

// Director describes a person who directed one or more movies.
//
// Fields:
//  ID    – primary key identifier.
//  Name  – display name.
//  Bio   – optional biography.
//  Age   – age in years.
//  Image – blob store reference of the portrait (nullable).
type Director struct {
	ID    uint64  // directors.id
	Name  string  // directors.director_name
	Bio   *string // directors.bio (nullable)
	Age   uint16  // directors.age
	Image *string // directors.director_image (nullable)
}

// Actor describes a performer.  Unlike directors the biography is required.
type Actor struct {
	ID    uint64  // actors.id
	Name  string  // actors.actor_name
	Bio   string  // actors.bio
	Age   uint16  // actors.age
	Image *string // actors.actor_image (nullable)
}
