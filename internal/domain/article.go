package domain

import "time"

// Category is the closed set of article categories.
type Category string

const (
	CategoryAdventure Category = "adventure"
	CategoryCulture   Category = "culture"
	CategoryFoodCafe  Category = "food-cafe"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{CategoryAdventure, CategoryCulture, CategoryFoodCafe}
}

// ValidCategory reports whether s is one of the closed enum values.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryAdventure, CategoryCulture, CategoryFoodCafe:
		return true
	}
	return false
}

// UnknownLocation is the sentinel used when an article carries no
// location name.
const UnknownLocation = "Unknown Location"

// Location is an optional place attached to an article.
type Location struct {
	Name    string
	Lat     *float64
	Lng     *float64
	PlaceID string
}

// Article is a published magazine piece. Image is an opaque reference;
// this service does not own blob storage.
type Article struct {
	ID        string
	Title     string
	Content   string
	Category  Category
	Image     string
	Location  Location
	AuthorID  string
	Author    AuthorInfo
	SavedBy   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArticlePatch carries the mutable article fields for an update. Nil
// fields are left unchanged.
type ArticlePatch struct {
	Title    *string
	Content  *string
	Category *string
	Image    *string
	Location *Location
}

// ArticleFilter narrows a paginated article listing.
type ArticleFilter struct {
	Category string
	AuthorID string
	Page     int
	Limit    int
}
