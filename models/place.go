package models

// Place is an entry of the "places to visit" feed.
type Place struct {
	ID          string `bson:"id" json:"id" firestore:"id"`
	Name        string `bson:"name" json:"name" firestore:"name"`
	ImageURL    string `bson:"imageUrl" json:"imageUrl" firestore:"imageUrl"`
	Description string `bson:"description" json:"description" firestore:"description"`
}

// PlaceDetails is the detail view of a single place, loaded on demand.
type PlaceDetails struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Details projects a place into its detail view.
func (p Place) Details() PlaceDetails {
	return PlaceDetails{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
	}
}
