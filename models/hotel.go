package models

// HotelStatus is the availability flag stored on each hotel document.
type HotelStatus string

const (
	HotelAvailable HotelStatus = "AVAILABLE"
	HotelSoldOut   HotelStatus = "SOLD_OUT"
)

// Hotel is a property listed in the "hotels" collection.
type Hotel struct {
	ID            string      `bson:"id" json:"id" firestore:"id"`
	Name          string      `bson:"name" json:"name" firestore:"name"`
	Location      string      `bson:"location" json:"location" firestore:"location"` // City; searches match it exactly.
	ImageURL      string      `bson:"imageUrl" json:"imageUrl" firestore:"imageUrl"`
	Status        HotelStatus `bson:"status" json:"status" firestore:"status"`
	PriceRange    *string     `bson:"priceRange,omitempty" json:"priceRange,omitempty" firestore:"priceRange,omitempty"` // Free text, e.g. "Rs 4,999 - 9,999".
	Rating        float64     `bson:"rating" json:"rating" firestore:"rating"`                                           // 0.0 - 5.0
	About         string      `bson:"about" json:"about" firestore:"about"`
	Amenities     []string    `bson:"amenities" json:"amenities" firestore:"amenities"`
	PropertyRules []string    `bson:"propertyRules" json:"propertyRules" firestore:"propertyRules"`
}

// Tag is the label shown on a hotel card. Sold-out hotels never show a price.
func (h Hotel) Tag() string {
	if h.Status == HotelSoldOut {
		return "Sold Out"
	}
	if h.PriceRange == nil || *h.PriceRange == "" {
		return "N/A"
	}
	return *h.PriceRange
}

// Room belongs to exactly one hotel and lives under rooms/<hotelId>.
type Room struct {
	ID       string  `bson:"id" json:"id" firestore:"id"`
	HotelID  string  `bson:"hotelId" json:"hotelId" firestore:"hotelId"`
	Type     string  `bson:"type" json:"type" firestore:"type"`
	Price    float64 `bson:"price" json:"price" firestore:"price"`
	ImageURL string  `bson:"imageUrl" json:"imageUrl" firestore:"imageUrl"`
}
