package session

// CheckoutCurrency is the currency label used on the checkout summary.
const CheckoutCurrency = "Rs."

// CheckoutSummary is what the user confirms before paying. Payment itself is
// not handled here.
type CheckoutSummary struct {
	Hotel     string  `json:"hotel"`
	Room      string  `json:"room"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	RoomPrice float64 `json:"roomPrice"`
	ToPay     float64 `json:"toPay"`
	Currency  string  `json:"currency"`
}

// Checkout summarises the current selection.
func Checkout(s State) (CheckoutSummary, error) {
	if s.SelectedHotel == nil || s.SelectedRoom == nil {
		return CheckoutSummary{}, ErrNothingSelected
	}
	return CheckoutSummary{
		Hotel:     s.SelectedHotel.Name,
		Room:      s.SelectedRoom.Type,
		CheckIn:   s.CheckInDate,
		CheckOut:  s.CheckOutDate,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.PhoneNumber,
		RoomPrice: s.SelectedRoom.Price,
		ToPay:     s.SelectedRoom.Price,
		Currency:  CheckoutCurrency,
	}, nil
}
