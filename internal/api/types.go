package api

import "time"

type Tour struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

type Booking struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"type"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

type Business struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// TourismData is the payload of GET /tourism.
type TourismData struct {
	VirtualTours []Tour     `json:"virtualTours"`
	Bookings     []Booking  `json:"bookings"`
	Businesses   []Business `json:"businesses"`
}

type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type CartItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() float64 { return c.Price * float64(c.Quantity) }

// Marketplace is the catalog plus the server-side cart.
type Marketplace struct {
	Products []Product  `json:"products"`
	Cart     []CartItem `json:"cart"`
}

// Total sums the cart.
func (m Marketplace) Total() float64 {
	var total float64
	for _, item := range m.Cart {
		total += item.Subtotal()
	}
	return total
}

type Course struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Duration    string `json:"duration"`
	Enrolled    bool   `json:"enrolled"`
}

type Enrollment struct {
	CourseID int    `json:"courseId"`
	Status   string `json:"status"`
}

type Article struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	PublishedAt time.Time `json:"publishedAt"`
}

type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
}

// CommunityData is the payload of GET /community.
type CommunityData struct {
	News   []Article `json:"news"`
	Events []Event   `json:"events"`
}

// EventByID finds an event in the community payload.
func (c CommunityData) EventByID(id int) (Event, bool) {
	for _, ev := range c.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

type Profile struct {
	ID       int       `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Session is the result of a login, or of restoring a persisted token.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"-"`
}
