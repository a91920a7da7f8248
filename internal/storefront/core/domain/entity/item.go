package entity

// ItemID identifies a catalog item. The cart service carries it as productId.
type ItemID int

// Item is one orderable catalog entry held for the lifetime of a form.
// Everything except Quantity is presentation data and never changes after load.
type Item struct {
	ID             ItemID
	DisplayName    string
	ImageReference string
	FormattedPrice string
	Quantity       int
}

// LineItem is a submission-ready pair. Quantity is always >= 1.
type LineItem struct {
	ProductID ItemID
	Quantity  int
}

// CartReference points at an active cart owned by the caller's session.
// A nil *CartReference means no active cart exists.
type CartReference struct {
	CartID string
}
