package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Auctions() AuctionRepository
	Bids() BidRepository
	Pins() PinRepository
	Orders() OrderRepository
	Invoices() InvoiceRepository
	Inboxes() InboxRepository
}
