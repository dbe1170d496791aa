package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/auctionhouse/internal/domain/errors"
	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/domain/repository"
)

type txMarker struct{}

type pinKey struct {
	auctionID int64
	userID    int64
}

type memoryData struct {
	seq      map[string]int64
	users    map[int64]model.User
	auctions map[int64]model.Auction
	bids     []model.Bid
	pins     map[pinKey]time.Time
	orders   map[int64]model.Order
	invoices map[int64]model.Invoice
	items    map[int64]model.InvoiceItem
	inboxes  map[int64]model.Inbox
	messages []model.InboxMessage
}

func newMemoryData() memoryData {
	return memoryData{
		seq:      make(map[string]int64),
		users:    make(map[int64]model.User),
		auctions: make(map[int64]model.Auction),
		pins:     make(map[pinKey]time.Time),
		orders:   make(map[int64]model.Order),
		invoices: make(map[int64]model.Invoice),
		items:    make(map[int64]model.InvoiceItem),
		inboxes:  make(map[int64]model.Inbox),
	}
}

func (d memoryData) clone() memoryData {
	c := newMemoryData()
	for k, v := range d.seq {
		c.seq[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.auctions {
		c.auctions[k] = v
	}
	c.bids = append([]model.Bid(nil), d.bids...)
	for k, v := range d.pins {
		c.pins[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.invoices {
		c.invoices[k] = v
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.inboxes {
		c.inboxes[k] = v
	}
	c.messages = append([]model.InboxMessage(nil), d.messages...)
	return c
}

func (d memoryData) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

// MemoryStore is an in-memory implementation of every repository port and of
// repository.Transactor. Transactions are serialized and rolled back by
// restoring a snapshot, which makes it suitable for concurrency tests.
type MemoryStore struct {
	// Now stamps created_at columns. Defaults to time.Now.
	Now func() time.Time
	// Fail is consulted before every call with an operation name such as
	// "auctions.UpdateHighestBid" or "tx.Commit"; a non-nil result is returned
	// instead of performing the call. It must not call back into the store.
	Fail func(op string) error

	txMu  sync.Mutex
	mu    sync.Mutex
	data  memoryData
	calls map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemoryData(), calls: make(map[string]int)}
}

// Calls reports how many times op was invoked.
func (s *MemoryStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryStore) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txMarker{}).(*MemoryStore)
	return owner == s
}

func (s *MemoryStore) enter(ctx context.Context, op string) (func(), error) {
	inTx := s.inTx(ctx)
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	release := func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
	s.calls[op]++
	if s.Fail != nil {
		if err := s.Fail(op); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

// WithinTransaction runs fn with exclusive access to the store. Nested calls
// join the outer transaction.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.calls["tx.Begin"]++
	if s.Fail != nil {
		if err := s.Fail("tx.Begin"); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	snapshot := s.data.clone()
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}

	if err := fn(context.WithValue(ctx, txMarker{}, s)); err != nil {
		rollback()
		return err
	}

	s.mu.Lock()
	s.calls["tx.Commit"]++
	var commitErr error
	if s.Fail != nil {
		commitErr = s.Fail("tx.Commit")
	}
	s.mu.Unlock()
	if commitErr != nil {
		rollback()
		return commitErr
	}
	return nil
}

// WithinSavepoint runs fn inside the caller's transaction and restores the
// state from before fn when it fails. Outside a transaction it is
// WithinTransaction.
func (s *MemoryStore) WithinSavepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.inTx(ctx) {
		return s.WithinTransaction(ctx, fn)
	}

	s.mu.Lock()
	s.calls["tx.Savepoint"]++
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Users() repository.UserRepository { return memoryUsers{s} }
func (s *MemoryStore) Auctions() repository.AuctionRepository { return memoryAuctions{s} }
func (s *MemoryStore) Bids() repository.BidRepository { return memoryBids{s} }
func (s *MemoryStore) Pins() repository.PinRepository { return memoryPins{s} }
func (s *MemoryStore) Orders() repository.OrderRepository { return memoryOrders{s} }
func (s *MemoryStore) Invoices() repository.InvoiceRepository { return memoryInvoices{s} }
func (s *MemoryStore) Inboxes() repository.InboxRepository { return memoryInboxes{s} }

var (
	_ repository.Factory    = (*MemoryStore)(nil)
	_ repository.Transactor = (*MemoryStore)(nil)
)

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	release, err := r.s.enter(ctx, "users.Create")
	if err != nil {
		return nil, err
	}
	defer release()
	for _, u := range r.s.data.users {
		if u.Login == login {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	u := model.User{ID: r.s.data.next("users"), Login: login, PasswordHash: passwordHash, CreatedAt: r.s.now()}
	r.s.data.users[u.ID] = u
	return &u, nil
}

func (r memoryUsers) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	release, err := r.s.enter(ctx, "users.GetByLogin")
	if err != nil {
		return nil, err
	}
	defer release()
	for _, u := range r.s.data.users {
		if u.Login == login {
			return &u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memoryUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	release, err := r.s.enter(ctx, "users.GetByID")
	if err != nil {
		return nil, err
	}
	defer release()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

type memoryAuctions struct{ s *MemoryStore }

func (r memoryAuctions) Create(ctx context.Context, a *model.Auction) (*model.Auction, error) {
	release, err := r.s.enter(ctx, "auctions.Create")
	if err != nil {
		return nil, err
	}
	defer release()
	created := *a
	created.ID = r.s.data.next("auctions")
	created.Version = 0
	created.CreatedAt = r.s.now()
	r.s.data.auctions[created.ID] = created
	return &created, nil
}

func (r memoryAuctions) get(ctx context.Context, op string, id int64) (*model.Auction, error) {
	release, err := r.s.enter(ctx, op)
	if err != nil {
		return nil, err
	}
	defer release()
	a, ok := r.s.data.auctions[id]
	if !ok {
		return nil, domainErrors.ErrAuctionNotFound
	}
	return &a, nil
}

func (r memoryAuctions) GetByID(ctx context.Context, id int64) (*model.Auction, error) {
	return r.get(ctx, "auctions.GetByID", id)
}

func (r memoryAuctions) GetForUpdate(ctx context.Context, id int64) (*model.Auction, error) {
	return r.get(ctx, "auctions.GetForUpdate", id)
}

func (r memoryAuctions) List(ctx context.Context, q model.AuctionQuery) ([]model.Auction, error) {
	release, err := r.s.enter(ctx, "auctions.List")
	if err != nil {
		return nil, err
	}
	defer release()
	q = q.Normalize()
	needle := strings.ToLower(strings.TrimSpace(q.Title))

	var list []model.Auction
	for _, a := range r.s.data.auctions {
		if !a.Visible || !strings.Contains(strings.ToLower(a.Title), needle) {
			continue
		}
		list = append(list, a)
	}
	sortAuctions(list, q.Sort)

	offset := q.Offset()
	if offset >= len(list) {
		return nil, nil
	}
	end := offset + q.PageSize
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func sortAuctions(list []model.Auction, by model.AuctionSort) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch by {
		case model.SortEndingSoon:
			if !a.EndTime.Equal(b.EndTime) {
				return a.EndTime.Before(b.EndTime)
			}
			return a.ID < b.ID
		case model.SortPriceAsc:
			if !a.HighestBid.Equal(b.HighestBid) {
				return a.HighestBid.LessThan(b.HighestBid)
			}
			return a.ID < b.ID
		case model.SortPriceDesc:
			if !a.HighestBid.Equal(b.HighestBid) {
				return a.HighestBid.GreaterThan(b.HighestBid)
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})
}

func (r memoryAuctions) UpdateHighestBid(ctx context.Context, id, expectedVersion int64, amount decimal.Decimal, bidderID int64) error {
	release, err := r.s.enter(ctx, "auctions.UpdateHighestBid")
	if err != nil {
		return err
	}
	defer release()
	a, ok := r.s.data.auctions[id]
	if !ok || a.Version != expectedVersion || a.State != model.AuctionStateActive || !a.HighestBid.LessThan(amount) {
		return domainErrors.ErrConflict
	}
	bidder := bidderID
	a.HighestBid = amount
	a.HighestBidderID = &bidder
	a.Version++
	r.s.data.auctions[id] = a
	return nil
}

func (r memoryAuctions) TransitionState(ctx context.Context, id int64, from, to model.AuctionState) (bool, error) {
	if !from.CanTransition(to) {
		return false, domainErrors.ErrInvariantViolation
	}
	release, err := r.s.enter(ctx, "auctions.TransitionState")
	if err != nil {
		return false, err
	}
	defer release()
	a, ok := r.s.data.auctions[id]
	if !ok || a.State != from {
		return false, nil
	}
	a.State = to
	r.s.data.auctions[id] = a
	return true, nil
}

func (r memoryAuctions) ListUnsettled(ctx context.Context) ([]model.PendingSettlement, error) {
	release, err := r.s.enter(ctx, "auctions.ListUnsettled")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.PendingSettlement
	for _, a := range r.s.data.auctions {
		if a.State == model.AuctionStateSettled {
			continue
		}
		result = append(result, model.PendingSettlement{AuctionID: a.ID, EndTime: a.EndTime, State: a.State})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EndTime.Before(result[j].EndTime) })
	return result, nil
}

type memoryPins struct{ s *MemoryStore }

func (r memoryPins) Pin(ctx context.Context, auctionID, userID int64) error {
	release, err := r.s.enter(ctx, "pins.Pin")
	if err != nil {
		return err
	}
	defer release()
	if _, ok := r.s.data.auctions[auctionID]; !ok {
		return domainErrors.ErrNotFound
	}
	key := pinKey{auctionID: auctionID, userID: userID}
	if _, ok := r.s.data.pins[key]; !ok {
		r.s.data.pins[key] = r.s.now()
	}
	return nil
}

func (r memoryPins) Unpin(ctx context.Context, auctionID, userID int64) error {
	release, err := r.s.enter(ctx, "pins.Unpin")
	if err != nil {
		return err
	}
	defer release()
	delete(r.s.data.pins, pinKey{auctionID: auctionID, userID: userID})
	return nil
}

func (r memoryPins) ListPinned(ctx context.Context, userID int64) ([]model.Auction, error) {
	release, err := r.s.enter(ctx, "pins.ListPinned")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.Auction
	for key := range r.s.data.pins {
		if key.userID == userID {
			result = append(result, r.s.data.auctions[key.auctionID])
		}
	}
	sortAuctions(result, model.SortEndingSoon)
	return result, nil
}

type memoryBids struct{ s *MemoryStore }

func (r memoryBids) Insert(ctx context.Context, bid *model.Bid) (*model.Bid, error) {
	release, err := r.s.enter(ctx, "bids.Insert")
	if err != nil {
		return nil, err
	}
	defer release()
	if _, ok := r.s.data.auctions[bid.AuctionID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := *bid
	stored.ID = r.s.data.next("bids")
	stored.CreatedAt = r.s.now()
	r.s.data.bids = append(r.s.data.bids, stored)
	return &stored, nil
}

func (r memoryBids) ListByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	release, err := r.s.enter(ctx, "bids.ListByAuction")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.Bid
	for _, b := range r.s.data.bids {
		if b.AuctionID == auctionID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	release, err := r.s.enter(ctx, "orders.Create")
	if err != nil {
		return nil, err
	}
	defer release()
	for _, o := range r.s.data.orders {
		if o.AuctionID == order.AuctionID || o.Number == order.Number {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	created := *order
	created.ID = r.s.data.next("orders")
	created.InvoicePaid = false
	created.CreatedAt = r.s.now()
	r.s.data.orders[created.ID] = created
	return &created, nil
}

func (r memoryOrders) find(ctx context.Context, op string, match func(model.Order) bool) (*model.Order, error) {
	release, err := r.s.enter(ctx, op)
	if err != nil {
		return nil, err
	}
	defer release()
	for _, o := range r.s.data.orders {
		if match(o) {
			return &o, nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

func (r memoryOrders) GetByAuction(ctx context.Context, auctionID int64) (*model.Order, error) {
	return r.find(ctx, "orders.GetByAuction", func(o model.Order) bool { return o.AuctionID == auctionID })
}

func (r memoryOrders) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return r.find(ctx, "orders.GetByNumber", func(o model.Order) bool { return o.Number == number })
}

func (r memoryOrders) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return r.find(ctx, "orders.GetByID", func(o model.Order) bool { return o.ID == id })
}

func (r memoryOrders) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	release, err := r.s.enter(ctx, "orders.ListByUser")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.Order
	for _, o := range r.s.data.orders {
		if o.Involves(userID) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r memoryOrders) update(ctx context.Context, op string, id int64, fn func(*model.Order)) error {
	release, err := r.s.enter(ctx, op)
	if err != nil {
		return err
	}
	defer release()
	o, ok := r.s.data.orders[id]
	if !ok {
		return domainErrors.ErrOrderNotFound
	}
	fn(&o)
	r.s.data.orders[id] = o
	return nil
}

func (r memoryOrders) SetInvoiceReady(ctx context.Context, orderID int64, ready bool) error {
	return r.update(ctx, "orders.SetInvoiceReady", orderID, func(o *model.Order) { o.InvoiceReady = ready })
}

func (r memoryOrders) SetInvoicePaid(ctx context.Context, orderID int64) error {
	return r.update(ctx, "orders.SetInvoicePaid", orderID, func(o *model.Order) { o.InvoicePaid = true })
}

type memoryInvoices struct{ s *MemoryStore }

func (r memoryInvoices) Create(ctx context.Context, orderID int64) (*model.Invoice, error) {
	release, err := r.s.enter(ctx, "invoices.Create")
	if err != nil {
		return nil, err
	}
	defer release()
	if _, ok := r.s.data.orders[orderID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	for _, inv := range r.s.data.invoices {
		if inv.OrderID == orderID {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	inv := model.Invoice{ID: r.s.data.next("invoices"), OrderID: orderID, TotalCost: decimal.Zero, CreatedAt: r.s.now()}
	r.s.data.invoices[inv.ID] = inv
	return &inv, nil
}

func (r memoryInvoices) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	release, err := r.s.enter(ctx, "invoices.GetByOrder")
	if err != nil {
		return nil, err
	}
	defer release()
	for _, inv := range r.s.data.invoices {
		if inv.OrderID == orderID {
			return &inv, nil
		}
	}
	return nil, domainErrors.ErrInvoiceNotFound
}

func (r memoryInvoices) GetForUpdate(ctx context.Context, id int64) (*model.Invoice, error) {
	release, err := r.s.enter(ctx, "invoices.GetForUpdate")
	if err != nil {
		return nil, err
	}
	defer release()
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return nil, domainErrors.ErrInvoiceNotFound
	}
	return &inv, nil
}

func (r memoryInvoices) Delete(ctx context.Context, id int64) error {
	release, err := r.s.enter(ctx, "invoices.Delete")
	if err != nil {
		return err
	}
	defer release()
	if _, ok := r.s.data.invoices[id]; !ok {
		return domainErrors.ErrInvoiceNotFound
	}
	delete(r.s.data.invoices, id)
	for itemID, item := range r.s.data.items {
		if item.InvoiceID == id {
			delete(r.s.data.items, itemID)
		}
	}
	return nil
}

func (r memoryInvoices) SetTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	release, err := r.s.enter(ctx, "invoices.SetTotal")
	if err != nil {
		return err
	}
	defer release()
	inv, ok := r.s.data.invoices[id]
	if !ok {
		return domainErrors.ErrInvoiceNotFound
	}
	inv.TotalCost = total
	r.s.data.invoices[id] = inv
	return nil
}

func (r memoryInvoices) AddItem(ctx context.Context, item *model.InvoiceItem) (*model.InvoiceItem, error) {
	release, err := r.s.enter(ctx, "invoices.AddItem")
	if err != nil {
		return nil, err
	}
	defer release()
	if _, ok := r.s.data.invoices[item.InvoiceID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored := *item
	stored.ID = r.s.data.next("invoice_items")
	r.s.data.items[stored.ID] = stored
	return &stored, nil
}

func (r memoryInvoices) GetItem(ctx context.Context, itemID int64) (*model.InvoiceItem, error) {
	release, err := r.s.enter(ctx, "invoices.GetItem")
	if err != nil {
		return nil, err
	}
	defer release()
	item, ok := r.s.data.items[itemID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &item, nil
}

func (r memoryInvoices) UpdateItem(ctx context.Context, item *model.InvoiceItem) error {
	release, err := r.s.enter(ctx, "invoices.UpdateItem")
	if err != nil {
		return err
	}
	defer release()
	stored, ok := r.s.data.items[item.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	stored.Description = item.Description
	stored.Quantity = item.Quantity
	stored.Price = item.Price
	r.s.data.items[item.ID] = stored
	return nil
}

func (r memoryInvoices) DeleteItem(ctx context.Context, itemID int64) error {
	release, err := r.s.enter(ctx, "invoices.DeleteItem")
	if err != nil {
		return err
	}
	defer release()
	if _, ok := r.s.data.items[itemID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.data.items, itemID)
	return nil
}

func (r memoryInvoices) ListItems(ctx context.Context, invoiceID int64) ([]model.InvoiceItem, error) {
	release, err := r.s.enter(ctx, "invoices.ListItems")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.InvoiceItem
	for _, item := range r.s.data.items {
		if item.InvoiceID == invoiceID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memoryInboxes struct{ s *MemoryStore }

func (r memoryInboxes) byUser(userID int64) (model.Inbox, bool) {
	for _, inbox := range r.s.data.inboxes {
		if inbox.UserID == userID {
			return inbox, true
		}
	}
	return model.Inbox{}, false
}

func (r memoryInboxes) Ensure(ctx context.Context, userID int64) (*model.Inbox, error) {
	release, err := r.s.enter(ctx, "inboxes.Ensure")
	if err != nil {
		return nil, err
	}
	defer release()
	if inbox, ok := r.byUser(userID); ok {
		return &inbox, nil
	}
	inbox := model.Inbox{ID: r.s.data.next("inboxes"), UserID: userID}
	r.s.data.inboxes[inbox.ID] = inbox
	return &inbox, nil
}

func (r memoryInboxes) Append(ctx context.Context, inboxID int64, content string, redirect *string) (*model.InboxMessage, error) {
	release, err := r.s.enter(ctx, "inboxes.Append")
	if err != nil {
		return nil, err
	}
	defer release()
	inbox, ok := r.s.data.inboxes[inboxID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	msg := model.InboxMessage{ID: r.s.data.next("inbox_messages"), InboxID: inboxID, Content: content, CreatedAt: r.s.now()}
	if redirect != nil {
		ref := *redirect
		msg.Redirect = &ref
	}
	r.s.data.messages = append(r.s.data.messages, msg)
	inbox.UnreadCount++
	r.s.data.inboxes[inboxID] = inbox
	return &msg, nil
}

func (r memoryInboxes) Get(ctx context.Context, userID int64) (*model.Inbox, error) {
	release, err := r.s.enter(ctx, "inboxes.Get")
	if err != nil {
		return nil, err
	}
	defer release()
	inbox, ok := r.byUser(userID)
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &inbox, nil
}

func (r memoryInboxes) ListMessages(ctx context.Context, inboxID int64) ([]model.InboxMessage, error) {
	release, err := r.s.enter(ctx, "inboxes.ListMessages")
	if err != nil {
		return nil, err
	}
	defer release()
	var result []model.InboxMessage
	for i := len(r.s.data.messages) - 1; i >= 0; i-- {
		if r.s.data.messages[i].InboxID == inboxID {
			result = append(result, r.s.data.messages[i])
		}
	}
	return result, nil
}

func (r memoryInboxes) ResetUnread(ctx context.Context, userID int64) error {
	release, err := r.s.enter(ctx, "inboxes.ResetUnread")
	if err != nil {
		return err
	}
	defer release()
	inbox, ok := r.byUser(userID)
	if !ok {
		return domainErrors.ErrNotFound
	}
	inbox.UnreadCount = 0
	r.s.data.inboxes[inbox.ID] = inbox
	return nil
}
