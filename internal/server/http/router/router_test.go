package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/auctionhouse/internal/domain/model"
	"github.com/polkiloo/auctionhouse/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/auctionhouse/internal/test"
)

func newTestEngine(facade testhelpers.AuctionHouseFacadeStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, logger)
}

func serve(engine *gin.Engine, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	var bidder int64
	facade := testhelpers.AuctionHouseFacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{
			ParseFn: func(token string) (int64, error) {
				if token != "token" {
					return 0, errors.New("invalid")
				}
				return 7, nil
			},
		},
		BidFacadeStub: testhelpers.BidFacadeStub{
			PlaceFn: func(_ context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*model.Bid, error) {
				bidder = bidderID
				return &model.Bid{ID: 1, AuctionID: auctionID, BidderID: bidderID, Amount: amount}, nil
			},
		},
	}
	engine := newTestEngine(facade)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}
	auth := map[string]string{"Content-Type": "application/json", "Authorization": "Bearer token"}

	body, _ := json.Marshal(map[string]string{"login": "user", "password": "pass"})
	if resp := serve(engine, http.MethodPost, "/api/user/register", body, jsonHeaders); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for register, got %d", resp.Code)
	}

	if resp := serve(engine, http.MethodGet, "/api/health", nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for health, got %d", resp.Code)
	}

	if resp := serve(engine, http.MethodGet, "/api/auctions", nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected public auction listing, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodGet, "/api/auctions/3", nil, nil); resp.Code != http.StatusOK {
		t.Fatalf("expected public auction detail, got %d", resp.Code)
	}

	bid := []byte(`{"amount":"12.00"}`)
	if resp := serve(engine, http.MethodPost, "/api/auctions/3/bids", bid, jsonHeaders); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", resp.Code)
	}
	resp := serve(engine, http.MethodPost, "/api/auctions/3/bids", bid, auth)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201 for bid, got %d", resp.Code)
	}
	if bidder != 7 {
		t.Fatalf("bid must be placed by the token owner, got %d", bidder)
	}

	if resp := serve(engine, http.MethodGet, "/api/user/orders", nil, auth); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for orders, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodGet, "/api/user/inbox", nil, map[string]string{"Authorization": "Bearer other"}); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad token, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodGet, "/api/orders/ORDER0000001/invoice", nil, auth); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 for invoice, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodDelete, "/api/auctions/3/pin", nil, auth); resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204 for unpin, got %d", resp.Code)
	}
}

func TestSetupAcceptsCompressedBodies(t *testing.T) {
	var got model.NewAuction
	facade := testhelpers.AuctionHouseFacadeStub{
		AuctionFacadeStub: testhelpers.AuctionFacadeStub{
			CreateFn: func(_ context.Context, sellerID int64, in model.NewAuction) (*model.Auction, error) {
				got = in
				return &model.Auction{ID: 1, SellerID: sellerID, Title: in.Title}, nil
			},
		},
	}
	engine := newTestEngine(facade)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"title":"Lamp","starting_price":"10","min_bid_increment":"1"}`))
	_ = zw.Close()

	resp := serve(engine, http.MethodPost, "/api/auctions", buf.Bytes(), map[string]string{
		"Content-Type":     "application/json",
		"Content-Encoding": "gzip",
		"Authorization":    "Bearer token",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if got.Title != "Lamp" {
		t.Fatalf("expected decompressed body, got %+v", got)
	}
}

var _ handlers.AuctionHouseFacade = (*testhelpers.AuctionHouseFacadeStub)(nil)
