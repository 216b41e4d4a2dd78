package integrationtests

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	model "auction-coordinator/internal/models"
	"auction-coordinator/internal/server"
	"auction-coordinator/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, router *gin.Engine, name string) model.RegisteredUser {
	t.Helper()
	w := ExecuteRequest(t, router, http.MethodPost, "/users/register", helpers.RegisterRequest{Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user model.RegisteredUser
	Decode(t, w, &user)
	return user
}

func bid(t *testing.T, router *gin.Engine, itemID, userID int, amount int64) *httpResult {
	t.Helper()
	w := ExecuteRequest(t, router, http.MethodPost, fmt.Sprintf("/items/%d/bid", itemID),
		helpers.PlaceBidRequest{UserID: userID, Amount: amount})
	return &httpResult{code: w.Code, body: w.Body.Bytes()}
}

type httpResult struct {
	code int
	body []byte
}

func getUser(t *testing.T, router *gin.Engine, id int) model.UserView {
	t.Helper()
	w := ExecuteRequest(t, router, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user model.UserView
	Decode(t, w, &user)
	return user
}

// Walks a whole auction over HTTP: register, open, bid, outbid, close, settle
func TestAuctionLifecycle(t *testing.T) {
	router := SetupTestRouterWithItems(defaultItems()...)

	ana := register(t, router, "Ana")
	leo := register(t, router, "Leo")
	require.Equal(t, 1, ana.ID)
	require.Equal(t, 2, leo.ID)
	require.Equal(t, int64(1000), ana.Balance)

	w := ExecuteRequest(t, router, http.MethodPost, "/users/register", helpers.RegisterRequest{Name: "Ana"})
	require.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusForbidden, bid(t, router, 1, ana.ID, 60).code)

	w = ExecuteRequest(t, router, http.MethodPost, "/auction/openAll", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var opened helpers.OpenAuctionResponse
	Decode(t, w, &opened)
	require.Equal(t, "abierta", opened.Auction)
	_, err := time.Parse(time.RFC3339Nano, opened.StartTime)
	require.NoError(t, err)

	w = ExecuteRequest(t, router, http.MethodPost, "/auction/openAll", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, bid(t, router, 2, ana.ID, 300).code)
	require.Equal(t, http.StatusOK, bid(t, router, 3, ana.ID, 650).code)
	require.Equal(t, int64(50), getUser(t, router, ana.ID).Balance)

	require.Equal(t, http.StatusBadRequest, bid(t, router, 1, ana.ID, 60).code)
	require.Equal(t, http.StatusBadRequest, bid(t, router, 2, leo.ID, 300).code)
	w = ExecuteRequest(t, router, http.MethodPost, "/items/1/bid", `{"userId": 2, "amount": 100.5}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = ExecuteRequest(t, router, http.MethodPost, "/items/1/bid", `{"amount": 100}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, http.StatusNotFound, bid(t, router, 99, leo.ID, 300).code)
	require.Equal(t, http.StatusNotFound, bid(t, router, 1, 99, 300).code)

	res := bid(t, router, 2, leo.ID, 350)
	require.Equal(t, http.StatusOK, res.code)
	require.JSONEq(t, `{"itemId":2,"highestBid":350,"highestBidder":"Leo"}`, string(res.body))

	require.Equal(t, int64(350), getUser(t, router, ana.ID).Balance)
	require.Equal(t, int64(650), getUser(t, router, leo.ID).Balance)

	w = ExecuteRequest(t, router, http.MethodGet, "/items?sort=highestBid", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.Item
	Decode(t, w, &items)
	require.Equal(t, []int{3, 2, 1}, []int{items[0].ID, items[1].ID, items[2].ID})

	w = ExecuteRequest(t, router, http.MethodPost, "/auction/closeAll", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"auction":"cerrada","results":[
		{"itemId":2,"item":"Guitarra clásica","winner":"Leo","finalBid":350},
		{"itemId":3,"item":"Cuadro al óleo","winner":"Ana","finalBid":650}
	]}`, w.Body.String())

	w = ExecuteRequest(t, router, http.MethodPost, "/auction/closeAll", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ExecuteRequest(t, router, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []model.User
	Decode(t, w, &users)
	require.Equal(t, int64(350), users[0].Balance)
	require.Equal(t, int64(650), users[1].Balance)
	require.Len(t, users[0].Bids, 2)

	w = ExecuteRequest(t, router, http.MethodGet, "/auction", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var auction model.Auction
	Decode(t, w, &auction)
	require.False(t, auction.IsOpen)
	require.NotNil(t, auction.EndTime)
}

func TestRequestValidation(t *testing.T) {
	router := SetupTestRouterWithItems(defaultItems()...)

	tests := []struct {
		name       string
		method     string
		url        string
		body       any
		wantStatus int
	}{
		{name: "register_invalid_json", method: http.MethodPost, url: "/users/register", body: "{name: Ana}", wantStatus: http.StatusBadRequest},
		{name: "register_blank_name", method: http.MethodPost, url: "/users/register", body: helpers.RegisterRequest{Name: "   "}, wantStatus: http.StatusBadRequest},
		{name: "user_non_numeric_id", method: http.MethodGet, url: "/users/abc", wantStatus: http.StatusBadRequest},
		{name: "user_unknown", method: http.MethodGet, url: "/users/42", wantStatus: http.StatusNotFound},
		{name: "bid_invalid_json_closed_auction", method: http.MethodPost, url: "/items/1/bid", body: "{userId: 1}", wantStatus: http.StatusForbidden},
		{name: "bid_missing_user_closed_auction", method: http.MethodPost, url: "/items/1/bid", body: `{"amount": 60}`, wantStatus: http.StatusForbidden},
		{name: "bid_fractional_amount_closed_auction", method: http.MethodPost, url: "/items/1/bid", body: `{"userId": 1, "amount": 100.5}`, wantStatus: http.StatusForbidden},
		{name: "bid_empty_body_closed_auction", method: http.MethodPost, url: "/items/1/bid", body: `{}`, wantStatus: http.StatusForbidden},
		{name: "bid_closed_auction_zero_amount", method: http.MethodPost, url: "/items/1/bid", body: `{"userId": 1, "amount": 0}`, wantStatus: http.StatusForbidden},
		{name: "close_when_closed", method: http.MethodPost, url: "/auction/closeAll", wantStatus: http.StatusBadRequest},
		{name: "list_users_empty", method: http.MethodGet, url: "/users", wantStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, url: "/health", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ExecuteRequest(t, router, tt.method, tt.url, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := SetupTestRouterWithItems()

	w := ExecuteRequest(t, router, http.MethodGet, "/health", nil)
	require.NotEmpty(t, w.Header().Get(server.RequestIDHeader))
}

// Many users race for the same item; the final leader holds the highest accepted bid
func TestConcurrentBidding(t *testing.T) {
	router := SetupTestRouterWithItems(defaultItems()...)

	const bidders = 20
	ids := make([]int, bidders)
	for i := range ids {
		ids[i] = register(t, router, fmt.Sprintf("user%02d", i)).ID
	}
	w := ExecuteRequest(t, router, http.MethodPost, "/auction/openAll", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		maxBid  int64
		winners = map[int64]string{}
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i, userID int) {
			defer wg.Done()
			amount := int64(100 + i*10)
			res := bid(t, router, 1, userID, amount)
			if res.code != http.StatusOK {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if amount > maxBid {
				maxBid = amount
			}
			winners[amount] = fmt.Sprintf("user%02d", i)
		}(i, id)
	}
	wg.Wait()

	w = ExecuteRequest(t, router, http.MethodGet, "/items", nil)
	var items []model.Item
	Decode(t, w, &items)
	require.Equal(t, maxBid, items[0].HighestBid)
	require.NotNil(t, items[0].HighestBidder)
	require.Equal(t, winners[maxBid], *items[0].HighestBidder)
}

// State written through the file backend survives a restart
func TestFileBackendPersistsAcrossRestarts(t *testing.T) {
	path := tempStorePath(t)

	router := SetupFileRouter(t, path)
	ana := register(t, router, "Ana")
	w := ExecuteRequest(t, router, http.MethodPost, "/auction/openAll", nil)
	require.Equal(t, http.StatusOK, w.Code)

	restarted := SetupFileRouter(t, path)
	require.Equal(t, "Ana", getUser(t, restarted, ana.ID).Name)

	w = ExecuteRequest(t, restarted, http.MethodGet, "/auction", nil)
	var auction model.Auction
	Decode(t, w, &auction)
	require.True(t, auction.IsOpen)

	// no items were seeded in this store
	require.Equal(t, http.StatusNotFound, bid(t, restarted, 1, ana.ID, 60).code)
}
