package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"tokomini/internal/fakestore"
	api "tokomini/internal/http"
	handler "tokomini/internal/http/handlers"
	rl "tokomini/internal/http/rate_limiter"
	"tokomini/internal/repo"
	"tokomini/internal/session"
	"tokomini/internal/web"
)

const testExchangeRate = 15500.0

// upstreamProducts is the fixture catalog served by the fake FakeStore.
var upstreamProducts = []fakestore.Product{
	{ID: 1, Title: "Gold Ring", Price: 100, Description: "A shiny gold ring", Category: "jewelery",
		Image: "https://img.example/ring.jpg", Rating: fakestore.Rating{Rate: 4.5, Count: 120}},
	{ID: 2, Title: "Linen Shirt", Price: 15.5, Description: "A breezy linen shirt", Category: "men's clothing",
		Image: "https://img.example/shirt.jpg", Rating: fakestore.Rating{Rate: 3.9, Count: 70}},
	{ID: 3, Title: "Silver Necklace", Price: 49.95, Description: "A delicate silver necklace", Category: "jewelery",
		Image: "https://img.example/necklace.jpg", Rating: fakestore.Rating{Rate: 4.1, Count: 36}},
	{ID: 4, Title: "Leather Jacket", Price: 400, Description: "A heavy leather jacket", Category: "men's clothing",
		Image: "https://img.example/jacket.jpg", Rating: fakestore.Rating{Rate: 4.8, Count: 12}},
}

var upstreamCategories = []string{"jewelery", "men's clothing"}

// testStore stitches a fake upstream, fresh repositories and the real
// router together for one test.
type testStore struct {
	router   http.Handler
	upstream *httptest.Server
	carts    *repo.InMemoryCartRepository
	orders   *repo.InMemoryOrderRepository

	// failUpstream makes every upstream call answer 500.
	failUpstream bool
	// failCategories makes only the categories call answer 500.
	failCategories bool
	// failProduct makes lookups of this product ID answer 500.
	failProduct int
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	ts := &testStore{}
	ts.upstream = httptest.NewServer(http.HandlerFunc(ts.serveUpstream))
	t.Cleanup(ts.upstream.Close)

	// every test gets a fresh rate-limit budget
	rl.CleanupAllVisitors()

	handler.SetCatalog(fakestore.New(ts.upstream.URL, ts.upstream.Client()))

	ts.carts = repo.NewInMemoryCartRepository()
	handler.SetCartRepo(ts.carts)
	ts.orders = repo.NewInMemoryOrderRepository()
	handler.SetOrderRepo(ts.orders)

	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}
	handler.SetRenderer(renderer)

	sessions := session.NewManager("test-secret", time.Hour)
	handler.SetSessionManager(sessions)
	handler.SetStoreOptions(testExchangeRate, time.Hour)

	ts.router = api.NewRouter(sessions)
	return ts
}

func (ts *testStore) serveUpstream(w http.ResponseWriter, r *http.Request) {
	if ts.failUpstream {
		http.Error(w, "upstream down", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/products":
		json.NewEncoder(w).Encode(upstreamProducts)
	case r.URL.Path == "/products/categories":
		if ts.failCategories {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(upstreamCategories)
	case strings.HasPrefix(r.URL.Path, "/products/category/"):
		name, _ := url.PathUnescape(strings.TrimPrefix(r.URL.Path, "/products/category/"))
		var matched []fakestore.Product
		for _, p := range upstreamProducts {
			if p.Category == name {
				matched = append(matched, p)
			}
		}
		json.NewEncoder(w).Encode(matched)
	case strings.HasPrefix(r.URL.Path, "/products/"):
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/products/"))
		if err == nil && id == ts.failProduct {
			http.Error(w, "upstream down", http.StatusInternalServerError)
			return
		}
		if err == nil {
			for _, p := range upstreamProducts {
				if p.ID == id {
					json.NewEncoder(w).Encode(p)
					return
				}
			}
		}
		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

// browser replays cookies between requests so the session (and its cart)
// survives across a test scenario, like a real browser would.
type browser struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, ts *testStore) *browser {
	return &browser{t: t, router: ts.router, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// addToCart puts quantity units of a product into the browser's cart.
func (b *browser) addToCart(productID, quantity int) *httptest.ResponseRecorder {
	form := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return b.postForm("/add_to_cart/"+strconv.Itoa(productID), form)
}

// cartCount reads the JSON cart counter endpoint.
func (b *browser) cartCount() int {
	b.t.Helper()
	w := b.get("/api/get_cart_count")

	var result handler.CartCountResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		b.t.Fatalf("decoding cart count: %v", err)
	}
	if !result.Success {
		b.t.Fatalf("cart count reported failure")
	}
	return result.Count
}

// checkoutForm is a complete, valid checkout submission.
func checkoutForm(method string) url.Values {
	return url.Values{
		"customer_name":    {"Ayu Lestari"},
		"customer_phone":   {"081234567890"},
		"customer_email":   {"ayu@example.com"},
		"shipping_address": {"Jl. Melati 5, Jakarta"},
		"payment_method":   {method},
	}
}

// placeOrder runs add-to-cart plus checkout and returns the order number
// from the redirect to the payment page.
func placeOrder(t *testing.T, b *browser, productID, quantity int, method string) string {
	t.Helper()

	if w := b.addToCart(productID, quantity); w.Code != http.StatusSeeOther {
		t.Fatalf("add to cart: expected 303, got %d", w.Code)
	}

	w := b.postForm("/checkout_details", checkoutForm(method))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("checkout: expected 303, got %d", w.Code)
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/payment/") {
		t.Fatalf("checkout: expected redirect to payment page, got %q", location)
	}
	return strings.TrimPrefix(location, "/payment/")
}
