package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/application"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type fakeOrders struct {
	lastFields domain.OrderFields
	lastID     int64
	err        error
	orders     []domain.OrderWithSender
}

func (f *fakeOrders) CreateOrder(_ context.Context, fields domain.OrderFields) (*domain.Order, error) {
	f.lastFields = fields
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{ID: 7, TrackingNumber: "1A2B3C4D", Status: domain.StatusNew,
		Amount: domain.ParseFloatOr(fields["amount"], 0)}, nil
}

func (f *fakeOrders) UpdateOrder(_ context.Context, id int64, fields domain.OrderFields) (*domain.Order, error) {
	f.lastID, f.lastFields = id, fields
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Order{ID: id, Status: fields["status"]}, nil
}

func (f *fakeOrders) DeleteOrder(_ context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func (f *fakeOrders) GetOrder(_ context.Context, id int64) (*domain.OrderWithSender, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OrderWithSender{Order: domain.Order{ID: id}, SenderName: "Anh Nguyen"}, nil
}

func (f *fakeOrders) ListOrders(context.Context) ([]domain.OrderWithSender, error) {
	return f.orders, f.err
}

func (f *fakeOrders) TrackOrder(_ context.Context, code string) (*domain.TrackedOrder, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: tracking number is required", domain.ErrInvalidInput)
	}
	if code != "1A2B3C4D" {
		return nil, fmt.Errorf("tracking number %s: %w", code, domain.ErrNotFound)
	}
	full := &domain.OrderWithSender{
		Order:               domain.Order{ID: 7, TrackingNumber: code},
		SenderName:          "Anh Nguyen",
		SenderDriverLicense: "DL-778",
		SenderBirthDate:     "1990-02-03",
		SenderAddress:       "12 Elm St",
		SenderPhone:         "555-0100",
	}
	return full.Tracked(), nil
}

func (f *fakeOrders) Receipt(_ context.Context, id int64) (*application.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &application.Receipt{Filename: "order_1A2B3C4D.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
}

type fakeCustomers struct {
	lastFields map[string]string
	err        error
}

func (f *fakeCustomers) CreateCustomer(_ context.Context, fields map[string]string) (*domain.Customer, error) {
	f.lastFields = fields
	if f.err != nil {
		return nil, f.err
	}
	c := domain.NewCustomer(fields)
	c.ID = 3
	return c, nil
}

func (f *fakeCustomers) UpdateCustomer(_ context.Context, id int64, fields map[string]string) (*domain.Customer, error) {
	f.lastFields = fields
	if f.err != nil {
		return nil, f.err
	}
	c := domain.NewCustomer(fields)
	c.ID = id
	return c, nil
}

func (f *fakeCustomers) DeleteCustomer(context.Context, int64) error { return f.err }

func (f *fakeCustomers) GetCustomer(_ context.Context, id int64) (*domain.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Customer{ID: id, Name: "Anh Nguyen"}, nil
}

func (f *fakeCustomers) ListCustomers(context.Context) ([]domain.Customer, error) { return nil, f.err }

func newRouter(orders OrdersService, customers CustomersService) http.Handler {
	r := chi.NewRouter()
	NewOrdersHandler(orders).Register(r)
	NewCustomersHandler(customers).Register(r)
	return r
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder_BodyFormats(t *testing.T) {
	jsonReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/orders",
			strings.NewReader(`{"sender_id": 1, "amount": "100", "receiver_name": "Ba Tran"}`))
		req.Header.Set("Content-Type", "application/json")
		return req
	}
	formReq := func() *http.Request {
		form := url.Values{"sender_id": {"1"}, "amount": {"100"}, "receiver_name": {"Ba Tran"}}
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req
	}
	multipartReq := func() *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		_ = mw.WriteField("sender_id", "1")
		_ = mw.WriteField("amount", "100")
		_ = mw.WriteField("receiver_name", "Ba Tran")
		_ = mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/orders", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	for name, build := range map[string]func() *http.Request{
		"json": jsonReq, "urlencoded": formReq, "multipart": multipartReq,
	} {
		t.Run(name, func(t *testing.T) {
			orders := &fakeOrders{}
			rec := serve(newRouter(orders, &fakeCustomers{}), build())

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, "/orders/7", rec.Header().Get("Location"))
			assert.Equal(t, "1", orders.lastFields["sender_id"])
			assert.Equal(t, "100", orders.lastFields["amount"])
			assert.Equal(t, "Ba Tran", orders.lastFields["receiver_name"])

			var got domain.Order
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "1A2B3C4D", got.TrackingNumber)
			assert.Equal(t, 100.0, got.Amount)
		})
	}
}

func TestCreateOrder_Errors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		svcErr      error
		wantStatus  int
	}{
		{"bad json", "application/json", `{"sender_id":`, nil, http.StatusBadRequest},
		{"json array", "application/json", `[1,2]`, nil, http.StatusBadRequest},
		{"unsupported", "application/xml", `<order/>`, nil, http.StatusUnsupportedMediaType},
		{"invalid input", "application/json", `{"sender_id":"x"}`, fmt.Errorf("%w: sender_id", domain.ErrInvalidInput), http.StatusBadRequest},
		{"storage", "application/json", `{"sender_id":1}`, errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := serve(newRouter(&fakeOrders{err: tt.svcErr}, &fakeCustomers{}), req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body["error"], "connection refused")
		})
	}
}

func TestUpdateOrder_PutAndPost(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPost} {
		orders := &fakeOrders{}
		req := httptest.NewRequest(method, "/orders/12", strings.NewReader(`{"status":"Paid","sender_id":1}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(newRouter(orders, &fakeCustomers{}), req)

		require.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, int64(12), orders.lastID)
		assert.Equal(t, "Paid", orders.lastFields["status"])
	}
}

func TestOrderRoutes_IDAndNotFound(t *testing.T) {
	notFound := &fakeOrders{err: fmt.Errorf("order 5: %w", domain.ErrNotFound)}
	h := newRouter(notFound, &fakeCustomers{})

	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/orders/5", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodDelete, "/orders/5", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/orders/5/pdf", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, httptest.NewRequest(http.MethodGet, "/orders/abc", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, httptest.NewRequest(http.MethodGet, "/orders/0", nil)).Code)

	ok := newRouter(&fakeOrders{}, &fakeCustomers{})
	assert.Equal(t, http.StatusNoContent, serve(ok, httptest.NewRequest(http.MethodDelete, "/orders/5", nil)).Code)

	rec := serve(ok, httptest.NewRequest(http.MethodGet, "/orders/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sender_name":"Anh Nguyen"`)
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	rec := serve(newRouter(&fakeOrders{}, &fakeCustomers{}), httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestDownloadReceipt(t *testing.T) {
	rec := serve(newRouter(&fakeOrders{}, &fakeCustomers{}), httptest.NewRequest(http.MethodGet, "/orders/7/pdf", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=order_1A2B3C4D.pdf", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestTrackOrder(t *testing.T) {
	h := newRouter(&fakeOrders{}, &fakeCustomers{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/track?number=1A2B3C4D", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1A2B3C4D", body["tracking_number"])
	assert.Equal(t, "Anh Nguyen", body["sender_name"])
	for _, key := range []string{"sender_driver_license", "sender_birth_date", "sender_address", "sender_phone"} {
		assert.NotContains(t, body, key)
	}
	assert.NotContains(t, rec.Body.String(), "DL-778")

	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/track?number=FFFFFFFF", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, httptest.NewRequest(http.MethodGet, "/track", nil)).Code)
}

func TestCustomerRoutes(t *testing.T) {
	customers := &fakeCustomers{}
	h := newRouter(&fakeOrders{}, customers)

	form := url.Values{"name": {"Anh Nguyen"}, "phone": {"555"}, "address": {""}}
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(h, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/customers/3", rec.Header().Get("Location"))
	assert.JSONEq(t, `{"id":3,"name":"Anh Nguyen","phone":"555"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPut, "/customers/3", strings.NewReader(`{"name":"Anh N."}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Anh N.", customers.lastFields["name"])

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/customers", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/customers/3", nil)).Code)
	assert.Equal(t, http.StatusNoContent, serve(h, httptest.NewRequest(http.MethodDelete, "/customers/3", nil)).Code)

	customers.err = fmt.Errorf("customer 3: %w", domain.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodGet, "/customers/3", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, httptest.NewRequest(http.MethodDelete, "/customers/3", nil)).Code)
}

func TestHealthz(t *testing.T) {
	r := chi.NewRouter()
	NewHealthHandler(map[string]Check{"db": func(context.Context) error { return nil }}).Register(r)
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	r = chi.NewRouter()
	NewHealthHandler(map[string]Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	}).Register(r)
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

func TestMountStatic(t *testing.T) {
	r := chi.NewRouter()
	MountStatic(r)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tracking number")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/track?number=")
}

// derivingOrders runs the real derivation and keeps orders in memory.
type derivingOrders struct {
	fakeOrders
	next   int64
	stored []domain.OrderWithSender
}

func (d *derivingOrders) Next() string {
	return fmt.Sprintf("%08X", d.next+1)
}

func (d *derivingOrders) CreateOrder(_ context.Context, fields domain.OrderFields) (*domain.Order, error) {
	o, err := domain.DeriveNewOrder(fields, d)
	if err != nil {
		return nil, err
	}
	d.next++
	o.ID = d.next
	d.stored = append([]domain.OrderWithSender{{Order: *o}}, d.stored...)
	return o, nil
}

func (d *derivingOrders) ListOrders(context.Context) ([]domain.OrderWithSender, error) {
	return d.stored, nil
}

func TestCreateOrder_NonFiniteNumbersStayListable(t *testing.T) {
	orders := &derivingOrders{}
	h := newRouter(orders, &fakeCustomers{})

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(h, req)
	}

	require.Equal(t, http.StatusCreated, post(url.Values{"sender_id": {"1"}, "amount": {"100"}, "fee": {"5"}}).Code)

	rec := post(url.Values{"sender_id": {"1"}, "amount": {"inf"}, "fee": {"-inf"}, "exchange_rate": {"nan"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 0.0, created.Amount)
	assert.Equal(t, 0.0, created.Total)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.OrderWithSender
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, 105.0, listed[1].Total)
}

func TestCreateOrder_NULIsBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"sender_id": 1, "receiver_name": "Ba\u0000Tran"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newRouter(&derivingOrders{}, &fakeCustomers{}), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
