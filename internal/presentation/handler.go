package presentation

import (
	"context"
	"fmt"
	"github.com/RaikyD/remit-desk/internal/application"
	"github.com/RaikyD/remit-desk/internal/domain"
	"github.com/RaikyD/remit-desk/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
	"net/http"
	"strconv"
)

type OrdersService interface {
	CreateOrder(ctx context.Context, fields domain.OrderFields) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int64, fields domain.OrderFields) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*domain.OrderWithSender, error)
	ListOrders(ctx context.Context) ([]domain.OrderWithSender, error)
	TrackOrder(ctx context.Context, trackingNumber string) (*domain.TrackedOrder, error)
	Receipt(ctx context.Context, id int64) (*application.Receipt, error)
}

type OrdersHandler struct {
	svc OrdersService
}

func NewOrdersHandler(svc OrdersService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Put("/orders/{id}", h.UpdateOrder)
	r.Post("/orders/{id}", h.UpdateOrder)
	r.Delete("/orders/{id}", h.DeleteOrder)
	r.Get("/orders/{id}/pdf", h.DownloadReceipt)
	r.Get("/track", h.TrackOrder)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if orders == nil {
		orders = []domain.OrderWithSender{}
	}
	helpers.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	fields, err := helpers.ReadFields(w, r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	o, err := h.svc.CreateOrder(r.Context(), fields)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.Header().Set("Location", "/orders/"+strconv.FormatInt(o.ID, 10))
	helpers.WriteJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	fields, err := helpers.ReadFields(w, r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	o, err := h.svc.UpdateOrder(r.Context(), id, fields)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadReceipt answers with the receipt PDF as an attachment.
func (h *OrdersHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	rc, err := h.svc.Receipt(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", rc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+rc.Filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(rc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rc.Data)
}

func (h *OrdersHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	o, err := h.svc.TrackOrder(r.Context(), number)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}

type CustomersService interface {
	CreateCustomer(ctx context.Context, fields map[string]string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, fields map[string]string) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type CustomersHandler struct {
	svc CustomersService
}

func NewCustomersHandler(svc CustomersService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

func (h *CustomersHandler) Register(r chi.Router) {
	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/customers/{id}", h.GetCustomer)
	r.Put("/customers/{id}", h.UpdateCustomer)
	r.Post("/customers/{id}", h.UpdateCustomer)
	r.Delete("/customers/{id}", h.DeleteCustomer)
}

func (h *CustomersHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.ListCustomers(r.Context())
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	helpers.WriteJSON(w, http.StatusOK, customers)
}

func (h *CustomersHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	fields, err := helpers.ReadFields(w, r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateCustomer(r.Context(), fields)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/customers/%d", c.ID))
	helpers.WriteJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	fields, err := helpers.ReadFields(w, r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	c, err := h.svc.UpdateCustomer(r.Context(), id, fields)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := helpers.IDParam(r)
	if err != nil {
		helpers.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		helpers.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
