package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"campus-canteen/order-svc/internal/domain"
	"campus-canteen/order-svc/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// BookingStatus reports the booking window to clients.
type BookingStatus interface {
	IsOpen() bool
	TestMode() bool
	Now() time.Time
}

const bookingClosedMessage = "ordering is only possible during the booking window"

type Handler struct {
	orders   service.OrderServiceInterface
	chat     service.ChatServiceInterface
	catalog  service.CatalogServiceInterface
	auth     service.AuthServiceInterface
	payments service.PaymentServiceInterface
	booking  BookingStatus
	validate *validator.Validate
}

func NewHandler(
	orders service.OrderServiceInterface,
	chat service.ChatServiceInterface,
	catalog service.CatalogServiceInterface,
	auth service.AuthServiceInterface,
	payments service.PaymentServiceInterface,
	booking BookingStatus,
) *Handler {
	return &Handler{
		orders:   orders,
		chat:     chat,
		catalog:  catalog,
		auth:     auth,
		payments: payments,
		booking:  booking,
		validate: validator.New(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/config", h.GetConfig).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/vendors", h.requireAdmin(h.AdminListVendors)).Methods(http.MethodGet)
	admin.HandleFunc("/vendors", h.requireAdmin(h.AdminUpsertVendor)).Methods(http.MethodPost)
	admin.HandleFunc("/vendors/{id}/approve", h.requireAdmin(h.AdminSetVendorApproval(true))).Methods(http.MethodPost)
	admin.HandleFunc("/vendors/{id}/reject", h.requireAdmin(h.AdminSetVendorApproval(false))).Methods(http.MethodPost)
	admin.HandleFunc("/vendors/{id}", h.requireAdmin(h.AdminDeleteVendor)).Methods(http.MethodDelete)
	admin.HandleFunc("/menus/{id}/approve", h.requireAdmin(h.AdminSetMenuApproval(true))).Methods(http.MethodPost)
	admin.HandleFunc("/menus/{id}/reject", h.requireAdmin(h.AdminSetMenuApproval(false))).Methods(http.MethodPost)

	r.HandleFunc("/vendors", h.ListVendors).Methods(http.MethodGet)
	r.HandleFunc("/menus", h.ListMenus).Methods(http.MethodGet)
	r.HandleFunc("/vendor/menus", h.VendorListMenus).Methods(http.MethodGet)
	r.HandleFunc("/vendor/menus", h.VendorCreateMenuItem).Methods(http.MethodPost)
	r.HandleFunc("/vendor/menus/{id}", h.VendorUpdateMenuItem).Methods(http.MethodPatch)
	r.HandleFunc("/vendor/menus/{id}", h.VendorDeleteMenuItem).Methods(http.MethodDelete)

	r.HandleFunc("/orders", h.ListOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/pay", h.PayOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/accept", h.AcceptOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/reject", h.RejectOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/messages", h.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/messages", h.PostMessage).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/qrcode", h.GetOrderQRCode).Methods(http.MethodGet)

	r.HandleFunc("/payments/create-qr", h.CreatePaymentQR).Methods(http.MethodPost)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"bookingOpen": h.booking.IsOpen(),
		"testMode":    h.booking.TestMode(),
		"now":         h.booking.Now().Format(time.RFC3339),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := h.decodeValid(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "user", user)
}

// Admin

func (h *Handler) AdminListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalog.ListVendors(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "vendors", vendors)
}

func (h *Handler) AdminUpsertVendor(w http.ResponseWriter, r *http.Request) {
	var in service.VendorInput
	if err := h.decodeValid(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	vendor, err := h.catalog.UpsertVendor(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "vendor", vendor)
}

func (h *Handler) AdminSetVendorApproval(approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendor, err := h.catalog.SetVendorApproved(r.Context(), mux.Vars(r)["id"], approved)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ok(w, http.StatusOK, "vendor", vendor)
	}
}

func (h *Handler) AdminDeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteVendor(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", nil)
}

func (h *Handler) AdminSetMenuApproval(approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := h.catalog.SetMenuItemApproved(r.Context(), mux.Vars(r)["id"], approved)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ok(w, http.StatusOK, "item", item)
	}
}

// Vendors and menus

func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.catalog.ListVendors(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "vendors", vendors)
}

// ListMenus is the student view: withdrawn items are hidden.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMenu(r.Context(), r.URL.Query().Get("vendorId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	visible := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Approved {
			visible = append(visible, it)
		}
	}
	ok(w, http.StatusOK, "items", visible)
}

func (h *Handler) VendorListMenus(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListMenu(r.Context(), r.URL.Query().Get("vendorId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "items", items)
}

func (h *Handler) VendorCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in service.MenuItemInput
	if err := h.decodeValid(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.catalog.CreateMenuItem(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if domain.ReasonOf(err) == domain.ReasonVendorUnavailable {
			status = http.StatusForbidden
			if errors.Is(err, domain.ErrNotFound) {
				status = http.StatusNotFound
			}
		}
		writeErrorStatus(w, r, status, err)
		return
	}
	ok(w, http.StatusCreated, "item", item)
}

type menuItemUpdate struct {
	VendorID string `json:"vendorId"`
	domain.MenuItemPatch
}

// ownerOf takes the vendor from the query string, falling back to the body.
func ownerOf(r *http.Request, fromBody string) (string, error) {
	vendorID := strings.TrimSpace(r.URL.Query().Get("vendorId"))
	if vendorID == "" {
		vendorID = strings.TrimSpace(fromBody)
	}
	if vendorID == "" {
		return "", domain.Validation("vendorId is required")
	}
	return vendorID, nil
}

func (h *Handler) VendorUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in menuItemUpdate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	vendorID, err := ownerOf(r, in.VendorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.catalog.UpdateMenuItem(r.Context(), mux.Vars(r)["id"], vendorID, in.MenuItemPatch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "item", item)
}

func (h *Handler) VendorDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	var in menuItemUpdate
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
	}
	vendorID, err := ownerOf(r, in.VendorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalog.DeleteMenuItem(r.Context(), mux.Vars(r)["id"], vendorID); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "", nil)
}

// Orders

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orders, err := h.orders.List(r.Context(), domain.OrderFilter{
		StudentID: q.Get("studentId"),
		VendorID:  q.Get("vendorId"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "orders", orders)
}

// CreateOrder leaves validation to the service so a closed window is reported
// before anything about the payload.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in service.CreateOrderInput
	if err := decodeJSON(r, &in); err != nil {
		if !h.booking.IsOpen() {
			err = domain.WindowClosed(bookingClosedMessage)
		}
		writeError(w, r, err)
		return
	}
	order, err := h.orders.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "order", order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "order", order)
}

func (h *Handler) PayOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.MarkPaid)
}

func (h *Handler) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Accept)
}

func (h *Handler) RejectOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) (*domain.Order, error)) {
	order, err := apply(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "order", order)
}

// Chat

type messageInput struct {
	From string `json:"from"`
	Text string `json:"text" validate:"required"`
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chat.ListSince(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "messages", msgs)
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var in messageInput
	if err := h.decodeValid(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	msg, err := h.chat.Append(r.Context(), mux.Vars(r)["id"], in.From, in.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusCreated, "message", msg)
}

// Payments

type paymentQRInput struct {
	OrderID string `json:"orderId" validate:"required"`
}

func (h *Handler) CreatePaymentQR(w http.ResponseWriter, r *http.Request) {
	var in paymentQRInput
	if err := h.decodeValid(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	url, err := h.payments.PaymentQRDataURL(r.Context(), in.OrderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, http.StatusOK, "qrDataUrl", url)
}

func (h *Handler) GetOrderQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.payments.PaymentQR(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) decodeValid(r *http.Request, dst any) error {
	if err := decodeJSON(r, dst); err != nil {
		return err
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.Validation("%s failed on %s", fe.Field(), fe.Tag())
		}
		return domain.Validation("%v", err)
	}
	return nil
}
