// Package handler renders the customer screens as JSON views.
package handler

import (
	"time"

	"dinein/internal/domain/entity"
	"dinein/internal/util"
)

// Screen routes a view may redirect to.
const (
	RouteHome         = "/"
	RouteVerifyOTP    = "/verify-otp"
	RouteProfile      = "/profile"
	RouteScan         = "/scan"
	RouteTableSession = "/table-session"
)

// Nav is embedded in every view. Redirect is set when the client should be
// on another screen.
type Nav struct {
	Redirect string `json:"redirect,omitempty"`
}

// landing is where an established session goes by default.
func landing(state entity.SessionState) string {
	switch {
	case !state.Established():
		return RouteHome
	case state.HasTable():
		return RouteTableSession
	default:
		return RouteProfile
	}
}

type PhoneEntryView struct {
	Nav
	PendingTableID     string `json:"pendingTableId,omitempty"`
	DefaultCountryCode string `json:"defaultCountryCode"`

	// Notice is shown once after the session expired.
	Notice string `json:"notice,omitempty"`
	Error  string `json:"error,omitempty"`
}

type CodeSentView struct {
	Nav
	PhoneNumber  string `json:"phoneNumber"`
	PhoneDisplay string `json:"phoneDisplay"`
	Countdown    int    `json:"countdown"`
	DevOTP       string `json:"devOtp,omitempty"`
}

type VerifyOTPView struct {
	Nav
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	PhoneDisplay string `json:"phoneDisplay,omitempty"`
	OTPLength    int    `json:"otpLength"`
	Countdown    int    `json:"countdown"`
	CanResend    bool   `json:"canResend"`
	DevOTP       string `json:"devOtp,omitempty"`
}

type CountdownView struct {
	Countdown int  `json:"countdown"`
	CanResend bool `json:"canResend"`
}

type ProfileView struct {
	Nav
	Customer       *entity.Customer `json:"customer,omitempty"`
	DisplayName    string           `json:"displayName,omitempty"`
	PhoneDisplay   string           `json:"phoneDisplay,omitempty"`
	PendingTableID string           `json:"pendingTableId,omitempty"`
	Error          string           `json:"error,omitempty"`
}

type ScanView struct {
	Nav
	PendingTableID string               `json:"pendingTableId,omitempty"`
	Table          *entity.TableSession `json:"table,omitempty"`
	Error          string               `json:"error,omitempty"`
}

type CartLineView struct {
	entity.CartLine
	Subtotal string `json:"subtotal"`
	Pending  bool   `json:"pending"`
}

type CartView struct {
	Nav
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"itemCount"`
	Total     string         `json:"total"`
}

func newCartView(cart entity.Cart) CartView {
	view := CartView{
		Lines:     make([]CartLineView, 0, len(cart.Lines)),
		ItemCount: cart.ItemCount(),
		Total:     util.FormatMoney(cart.Total),
	}
	for _, line := range cart.Lines {
		view.Lines = append(view.Lines, CartLineView{
			CartLine: line,
			Subtotal: util.FormatMoney(line.Subtotal()),
			Pending:  line.Temporary(),
		})
	}

	return view
}

type TableSessionView struct {
	Nav
	Table     *entity.TableSession `json:"table,omitempty"`
	StartedAt time.Time            `json:"startedAt,omitzero"`
	Duration  string               `json:"duration,omitempty"`
	Cart      *CartView            `json:"cart,omitempty"`
}

type MenuView struct {
	Nav
	*entity.MenuView
}

type OrderView struct {
	Nav
	Order *entity.Order `json:"order,omitempty"`
	Total string        `json:"total,omitempty"`
	Cart  *CartView     `json:"cart,omitempty"`
}

type OrdersView struct {
	Nav
	Orders []entity.Order `json:"orders"`
}
