package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// ErrIgnored marks an event type outside the recognized set. The webhook
// handler acknowledges these with 200 and takes no action.
var ErrIgnored = errors.New("event not actionable")

// Envelope is the outer shape every Razorpay webhook shares.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Purchase is the canonical triple extracted from a payment event. Email may
// come back empty; recovering it via a payment lookup is the caller's call.
type Purchase struct {
	Email     string
	OrderID   string
	PaymentID string
}

type paymentEntity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	OrderID string `json:"order_id"`
}

// Interpret normalizes the two supported event shapes into a Purchase.
// payment.captured and payment_link.paid nest their fields differently, so
// each gets its own extraction path. Anything else returns ErrIgnored.
func Interpret(event string, payload []byte) (*Purchase, error) {
	switch event {
	case "payment.captured":
		return interpretPaymentCaptured(payload)
	case "payment_link.paid":
		return interpretPaymentLinkPaid(payload)
	default:
		return nil, ErrIgnored
	}
}

func interpretPaymentCaptured(payload []byte) (*Purchase, error) {
	var outer struct {
		Payment json.RawMessage `json:"payment"`
	}
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, err
	}

	// Normally the payment sits under an "entity" wrapper; some deliveries
	// put the fields on the payment object itself.
	src := outer.Payment
	var wrap struct {
		Entity json.RawMessage `json:"entity"`
	}
	if len(outer.Payment) > 0 {
		if err := json.Unmarshal(outer.Payment, &wrap); err == nil &&
			len(wrap.Entity) > 0 && !bytes.Equal(wrap.Entity, []byte("null")) {
			src = wrap.Entity
		}
	}

	var ent paymentEntity
	if len(src) > 0 {
		if err := json.Unmarshal(src, &ent); err != nil {
			return nil, err
		}
	}

	return &Purchase{
		Email:     strings.TrimSpace(ent.Email),
		OrderID:   ent.OrderID,
		PaymentID: ent.ID,
	}, nil
}

func interpretPaymentLinkPaid(payload []byte) (*Purchase, error) {
	var outer struct {
		PaymentLink struct {
			Entity struct {
				Customer struct {
					Email string `json:"email"`
				} `json:"customer"`
				ReferenceID string `json:"reference_id"`
				Payments    []struct {
					PaymentID string `json:"payment_id"`
					ID        string `json:"id"`
				} `json:"payments"`
			} `json:"entity"`
		} `json:"payment_link"`
	}
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, err
	}

	ent := outer.PaymentLink.Entity
	p := &Purchase{
		Email:   strings.TrimSpace(ent.Customer.Email),
		OrderID: ent.ReferenceID,
	}
	if len(ent.Payments) > 0 {
		p.PaymentID = ent.Payments[0].PaymentID
		if p.PaymentID == "" {
			p.PaymentID = ent.Payments[0].ID
		}
	}
	return p, nil
}
