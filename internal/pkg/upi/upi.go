package upi

import (
	"net/url"
	"strings"

	"github.com/ev-spark-hub/internal/domain"
	"github.com/ev-spark-hub/internal/pkg/errors"
	"github.com/shopspring/decimal"
)

const scheme = "upi"

// BuildIntent собирает ссылку upi://pay?pa=..&pn=..&am=..&cu=..&tn=..&tr=..
func BuildIntent(p domain.UPIPayload) string {
	q := url.Values{}
	q.Set("pa", p.PayeeVPA)
	if p.PayeeName != "" {
		q.Set("pn", p.PayeeName)
	}
	if p.Amount != nil {
		q.Set("am", p.Amount.StringFixed(2))
	}
	if p.Currency != "" {
		q.Set("cu", p.Currency)
	}
	if p.Note != "" {
		q.Set("tn", p.Note)
	}
	if p.TransactionRef != "" {
		q.Set("tr", p.TransactionRef)
	}

	u := url.URL{Scheme: scheme, Host: "pay", RawQuery: q.Encode()}
	return u.String()
}

// Parse разбирает содержимое UPI QR кода. Обязателен только pa.
func Parse(content string) (*domain.UPIPayload, error) {
	content = strings.TrimSpace(content)
	u, err := url.Parse(content)
	if err != nil || !strings.EqualFold(u.Scheme, scheme) || !strings.EqualFold(u.Host, "pay") {
		return nil, errors.ErrInvalidUPIPayload
	}

	q := u.Query()
	payload := &domain.UPIPayload{
		PayeeVPA:       q.Get("pa"),
		PayeeName:      q.Get("pn"),
		TransactionRef: q.Get("tr"),
		Note:           q.Get("tn"),
		Currency:       q.Get("cu"),
	}
	if payload.PayeeVPA == "" {
		return nil, errors.ErrInvalidUPIPayload.WithDetails(map[string]interface{}{
			"field": "pa",
		})
	}

	if am := q.Get("am"); am != "" {
		amount, err := decimal.NewFromString(am)
		if err != nil || amount.IsNegative() {
			return nil, errors.ErrInvalidUPIPayload.WithDetails(map[string]interface{}{
				"field": "am",
			})
		}
		payload.Amount = &amount
	}

	return payload, nil
}
