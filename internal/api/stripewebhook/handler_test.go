package stripewebhooks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"content-restriction/config"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/catalog"
	"content-restriction/internal/infra/mailer"
	"content-restriction/internal/receipt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const webhookSecret = "whsec_test"

type fakeStore struct {
	recorded []billing.Payment
	sessions map[string]int // session id -> index in recorded
	emails   map[string]uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]int{}, emails: map[string]uint{"ann@test": 4}}
}

func (f *fakeStore) ProductByStripePrice(_ context.Context, priceID string) (catalog.Product, *catalog.PriceOption, error) {
	switch priceID {
	case "price_guide":
		return catalog.Product{ID: 1, Title: "Guide"}, nil, nil
	case "price_pro":
		return catalog.Product{ID: 3, Title: "Bundle", VariablePricing: true},
			&catalog.PriceOption{ID: 6, ProductID: 3, Name: "Pro"}, nil
	}
	return catalog.Product{}, nil, errors.New("record not found")
}

func (f *fakeStore) RecordPayment(_ context.Context, p *billing.Payment) (bool, error) {
	if i, ok := f.sessions[p.StripeSessionID]; ok {
		stored := &f.recorded[i]
		upgraded := stored.Status != billing.StatusComplete && p.Status == billing.StatusComplete
		if upgraded {
			stored.Status = billing.StatusComplete
		}
		*p = *stored
		return upgraded, nil
	}
	f.sessions[p.StripeSessionID] = len(f.recorded)
	p.ID = uint(len(f.recorded) + 1)
	f.recorded = append(f.recorded, *p)
	return true, nil
}

func (f *fakeStore) UserIDByEmail(_ context.Context, email string) (uint, bool) {
	id, ok := f.emails[email]
	return id, ok
}

type sentMail struct{ to, subject, body string }

type fakeMailer struct{ sent []sentMail }

func (m *fakeMailer) SendHTML(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func session(paymentStatus string, prices ...string) *stripe.CheckoutSession {
	s := &stripe.CheckoutSession{
		ID:            "cs_test_1",
		Status:        stripe.CheckoutSessionStatusComplete,
		PaymentStatus: stripe.CheckoutSessionPaymentStatus(paymentStatus),
		AmountTotal:   4900,
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "ann@test",
		},
		LineItems: &stripe.LineItemList{},
	}
	for _, p := range prices {
		s.LineItems.Data = append(s.LineItems.Data, &stripe.LineItem{Price: &stripe.Price{ID: p}})
	}
	return s
}

func newTestHandler(full *stripe.CheckoutSession) (*Handler, *fakeStore, *fakeMailer) {
	fs := newFakeStore()
	fm := &fakeMailer{}

	tags := mailer.NewTags()
	tags.Register(receipt.PageListTag, "pages", func(_ context.Context, paymentID uint) string {
		return "<ul><li>Chapter 1</li></ul>"
	})

	h := NewHandler(fs, tags, fm, nil)
	h.getSession = func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		if full == nil {
			return nil, errors.New("stripe unavailable")
		}
		return full, nil
	}
	return h, fs, fm
}

var ctx = context.Background()

func TestCheckoutCompletedRecordsPaymentAndMails(t *testing.T) {
	h, fs, fm := newTestHandler(session("paid", "price_guide", "price_pro"))

	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))

	require.Len(t, fs.recorded, 1)
	p := fs.recorded[0]
	assert.Equal(t, billing.StatusComplete, p.Status)
	assert.Equal(t, 49.0, p.AmountEUR)
	assert.Equal(t, "ann@test", p.Email)
	require.NotNil(t, p.UserID)
	assert.Equal(t, uint(4), *p.UserID)

	require.Len(t, p.Items, 2)
	assert.Equal(t, uint(1), p.Items[0].ProductID)
	assert.Nil(t, p.Items[0].PriceOptionID)
	assert.Equal(t, uint(3), p.Items[1].ProductID)
	require.NotNil(t, p.Items[1].PriceOptionID)
	assert.Equal(t, uint(6), *p.Items[1].PriceOptionID)

	require.Len(t, fm.sent, 1)
	assert.Equal(t, "ann@test", fm.sent[0].to)
	assert.Equal(t, "<p>Thank you for your purchase.</p><ul><li>Chapter 1</li></ul>", fm.sent[0].body)
}

func TestCheckoutCompletedIsIdempotent(t *testing.T) {
	h, fs, fm := newTestHandler(session("paid", "price_guide"))

	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))

	assert.Len(t, fs.recorded, 1)
	assert.Len(t, fm.sent, 1)
}

func TestCheckoutCompletedUnpaidSendsNothing(t *testing.T) {
	h, fs, fm := newTestHandler(session("unpaid", "price_guide"))

	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	require.Len(t, fs.recorded, 1)
	assert.Equal(t, billing.StatusPending, fs.recorded[0].Status)
	assert.Empty(t, fm.sent)
}

func TestCheckoutAsyncPaymentCompletesPendingPayment(t *testing.T) {
	full := session("unpaid", "price_guide")
	h, fs, fm := newTestHandler(full)

	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	assert.Empty(t, fm.sent)

	full.PaymentStatus = stripe.CheckoutSessionPaymentStatusPaid
	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))

	require.Len(t, fs.recorded, 1)
	assert.Equal(t, billing.StatusComplete, fs.recorded[0].Status)
	require.Len(t, fm.sent, 1)
	assert.Equal(t, "ann@test", fm.sent[0].to)

	// a replayed success does not mail twice
	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	assert.Len(t, fm.sent, 1)
}

func TestCheckoutCompletedPrefersMetadataUser(t *testing.T) {
	full := session("paid", "price_guide")
	full.Metadata = map[string]string{"user_id": "12"}
	h, fs, _ := newTestHandler(full)

	require.NoError(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	assert.Equal(t, uint(12), *fs.recorded[0].UserID)
}

func TestCheckoutCompletedErrors(t *testing.T) {
	h, _, _ := newTestHandler(nil)
	assert.Error(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))

	h, fs, _ := newTestHandler(session("paid"))
	assert.Error(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))

	h, fs, _ = newTestHandler(session("paid", "price_unknown"))
	assert.Error(t, h.handleCheckoutSessionCompleted(ctx, &stripe.CheckoutSession{ID: "cs_test_1"}))
	assert.Empty(t, fs.recorded)
}

func postEvent(h *Handler, payload string, signed bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook", h.StripeWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	if signed {
		sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
			Payload:   []byte(payload),
			Secret:    webhookSecret,
			Timestamp: time.Now(),
		})
		req.Header.Set("Stripe-Signature", sp.Header)
	} else {
		req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStripeWebhook(t *testing.T) {
	config.STRIPE_SECRET_KEY = "sk_test_123"
	config.STRIPE_WEBHOOK_SECRET = webhookSecret

	completed := `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session"}}}`

	h, fs, _ := newTestHandler(session("paid", "price_guide"))
	w := postEvent(h, completed, true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"received"}`, w.Body.String())
	assert.Len(t, fs.recorded, 1)

	w = postEvent(h, completed, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ignored := `{"id":"evt_2","object":"event","type":"customer.created","data":{"object":{"id":"cus_1","object":"customer"}}}`
	w = postEvent(h, ignored, true)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())

	h, _, _ = newTestHandler(nil)
	assert.Equal(t, http.StatusInternalServerError, postEvent(h, completed, true).Code)

	config.STRIPE_WEBHOOK_SECRET = ""
	assert.Equal(t, http.StatusInternalServerError, postEvent(h, completed, true).Code)
}
