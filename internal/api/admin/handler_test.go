package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"content-restriction/internal/domain/billing"
	"content-restriction/internal/infra/mailer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore []billing.Payment

func (f fakeStore) AllPayments(context.Context) ([]billing.Payment, error) { return f, nil }

func serve(h gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListAllPayments(t *testing.T) {
	uid := uint(4)
	h := NewHandler(fakeStore{{
		ID: 1, UserID: &uid, Email: "ann@test", AmountEUR: 29, Status: billing.StatusComplete,
		StripeSessionID: "cs_1", Items: []billing.PaymentItem{{ProductID: 1}},
		CreatedAt: time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC),
	}}, nil, nil)

	w := serve(h.ListAllPayments, "/admin/payments")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"user_id":4,"email":"ann@test","amount_eur":29,"status":"complete","items":1,"stripe_session_id":"cs_1","created_at":"2026-05-02 09:30"}]`, w.Body.String())

	w = serve(NewHandler(fakeStore{}, nil, nil).ListAllPayments, "/admin/payments")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListEmailTags(t *testing.T) {
	tags := mailer.NewTags()
	tags.Register("page_list", "Shows a list of restricted pages", func(context.Context, uint) string { return "" })

	w := serve(NewHandler(fakeStore{}, tags, nil).ListEmailTags, "/admin/email-tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"tag":"{page_list}","description":"Shows a list of restricted pages"}]`, w.Body.String())
}
