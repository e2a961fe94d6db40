package routes

import (
	"content-restriction/config"
	adminapi "content-restriction/internal/api/admin"
	"content-restriction/internal/api/billing"
	"content-restriction/internal/api/posts"
	"content-restriction/internal/api/products"
	stripewebhooks "content-restriction/internal/api/stripewebhook"
	"content-restriction/internal/api/users"
	"content-restriction/internal/app/http/middleware"
	"content-restriction/internal/domain/access"
	"content-restriction/internal/gate"
	"content-restriction/internal/infra/mailer"
	"content-restriction/internal/infra/store"
	"content-restriction/internal/receipt"
	"content-restriction/internal/render/shortcode"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services holds the handlers of the HTTP API, wired to one store.
type Services struct {
	Posts    *posts.Handler
	Billing  *billing.Handler
	Webhook  *stripewebhooks.Handler
	Products *products.Handler
	Users    *users.Handler
	Admin    *adminapi.Handler

	Capabilities middleware.CapabilityChecker
}

func NewServices(db *gorm.DB, log *zap.Logger) *Services {
	st := store.New(db, log.Named("store"), config.APP_URL)

	evaluator := access.NewEvaluator(st, st)
	evaluator.Forum = config.FORUM_CONTEXT

	g := gate.New(evaluator, st, shortcode.NewRegistry())

	extender := receipt.NewExtender(st, log.Named("receipt"))
	tags := mailer.NewTags()
	extender.RegisterEmailTags(tags)

	// a nil Mailer turns confirmation emails off
	var mail stripewebhooks.Mailer
	smtpCfg := mailer.SMTPConfig{
		From:     config.SMTP_FROM,
		Password: config.SMTP_PASSWORD,
		Host:     config.SMTP_HOST,
		Port:     config.SMTP_PORT,
	}
	if smtpCfg.Enabled() {
		mail = mailer.NewSender(smtpCfg)
	} else {
		log.Info("SMTP not configured, purchase emails disabled")
	}

	return &Services{
		Posts:    posts.NewHandler(st, g, evaluator, log.Named("posts")),
		Billing:  billing.NewHandler(st, extender, log.Named("billing")),
		Webhook:  stripewebhooks.NewHandler(st, tags, mail, log.Named("stripe")),
		Products: products.NewHandler(st, log.Named("catalog")),
		Users:    users.NewHandler(st, log.Named("users")),
		Admin:    adminapi.NewHandler(st, tags, log.Named("admin")),

		Capabilities: st.HasCapability,
	}
}
