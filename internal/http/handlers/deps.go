package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/deputyJo/ironcart-backend/internal/config"
	"github.com/deputyJo/ironcart-backend/internal/mailer"
	"github.com/deputyJo/ironcart-backend/internal/payments"
	"github.com/deputyJo/ironcart-backend/internal/recaptcha"
	"github.com/deputyJo/ironcart-backend/internal/repos"
	"github.com/deputyJo/ironcart-backend/internal/services"
)

type Deps struct {
	UserHandler    *UserHandler
	AuthHandler    *AuthHandler
	ProductHandler *ProductHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	PaymentHandler *PaymentHandler
	WebhookHandler *WebhookHandler
	AdminHandler   *AdminHandler

	Tokens *services.TokenService
	Users  *repos.UserRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config, events services.OrderEventSink) *Deps {
	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	tokens := services.NewTokenService(cfg.AccessSecret, cfg.RefreshSecret)
	authSvc := &services.AuthService{
		Users:   userRepo,
		Tokens:  tokens,
		Captcha: recaptcha.NewVerifier(cfg.RecaptchaSecret, !cfg.Production()),
		Mail:    mailer.New(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass, cfg.EmailFrom, cfg.FrontendURL),
	}

	catalogSvc := services.NewCatalogService(prodRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, &payments.FakeGateway{})
	orderSvc.Events = events

	stripeCheckout := payments.NewStripeCheckout(cfg.StripeKey, cfg.StripeWebhookSecret, cfg.FrontendURL)
	paypalClient := payments.NewPayPalClient(cfg.PayPalAPIBase, cfg.PayPalClientID, cfg.PayPalClientSecret)
	paymentSvc := services.NewPaymentService(orderSvc, cartRepo, stripeCheckout, paypalClient, cfg.FrontendURL)

	return &Deps{
		UserHandler:    &UserHandler{Auth: authSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		CartHandler:    &CartHandler{Cart: cartSvc},
		OrderHandler:   &OrderHandler{Order: orderSvc},
		PaymentHandler: &PaymentHandler{Payments: paymentSvc},
		WebhookHandler: &WebhookHandler{Payments: paymentSvc},
		AdminHandler:   &AdminHandler{Users: userRepo, Order: orderSvc, Catalog: catalogSvc},

		Tokens: tokens,
		Users:  userRepo,
	}
}
