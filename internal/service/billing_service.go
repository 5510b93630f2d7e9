package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	config "github.com/maheshrc27/flowsocial/configs"
	"github.com/maheshrc27/flowsocial/internal/metrics"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/repository"
	"github.com/maheshrc27/flowsocial/pkg/plans"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

const (
	metadataUserID = "userId"
	metadataPlan   = "plan"

	statusActive          = "active"
	statusPaymentFailed   = "payment_failed"
	statusSubscriptionDel = "subscription_deleted"
)

// StripeGateway is the subset of the Stripe API the billing flow calls.
type StripeGateway interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSubscription(id string) (*stripe.Subscription, error)
}

type stripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) StripeGateway {
	return &stripeGateway{api: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return g.api.CheckoutSessions.New(params)
}

func (g *stripeGateway) GetSubscription(id string) (*stripe.Subscription, error) {
	return g.api.Subscriptions.Get(id, nil)
}

type BillingService interface {
	// CreateCheckout starts a subscription checkout for a paid plan and
	// returns the hosted checkout URL.
	CreateCheckout(ctx context.Context, userID int64, plan, origin string) (string, error)
	// HandleWebhook verifies the signature and applies the event. Only a
	// bad signature is returned as an error; processing failures are logged.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type billingService struct {
	enabled       bool
	webhookSecret string
	prices        plans.Prices
	gateway       StripeGateway
	users         repository.UserRepository
	subs          repository.SubscriptionRepository
	metrics       metrics.MetricsCollector
}

func NewBillingService(
	cfg config.Config,
	gateway StripeGateway,
	users repository.UserRepository,
	subs repository.SubscriptionRepository,
	m metrics.MetricsCollector) BillingService {
	return &billingService{
		enabled:       cfg.Stripe.SecretKey != "",
		webhookSecret: cfg.Stripe.WebhookSecret,
		prices:        plans.Prices{Pro: cfg.Stripe.PricePro, StudioMax: cfg.Stripe.PriceStudioMax},
		gateway:       gateway,
		users:         users,
		subs:          subs,
		metrics:       m,
	}
}

func (s *billingService) CreateCheckout(ctx context.Context, userID int64, plan, origin string) (string, error) {
	if !s.enabled {
		return "", ErrBillingDisabled
	}

	p := plans.Plan(strings.ToLower(strings.TrimSpace(plan)))
	priceID, ok := s.prices.PriceID(p)
	if !ok {
		return "", ErrInvalidPlan
	}

	user, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("user %d not found", userID)
	}

	origin = strings.TrimRight(origin, "/")
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(strconv.FormatInt(userID, 10)),
		SuccessURL:        stripe.String(origin + "/studio?checkout=success"),
		CancelURL:         stripe.String(origin + "/?checkout=cancelled"),
	}
	if user.StripeCustomerID != "" {
		params.Customer = stripe.String(user.StripeCustomerID)
	} else {
		params.CustomerEmail = stripe.String(user.Email)
	}
	params.AddMetadata(metadataUserID, strconv.FormatInt(userID, 10))
	params.AddMetadata(metadataPlan, string(p))
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := s.gateway.CreateCheckoutSession(params)
	if err != nil {
		slog.Error("stripe checkout session failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return sess.URL, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhookSecret == "" {
		return ErrBillingDisabled
	}

	// accept events from endpoints pinned to another API version
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		slog.Info("stripe webhook rejected", "error", err)
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	eventType := string(event.Type)
	s.metrics.RecordWebhookEvent(eventType)
	slog.Info("processing stripe webhook", "type", eventType, "id", event.ID)

	if err := s.handleEvent(ctx, eventType, event.Data.Raw); err != nil {
		slog.Error("stripe webhook processing failed", "type", eventType, "id", event.ID, "error", err)
	}
	return nil
}

func (s *billingService) handleEvent(ctx context.Context, eventType string, raw json.RawMessage) error {
	switch eventType {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			return err
		}
		return s.checkoutCompleted(ctx, &sess)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return err
		}
		return s.downgrade(ctx, customerID(inv.Customer), statusPaymentFailed)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return err
		}
		switch sub.Status {
		case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusPastDue:
			return s.downgrade(ctx, customerID(sub.Customer), "subscription_"+string(sub.Status))
		case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
			return s.syncActive(ctx, &sub)
		}
		return nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return err
		}
		return s.downgrade(ctx, customerID(sub.Customer), statusSubscriptionDel)
	}

	return nil
}

func (s *billingService) checkoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	custID := customerID(sess.Customer)

	user, err := s.findUser(ctx, sess.Metadata[metadataUserID], custID)
	if err != nil {
		return err
	}
	if user == nil {
		slog.Info("checkout completed for unknown user", "session", sess.ID, "customer", custID)
		return nil
	}

	var sub *stripe.Subscription
	if sess.Subscription != nil && sess.Subscription.ID != "" {
		sub, err = s.gateway.GetSubscription(sess.Subscription.ID)
		if err != nil {
			// the plan falls back to the checkout metadata below
			slog.Info("subscription lookup failed", "subscription", sess.Subscription.ID, "error", err)
			sub = sess.Subscription
		}
	}

	priceID := subscriptionPriceID(sub)
	plan := s.prices.DeterminePlan(priceID)
	if plan == plans.Free {
		// paid but unrecognised price: trust the requested plan, else pro
		plan = plans.Pro
		if requested := plans.Normalize(sess.Metadata[metadataPlan]); requested != plans.Free {
			plan = requested
		}
	}

	subID := ""
	if sub != nil {
		subID = sub.ID
	}

	if err := s.users.UpdateBilling(ctx, user.ID, repository.BillingState{
		Plan:                 string(plan),
		StripeCustomerID:     custID,
		StripeSubscriptionID: subID,
		SubscriptionStatus:   statusActive,
	}); err != nil {
		return err
	}

	slog.Info("plan upgraded", "user_id", user.ID, "plan", plan)
	return s.subs.Upsert(ctx, &models.Subscription{
		UserID:              user.ID,
		SubscriptionID:      subID,
		CustomerID:          custID,
		PriceID:             priceID,
		Plan:                string(plan),
		SubscriptionEndDate: periodEnd(sub),
		Status:              statusActive,
	})
}

// syncActive applies plan changes made in the billing portal.
func (s *billingService) syncActive(ctx context.Context, sub *stripe.Subscription) error {
	priceID := subscriptionPriceID(sub)
	plan := s.prices.DeterminePlan(priceID)
	if plan == plans.Free {
		return nil
	}

	user, found, err := s.users.GetByStripeCustomerID(ctx, customerID(sub.Customer))
	if err != nil || !found {
		return err
	}

	if err := s.users.UpdateBilling(ctx, user.ID, repository.BillingState{
		Plan:                 string(plan),
		StripeSubscriptionID: sub.ID,
		SubscriptionStatus:   string(sub.Status),
	}); err != nil {
		return err
	}

	return s.subs.Upsert(ctx, &models.Subscription{
		UserID:              user.ID,
		SubscriptionID:      sub.ID,
		CustomerID:          customerID(sub.Customer),
		PriceID:             priceID,
		Plan:                string(plan),
		SubscriptionEndDate: periodEnd(sub),
		Status:              string(sub.Status),
	})
}

// downgrade moves the customer's user to the free plan and records why.
func (s *billingService) downgrade(ctx context.Context, custID, note string) error {
	if custID == "" {
		slog.Info("downgrade skipped, missing customer id", "note", note)
		return nil
	}

	user, found, err := s.users.GetByStripeCustomerID(ctx, custID)
	if err != nil {
		return err
	}
	if !found {
		slog.Info("downgrade for unknown customer", "customer", custID, "note", note)
		return nil
	}

	if err := s.users.UpdateBilling(ctx, user.ID, repository.BillingState{
		Plan:               string(plans.Free),
		SubscriptionStatus: note,
	}); err != nil {
		return err
	}

	slog.Info("plan downgraded", "user_id", user.ID, "note", note)
	return s.subs.UpdateStatus(ctx, user.ID, note)
}

func (s *billingService) findUser(ctx context.Context, rawUserID, custID string) (*models.User, error) {
	if id, err := strconv.ParseInt(rawUserID, 10, 64); err == nil && id > 0 {
		user, found, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found {
			return user, nil
		}
	}

	if custID == "" {
		return nil, nil
	}
	user, found, err := s.users.GetByStripeCustomerID(ctx, custID)
	if err != nil || !found {
		return nil, err
	}
	return user, nil
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub == nil || sub.Items == nil {
		return ""
	}
	for _, item := range sub.Items.Data {
		if item != nil && item.Price != nil && item.Price.ID != "" {
			return item.Price.ID
		}
	}
	return ""
}

func periodEnd(sub *stripe.Subscription) time.Time {
	if sub == nil || sub.CurrentPeriodEnd == 0 {
		return time.Time{}
	}
	return time.Unix(sub.CurrentPeriodEnd, 0).UTC()
}
