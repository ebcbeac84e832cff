// Package checkout builds hosted payment-provider sessions from carts,
// applies affiliate attribution and the self-purchase discount, and hands
// successful sessions to the attribution recorder.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"vitalabs/internal/metrics"
	"vitalabs/internal/models"
	"vitalabs/internal/providers"
	"vitalabs/internal/services/attribution"
	"vitalabs/internal/services/referral"
	"vitalabs/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// CreateSession validates the cart, resolves the referral cookie,
	// creates a provider session and fires the best-effort attribution
	// write. claims may be nil for guest checkouts.
	CreateSession(ctx context.Context, req *Request, refCookie string, claims *models.UserClaims) (*Result, error)
}

type service struct {
	providers map[string]providers.CheckoutProvider
	referral  referral.Service
	cookies   *referral.CookieCodec
	recorder  attribution.Recorder
	logger    *zap.Logger
}

// NewService creates a new checkout service. providerList order does not
// matter; providers are selected by name.
func NewService(
	providerList []providers.CheckoutProvider,
	referralSvc referral.Service,
	cookies *referral.CookieCodec,
	recorder attribution.Recorder,
	logger *zap.Logger,
) Service {
	byName := make(map[string]providers.CheckoutProvider, len(providerList))
	for _, p := range providerList {
		byName[p.Name()] = p
	}
	return &service{
		providers: byName,
		referral:  referralSvc,
		cookies:   cookies,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *service) CreateSession(ctx context.Context, req *Request, refCookie string, claims *models.UserClaims) (*Result, error) {
	v := validation.New()
	v.Cart(req.Items)
	v.Shipping(req.ShippingCost)
	if req.Email != "" {
		v.Email("email", req.Email)
	}
	if !v.Valid() {
		return nil, &ValidationError{Fields: v.Errors}
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = models.ProviderStripe
	}
	provider, ok := s.providers[providerName]
	if !ok {
		return nil, &ValidationError{Fields: map[string]string{
			"provider": "must be one of: stripe, coinbase",
		}}
	}

	// Attribution is resolved against the affiliate's current status, so
	// a cookie whose affiliate has been declined since capture attaches
	// nothing and earns no discount.
	affiliate := s.resolveAffiliate(ctx, refCookie)

	subtotal := req.SubtotalCents()
	shipping := req.ShippingCents()

	var discount, commission int64
	personalPurchase := false
	if affiliate != nil {
		if claims != nil && claims.AffiliateID != nil && *claims.AffiliateID == affiliate.ID {
			// Self-purchase: the affiliate buys at their own commission
			// rate instead of earning it.
			personalPurchase = true
			discount = roundCents(subtotal, affiliate.CommissionRate)
		} else {
			commission = roundCents(subtotal, affiliate.CommissionRate)
		}
	}

	sessionReq := &providers.SessionRequest{
		Email:         req.Email,
		Currency:      "usd",
		ShippingCents: shipping,
		DiscountCents: discount,
		Autoship:      req.Autoship(),
		Metadata:      map[string]string{},
	}
	for _, item := range req.Items {
		name := item.Name
		if name == "" {
			name = item.ID
		}
		if item.Size != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Size)
		}
		sessionReq.LineItems = append(sessionReq.LineItems, providers.LineItem{
			Name:            name,
			UnitAmountCents: item.PriceCents(),
			Quantity:        item.Quantity,
		})
	}
	if affiliate != nil {
		sessionReq.Metadata["affiliate_id"] = strconv.FormatUint(uint64(affiliate.ID), 10)
		sessionReq.Metadata["affiliate_code"] = *affiliate.Code
		sessionReq.Metadata["commission_cents"] = strconv.FormatInt(commission, 10)
		sessionReq.Metadata["personal_purchase"] = strconv.FormatBool(personalPurchase)
	}

	start := time.Now()
	session, err := provider.CreateSession(ctx, sessionReq)
	metrics.CheckoutSessionLatency.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues(providerName, "error").Inc()
		if errors.Is(err, providers.ErrNotConfigured) {
			s.logger.Error("checkout provider not configured", zap.String("provider", providerName))
		} else {
			s.logger.Error("provider session creation failed",
				zap.String("provider", providerName),
				zap.Error(err))
		}
		return nil, err
	}
	metrics.CheckoutSessionsTotal.WithLabelValues(providerName, "ok").Inc()

	s.record(req, session, providerName, affiliate, subtotal, shipping, discount, commission, personalPurchase)

	return &Result{ID: session.ID, URL: session.URL}, nil
}

func (s *service) resolveAffiliate(ctx context.Context, refCookie string) *models.AffiliateApplication {
	code, ok := s.cookies.Decode(refCookie)
	if !ok {
		return nil
	}
	app, err := s.referral.Resolve(ctx, code)
	if err != nil {
		if !errors.Is(err, referral.ErrUnknownCode) {
			s.logger.Warn("failed to resolve referral cookie", zap.Error(err))
		}
		return nil
	}
	return app
}

// record hands the order and its attribution to the best-effort recorder.
// The HTTP response does not wait for these writes.
func (s *service) record(
	req *Request,
	session *providers.Session,
	providerName string,
	affiliate *models.AffiliateApplication,
	subtotal, shipping, discount, commission int64,
	personalPurchase bool,
) {
	total := subtotal + shipping - discount

	order := &models.Order{
		Provider:        providerName,
		ProviderOrderID: session.ID,
		Email:           req.Email,
		AmountCents:     total,
		Currency:        "usd",
		Autoship:        req.Autoship(),
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      item.ID,
			Name:           item.Name,
			UnitPriceCents: item.PriceCents(),
			Quantity:       item.Quantity,
			Size:           item.Size,
			Plan:           item.Plan,
		})
	}

	var oa *models.OrderAffiliate
	if affiliate != nil {
		cart := make([]interface{}, 0, len(req.Items))
		for _, item := range req.Items {
			cart = append(cart, map[string]interface{}{
				"id":       item.ID,
				"price":    item.Price,
				"quantity": item.Quantity,
				"plan":     item.Plan,
			})
		}
		oa = &models.OrderAffiliate{
			ID:                 uuid.NewString(),
			Provider:           providerName,
			OrderID:            session.ID,
			AffiliateID:        affiliate.ID,
			Code:               *affiliate.Code,
			AmountCents:        total,
			Currency:           "usd",
			CommissionCents:    commission,
			IsPersonalPurchase: personalPurchase,
			Metadata: models.JSON{
				"cart":           cart,
				"discount_cents": discount,
			},
			CreatedAt: time.Now(),
		}
	}

	s.recorder.Record(order, oa)
}

// roundCents returns rate applied to an amount in cents, rounded half up.
// A zero amount yields a zero discount, never a negative line.
func roundCents(amountCents int64, rate float64) int64 {
	return int64(math.Round(float64(amountCents) * rate))
}
