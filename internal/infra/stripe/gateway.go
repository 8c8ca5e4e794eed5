package stripe

import (
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Gateway wraps the Stripe API behind one constructed client. Nothing in
// the rest of the codebase touches the package-level stripe key.
type Gateway struct {
	api           *client.API
	webhookSecret string
}

func NewGateway(secretKey, webhookSecret string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api, webhookSecret: webhookSecret}
}

// ConstructWebhookEvent verifies the signature over the raw payload and
// decodes the event. A bad signature returns an error and no event.
func (g *Gateway) ConstructWebhookEvent(payload []byte, signature string) (stripego.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		signature,
		g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}

func (g *Gateway) CreateCustomer(email string, metadata map[string]string) (*stripego.Customer, error) {
	return g.api.Customers.New(&stripego.CustomerParams{
		Email: stripego.String(email),
		Params: stripego.Params{
			Metadata: metadata,
		},
	})
}

// CheckoutParams carries everything a subscription checkout needs. The
// user and tenant ids ride along as session metadata so the webhook can
// attribute the completed checkout.
type CheckoutParams struct {
	PriceID    string
	CustomerID string
	UserID     string
	TenantID   string
	SuccessURL string
	CancelURL  string
}

func (g *Gateway) CreateCheckoutSession(p CheckoutParams) (*stripego.CheckoutSession, error) {
	return g.api.CheckoutSessions.New(&stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		Customer:   stripego.String(p.CustomerID),
		SuccessURL: stripego.String(p.SuccessURL),
		CancelURL:  stripego.String(p.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(p.PriceID), Quantity: stripego.Int64(1)},
		},
		ClientReferenceID: stripego.String(p.UserID),
		Params: stripego.Params{
			Metadata: map[string]string{
				"user_id":   p.UserID,
				"tenant_id": p.TenantID,
				"price_id":  p.PriceID,
			},
		},
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":   p.UserID,
				"tenant_id": p.TenantID,
			},
		},
	})
}

func (g *Gateway) CreatePortalSession(customerID, returnURL string) (*stripego.BillingPortalSession, error) {
	return g.api.BillingPortalSessions.New(&stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	})
}

// CancelAtPeriodEnd flags the subscription to lapse at the period end
// instead of cutting access immediately.
func (g *Gateway) CancelAtPeriodEnd(subscriptionID string) (*stripego.Subscription, error) {
	return g.api.Subscriptions.Update(subscriptionID, &stripego.SubscriptionParams{
		CancelAtPeriodEnd: stripego.Bool(true),
	})
}

func (g *Gateway) CancelSubscription(subscriptionID string) (*stripego.Subscription, error) {
	return g.api.Subscriptions.Cancel(subscriptionID, nil)
}

func (g *Gateway) RetrieveSubscription(subscriptionID string) (*stripego.Subscription, error) {
	return g.api.Subscriptions.Get(subscriptionID, nil)
}

// ListRecurringPrices returns the active recurring prices with their
// products expanded, for the plan catalog sync.
func (g *Gateway) ListRecurringPrices() ([]*stripego.Price, error) {
	params := &stripego.PriceListParams{}
	params.Active = stripego.Bool(true)
	params.Type = stripego.String("recurring")
	params.AddExpand("data.product")

	it := g.api.Prices.List(params)

	var prices []*stripego.Price
	for it.Next() {
		prices = append(prices, it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}
