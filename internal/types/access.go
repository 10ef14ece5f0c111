package types

// AccessDecision is the per-request outcome of the access gate. It is always
// derived fresh from the tenant's stored timestamps, never persisted.
type AccessDecision string

const (
	// DecisionAllow grants the request.
	DecisionAllow AccessDecision = "ALLOW"
	// DecisionPaymentRequired denies the request but invites the caller to
	// renew; only ever shown to center admins.
	DecisionPaymentRequired AccessDecision = "PAYMENT_REQUIRED"
	// DecisionAccessDenied denies the request with no payment prompt; staff
	// members are directed to their center administrator instead.
	DecisionAccessDenied AccessDecision = "ACCESS_DENIED"
	// DecisionNoTenant means the caller has no service center association.
	DecisionNoTenant AccessDecision = "NO_TENANT"
)
