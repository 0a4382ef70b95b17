package constants

const (
	AppStorefrontService = "storefront-service"
	AudienceStorefront   = "audience-storefront"

	SessionCookieName = "storefront_session"
)
