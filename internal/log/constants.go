package log

const (
	KeyAppName          = "app"
	KeyRequestID        = "requestId"
	KeyProcess          = "process"
	KeyTag              = "tag"
	KeyEmail            = "email"
	KeyConfig           = "config"
	KeySessionID        = "sessionId"
	KeyProductID        = "productId"
	KeyProducts         = "products"
	KeyProduct          = "product"
	KeyCategory         = "category"
	KeyCart             = "cart"
	KeyCartItemQuantity = "cartItemQuantity"
	KeyWishlist         = "wishlist"
	KeyCacheKey         = "cacheKey"
	KeyStorageKey       = "storageKey"
	KeyRequest          = "request"
	KeyRequestBody      = "requestBody"
	KeyRequestHost      = "host"
	KeyRequestIp        = "requesterIP"
	KeyRequestMethod    = "requestMethod"
	KeyRequestURI       = "requestURI"
	KeyRequestURL       = "requestURL"
	KeyHeader           = "header"
	KeyBody             = "body"
	KeyTraceID          = "traceId"
	KeySpanID           = "spanId"
)
