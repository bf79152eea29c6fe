package contextkeys

type contextKey string

// DBContextKey holds the request-scoped *gorm.DB in the gin context.
const DBContextKey = contextKey("db")

// UserIDKey and EmailKey hold the authenticated caller set by the auth middleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
)
