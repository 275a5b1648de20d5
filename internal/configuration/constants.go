package configuration

const AppName = "learning-platform"

// JWT audience constants for token type separation.
const (
	AudienceAccessToken  = "app:*"
	AudienceRefreshToken = "auth:refresh"
)

// Verification code policy.
const (
	// TwoFactorCodeTTL is the lifetime of a login verification code in seconds.
	TwoFactorCodeTTL = 300
	// PasswordChangeCodeTTL is the lifetime of a password change code in seconds.
	PasswordChangeCodeTTL = 300
	// MaxCodeAttempts is the number of wrong submissions tolerated before a
	// login code is invalidated.
	MaxCodeAttempts = 3
	// PendingTokenTTL is the lifetime of the opaque pending-auth and
	// password-change tokens in seconds. Kept on the same order as the codes
	// they pair with.
	PendingTokenTTL = 300
	// OpaqueTokenBytes is the entropy of opaque correlation tokens.
	OpaqueTokenBytes = 32
)

// Cache key namespaces. The code keys are part of the external contract;
// the token keys correlate an in-flight login or password change to a user
// independently of the code record.
const (
	CacheTwoFactorCodeKey       = "2fa:%s"
	CachePasswordChangeCodeKey  = "pwd-change:%s"
	CachePendingAuthTokenKey    = "pending-2fa:%s"        //nolint:gosec // key prefix, not a credential
	CachePasswordChangeTokenKey = "pwd-change-token:%s"   //nolint:gosec // key prefix, not a credential
)

// Event topics.
const (
	EventsAudit = "audit"
)

type AuthRule struct {
	Method      string
	RequireAuth bool
}

// AuthRuleExactMatchPath lists routes reachable without an access token.
// Everything else under /api requires a valid full access token.
var AuthRuleExactMatchPath = map[string][]AuthRule{
	"/api/v1/auth/register":        {{Method: "POST", RequireAuth: false}},
	"/api/v1/auth/login":           {{Method: "POST", RequireAuth: false}},
	"/api/v1/auth/verify-2fa":      {{Method: "POST", RequireAuth: false}},
	"/api/v1/auth/refresh":         {{Method: "POST", RequireAuth: false}},
	"/api/v1/auth/change-password": {{Method: "POST", RequireAuth: false}},
}

var ArrayConfigFields = []string{
	"app.allowed_origins",
	"cache.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}
