package inference

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/nimbly/jvmprobe/pkg/openapi"
)

// AuthStatus is the outcome of ResolveAuth.
type AuthStatus string

const (
	AuthNotRequired    AuthStatus = "not_required"
	AuthResolved       AuthStatus = "auto_resolved"
	AuthNeedsUserInput AuthStatus = "needs_user_input"
)

// AuthStrategy names the authentication mechanism a route expects.
type AuthStrategy string

const (
	StrategyNone    AuthStrategy = "none"
	StrategyBearer  AuthStrategy = "bearer"
	StrategyBasic   AuthStrategy = "basic"
	StrategyCookie  AuthStrategy = "cookie"
	StrategyUnknown AuthStrategy = "unknown"
)

// Credentials are user-supplied, explicit-input-only credentials (spec
// §4.8 invariant: no ambient environment variable pick-up).
type Credentials struct {
	Username string
	Password string
	Token    string
}

// AuthResult is the combined auth-resolution outcome for one endpoint.
type AuthResult struct {
	Status    AuthStatus
	Strategy  AuthStrategy
	Header    string // e.g. "Authorization: Bearer ..." when resolved
	Missing   []string
	LoginHint *LoginHint
}

// LoginHint describes a discovered login endpoint (spec §4.8 step 5).
type LoginHint struct {
	Method       string
	Path         string
	BodyTemplate map[string]any
}

var declarativeSecurityRe = regexp.MustCompile(
	`@(PreAuthorize|Secured|RolesAllowed|SecurityRequirement)\b`,
)

// ResolveAuth implements spec §4.8: combine an OpenAPI document's declared
// security, a controller file's declarative security annotations, and
// user-supplied credentials into one AuthResult.
func ResolveAuth(doc *openapi.Document, controllerText string, path string, creds Credentials, discoverLoginHint bool) AuthResult {
	required, strategy := false, StrategyNone

	if doc != nil {
		if _, _, op, ok := findOperationByPath(doc, path); ok {
			sec := doc.SecurityFor(op)
			if len(sec) > 0 {
				required = true
				if scheme, found := doc.ResolveScheme(sec); found {
					strategy = schemeToStrategy(scheme)
				} else {
					strategy = StrategyUnknown
				}
			}
		}
	}

	if declarativeSecurityRe.MatchString(controllerText) {
		required = true
	}

	result := AuthResult{}
	switch {
	case !required:
		result.Status = AuthNotRequired
		result.Strategy = StrategyNone

	case strategy == StrategyBasic:
		if creds.Username != "" && creds.Password != "" {
			encoded := base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
			result.Status = AuthResolved
			result.Strategy = StrategyBasic
			result.Header = "Authorization: Basic " + encoded
		} else {
			result.Status = AuthNeedsUserInput
			result.Strategy = StrategyBasic
			if creds.Username == "" {
				result.Missing = append(result.Missing, "username")
			}
			if creds.Password == "" {
				result.Missing = append(result.Missing, "password")
			}
		}

	case creds.Token != "":
		result.Status = AuthResolved
		result.Strategy = strategy
		if strategy == StrategyCookie {
			result.Header = "Cookie: session=" + creds.Token
		} else {
			result.Header = "Authorization: Bearer " + creds.Token
		}

	default:
		result.Status = AuthNeedsUserInput
		result.Strategy = strategy
		result.Missing = append(result.Missing, "authToken")
		if strategy == StrategyBasic {
			result.Missing = append(result.Missing, "username", "password")
		}
	}

	if discoverLoginHint && doc != nil {
		result.LoginHint = findLoginHint(doc)
	}
	return result
}

func findOperationByPath(doc *openapi.Document, path string) (string, string, *openapi.Operation, bool) {
	item, ok := doc.Paths[path]
	if !ok {
		return "", "", nil, false
	}
	ops := item.Operations()
	if len(ops) == 0 {
		return "", "", nil, false
	}
	return path, ops[0].Method, ops[0].Operation, true
}

func schemeToStrategy(s openapi.SecurityScheme) AuthStrategy {
	switch {
	case s.Type == "http" && strings.EqualFold(s.Scheme, "basic"):
		return StrategyBasic
	case s.Type == "http" && strings.EqualFold(s.Scheme, "bearer"):
		return StrategyBearer
	case s.Type == "apiKey" && strings.EqualFold(s.In, "cookie"):
		return StrategyCookie
	default:
		return StrategyUnknown
	}
}

var loginKeywordRe = regexp.MustCompile(`(?i)login|signin|sign-in|token|auth|authenticate|session`)

// findLoginHint walks doc's paths for the first POST whose path or request
// body mentions login keywords alongside a password field.
func findLoginHint(doc *openapi.Document) *LoginHint {
	for path, item := range doc.Paths {
		if item.Post == nil {
			continue
		}
		bodyText := bodySchemaText(item.Post.RequestBody)
		if !loginKeywordRe.MatchString(path) && !loginKeywordRe.MatchString(bodyText) {
			continue
		}
		if !strings.Contains(strings.ToLower(bodyText), "password") {
			continue
		}

		template := map[string]any{"password": "value"}
		if strings.Contains(strings.ToLower(bodyText), "email") {
			template["email"] = "value"
		} else {
			template["username"] = "value"
		}
		return &LoginHint{Method: "POST", Path: path, BodyTemplate: template}
	}
	return nil
}

func bodySchemaText(body map[string]any) string {
	var sb strings.Builder
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for k, val := range t {
				sb.WriteString(k)
				sb.WriteByte(' ')
				walk(val)
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		case string:
			sb.WriteString(t)
			sb.WriteByte(' ')
		}
	}
	walk(body)
	return sb.String()
}
