package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly/jvmprobe/pkg/openapi"
)

func bearerDoc() *openapi.Document {
	return &openapi.Document{
		Paths: map[string]openapi.PathItem{
			"/api/orders/{id}": {Get: &openapi.Operation{OperationID: "getOrder", Security: []map[string][]string{
				{"bearerAuth": {}},
			}}},
			"/api/public": {Get: &openapi.Operation{OperationID: "publicInfo"}},
		},
		Components: openapi.Components{SecuritySchemes: map[string]openapi.SecurityScheme{
			"bearerAuth": {Type: "http", Scheme: "bearer"},
		}},
	}
}

func TestResolveAuthNotRequiredWhenNoSecurityDeclared(t *testing.T) {
	result := ResolveAuth(bearerDoc(), "", "/api/public", Credentials{}, false)
	assert.Equal(t, AuthNotRequired, result.Status)
}

func TestResolveAuthAutoResolvesBearerToken(t *testing.T) {
	result := ResolveAuth(bearerDoc(), "", "/api/orders/{id}", Credentials{Token: "abc123"}, false)
	require.Equal(t, AuthResolved, result.Status)
	assert.Equal(t, "Authorization: Bearer abc123", result.Header)
}

func TestResolveAuthNeedsUserInputWhenTokenMissing(t *testing.T) {
	result := ResolveAuth(bearerDoc(), "", "/api/orders/{id}", Credentials{}, false)
	require.Equal(t, AuthNeedsUserInput, result.Status)
	assert.Contains(t, result.Missing, "authToken")
}

func TestResolveAuthBasicWithCredentials(t *testing.T) {
	doc := &openapi.Document{
		Paths: map[string]openapi.PathItem{
			"/api/admin": {Get: &openapi.Operation{Security: []map[string][]string{{"basicAuth": {}}}}},
		},
		Components: openapi.Components{SecuritySchemes: map[string]openapi.SecurityScheme{
			"basicAuth": {Type: "http", Scheme: "basic"},
		}},
	}
	result := ResolveAuth(doc, "", "/api/admin", Credentials{Username: "u", Password: "p"}, false)
	require.Equal(t, AuthResolved, result.Status)
	assert.Contains(t, result.Header, "Authorization: Basic ")
}

func TestResolveAuthBasicMissingCredentialsListsFields(t *testing.T) {
	doc := &openapi.Document{
		Paths: map[string]openapi.PathItem{
			"/api/admin": {Get: &openapi.Operation{Security: []map[string][]string{{"basicAuth": {}}}}},
		},
		Components: openapi.Components{SecuritySchemes: map[string]openapi.SecurityScheme{
			"basicAuth": {Type: "http", Scheme: "basic"},
		}},
	}
	result := ResolveAuth(doc, "", "/api/admin", Credentials{}, false)
	require.Equal(t, AuthNeedsUserInput, result.Status)
	assert.ElementsMatch(t, []string{"username", "password"}, result.Missing)
}

func TestResolveAuthDeclarativeControllerAnnotationImpliesRequired(t *testing.T) {
	result := ResolveAuth(nil, "@PreAuthorize(\"hasRole('ADMIN')\")", "/not/in/openapi", Credentials{}, false)
	assert.Equal(t, AuthNeedsUserInput, result.Status)
}

func TestFindLoginHintPrefersEmailWhenPresent(t *testing.T) {
	doc := &openapi.Document{
		Paths: map[string]openapi.PathItem{
			"/api/auth/login": {Post: &openapi.Operation{
				RequestBody: map[string]any{"content": map[string]any{"schema": map[string]any{"properties": map[string]any{"email": "string", "password": "string"}}}},
			}},
		},
	}
	hint := findLoginHint(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "/api/auth/login", hint.Path)
	assert.Contains(t, hint.BodyTemplate, "email")
}
