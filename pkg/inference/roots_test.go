package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly/jvmprobe/pkg/openapi"
	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

func TestExpandSearchRootsAddsParentForCoreSubmodule(t *testing.T) {
	roots := ExpandSearchRoots("/repo/acme-app/core")
	assert.Equal(t, []string{"/repo/acme-app/core", "/repo/acme-app"}, roots)
}

func TestExpandSearchRootsDedupsWorkspaceFallback(t *testing.T) {
	roots := ExpandSearchRoots("/repo/core")
	assert.Equal(t, []string{"/repo/core", "/repo"}, roots, "core-submodule parent and workspace fallback are the same dir and must dedup")
}

func TestExpandSearchRootsAppendsWorkspaceEvenWithoutCoreName(t *testing.T) {
	roots := ExpandSearchRoots("/repo/web")
	assert.Equal(t, []string{"/repo/web", "/repo"}, roots, "workspace root is tried as a last resort regardless of the project name")
}

func TestBuildMergedIndexRejectsEmptyRoots(t *testing.T) {
	shared := sourceindex.File{Path: "/repo/core/src/Shared.java", PrimaryType: "Shared"}
	_ = shared
	// BuildMergedIndex delegates to sourceindex.Build per root, which walks
	// the real filesystem; this test covers only the no-roots error path.
	_, err := BuildMergedIndex(nil, []string{".java"}, nil)
	require.Error(t, err)
}

// coreWebSettingsControllerSrc mirrors a sibling web module's controller
// that PATCHes account settings, matching an operation an OpenAPI document
// also names by operationId.
const coreWebSettingsControllerSrc = `package com.example.web;

@RestController
@RequestMapping("/user-accounts")
public class AccountSettingsController {

    @PatchMapping("/settings")
    public void updateSettings(@RequestParam("userId") String userId, @RequestBody String settingsJson) {
        accountService.putSettingsJson(userId, settingsJson);
    }
}
`

// TestInferRequestCandidateResolvesAcrossMergedRoots mirrors the
// cross-module scenario: the target method lives in a core module's
// service class, but the controller that reaches it lives in a sibling
// web module. Passing a merged index (as ExpandSearchRoots/BuildMergedIndex
// would produce for a planner rooted at core) lets InferRequestCandidate
// see the web module's controller even though it was never under core.
func TestInferRequestCandidateResolvesAcrossMergedRoots(t *testing.T) {
	merged := &sourceindex.Index{Files: []sourceindex.File{
		{
			Path:        "/repo/acme-app/core/src/AccountService.java",
			PrimaryType: "AccountService",
			Text:        `public class AccountService { void putSettingsJson(String userId, String settingsJson) {} }`,
			Methods:     []sourceindex.Method{{Name: "putSettingsJson", Line: 1}},
		},
		{
			Path:        "/repo/acme-app/web/src/AccountSettingsController.java",
			PrimaryType: "AccountSettingsController",
			Text:        coreWebSettingsControllerSrc,
			Methods:     []sourceindex.Method{{Name: "updateSettings", Line: 7}},
		},
	}}

	cand, ok := InferRequestCandidate(merged, "putSettingsJson", nil)
	require.True(t, ok, "planner rooted at core must still resolve a single candidate via the sibling web module's controller")
	assert.Equal(t, "PATCH", cand.Method)
	assert.Contains(t, cand.Path, "/user-accounts/settings")
	assert.Contains(t, cand.Path, "userId=value")
}

// TestInferRequestCandidateResolvesAcrossMergedRootsViaOpenAPI covers the
// same cross-module shape when the sibling controller text isn't indexed
// but an OpenAPI document (found under a merged root) names the operation.
func TestInferRequestCandidateResolvesAcrossMergedRootsViaOpenAPI(t *testing.T) {
	idx := &sourceindex.Index{}
	doc := &openapi.Document{
		Paths: map[string]openapi.PathItem{
			"/user-accounts/settings": {Patch: &openapi.Operation{OperationID: "updateAccountSettings"}},
		},
	}
	cand, ok := InferRequestCandidate(idx, "updateAccountSettings", doc)
	require.True(t, ok)
	assert.True(t, cand.FromOpenAPI)
	assert.Equal(t, "PATCH", cand.Method)
}
