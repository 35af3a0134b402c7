package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuggestionEngine(t *testing.T) {
	engine := NewSuggestionEngine()

	assert.NotNil(t, engine)
	assert.NotEmpty(t, engine.patterns)
}

func TestSuggestionEngine_GetSuggestionsNil(t *testing.T) {
	engine := NewSuggestionEngine()

	suggestions := engine.GetSuggestions(nil, nil)
	assert.Nil(t, suggestions)
}

func TestSuggestionEngine_ManifestParsePattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("plugins/addon.plugin.xml:4: XML syntax error on line 4: unexpected EOF")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "well-formed") || contains(s, "closed") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have manifest-parse-related suggestions")
}

func TestSuggestionEngine_CircularDependencyPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("circular dependency detected among plugins: [a b c]")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "cycle") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have circular-dependency-related suggestions")
}

func TestSuggestionEngine_LibraryLoadPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("plugin \"addon\": failed to load library /plugins/addon.so: no such file or directory")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "binary") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have library-load-related suggestions")
}

func TestSuggestionEngine_InitializationFailedPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("plugin \"addon\": initialization failed: missing config")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "own logs") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have initialization-related suggestions")
}

func TestSuggestionEngine_UntrustedBinaryPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("plugin binary is not a trusted path: /tmp/addon.so")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "trusted") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have trust-related suggestions")
}

func TestSuggestionEngine_PermissionDeniedPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("permission denied")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "permission") || contains(s, "chown") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have permission-related suggestions")
}

func TestSuggestionEngine_SettingsPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("failed to unmarshal settings yaml")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "YAML") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have settings-related suggestions")
}

func TestSuggestionEngine_TimeoutPattern(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("operation timed out")
	suggestions := engine.GetSuggestions(err, nil)

	assert.NotEmpty(t, suggestions)
}

func TestSuggestionEngine_WithContext_Plugin(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("some error")
	context := map[string]string{
		"plugin": "addon",
	}

	suggestions := engine.GetSuggestions(err, context)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "addon") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have plugin-specific suggestions")
}

func TestSuggestionEngine_WithContext_Root(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("error")
	context := map[string]string{
		"root": "/usr/local/lib/plugo/plugins",
	}

	suggestions := engine.GetSuggestions(err, context)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "search root") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have search-root-specific suggestions")
}

func TestSuggestionEngine_WithContext_ManifestPath(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("error")
	context := map[string]string{
		"path": "/plugins/addon.plugin.xml",
	}

	suggestions := engine.GetSuggestions(err, context)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "well-formed") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have manifest-path-specific suggestions")
}

func TestSuggestionEngine_WithContext_IndirectlyDisabledState(t *testing.T) {
	engine := NewSuggestionEngine()

	err := fmt.Errorf("error")
	context := map[string]string{
		"state": "indirectly-disabled",
	}

	suggestions := engine.GetSuggestions(err, context)

	assert.NotEmpty(t, suggestions)
	found := false
	for _, s := range suggestions {
		if contains(s, "disabled") {
			found = true
			break
		}
	}
	assert.True(t, found, "Should have indirectly-disabled-specific suggestions")
}

func TestErrorPattern_Matches(t *testing.T) {
	pattern := &ErrorPattern{
		Contains: []string{"permission denied", "access denied"},
		Type:     TypePermission,
	}

	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{
			name:     "exact match",
			message:  "permission denied",
			expected: true,
		},
		{
			name:     "contains",
			message:  "error: permission denied for user",
			expected: true,
		},
		{
			name:     "alternative pattern",
			message:  "access denied",
			expected: true,
		},
		{
			name:     "no match",
			message:  "file not found",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pattern.Matches(tt.message)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestUniqueStrings(t *testing.T) {
	input := []string{
		"suggestion 1",
		"suggestion 2",
		"suggestion 1", // duplicate
		"suggestion 3",
		"suggestion 2", // duplicate
	}

	result := uniqueStrings(input)

	assert.Len(t, result, 3)
	assert.Contains(t, result, "suggestion 1")
	assert.Contains(t, result, "suggestion 2")
	assert.Contains(t, result, "suggestion 3")
}

func TestUniqueStrings_Empty(t *testing.T) {
	result := uniqueStrings([]string{})
	assert.Empty(t, result)
}

func TestAnalyzeError_Nil(t *testing.T) {
	result := AnalyzeError(nil)
	assert.Nil(t, result)
}

func TestAnalyzeError_GlideErrorWithSuggestions(t *testing.T) {
	original := NewPluginError("addon", "test error", nil)
	original.AddSuggestion("existing suggestion")

	result := AnalyzeError(original)

	require.NotNil(t, result)
	assert.Equal(t, original, result)
	assert.Contains(t, result.Suggestions, "existing suggestion")
}

func TestAnalyzeError_StandardError(t *testing.T) {
	err := fmt.Errorf("circular dependency detected among plugins: [a b]")

	result := AnalyzeError(err)

	require.NotNil(t, result)
	assert.Equal(t, TypeDependency, result.Type)
	assert.NotEmpty(t, result.Suggestions)
	assert.Equal(t, err, result.Err)
}

func TestAnalyzeError_GlideErrorWithoutSuggestions(t *testing.T) {
	original := &GlideError{
		Type:    TypeUnknown,
		Message: "permission denied accessing plugin directory",
	}

	result := AnalyzeError(original)

	require.NotNil(t, result)
	// Should enhance with pattern-based suggestions
	assert.NotEmpty(t, result.Suggestions)
	// Should update type based on pattern
	assert.Equal(t, TypePermission, result.Type)
}

func TestEnhanceError_Nil(t *testing.T) {
	result := EnhanceError(nil, nil)
	assert.Nil(t, result)
}

func TestEnhanceError_WithContext(t *testing.T) {
	err := fmt.Errorf("initialization failed: missing config")
	context := map[string]string{
		"plugin": "addon",
	}

	result := EnhanceError(err, context)

	require.NotNil(t, result)
	assert.Equal(t, "addon", result.Context["plugin"])
	assert.NotEmpty(t, result.Suggestions)
}

func TestEnhanceError_MergesSuggestions(t *testing.T) {
	// Error that matches a pattern (will get pattern suggestions)
	err := fmt.Errorf("permission denied")
	// Context that provides additional suggestions
	context := map[string]string{
		"plugin": "addon",
	}

	result := EnhanceError(err, context)

	require.NotNil(t, result)
	// Should have both pattern-based and context-based suggestions
	assert.NotEmpty(t, result.Suggestions)

	// Verify no duplicates
	seen := make(map[string]bool)
	for _, s := range result.Suggestions {
		assert.False(t, seen[s], "Should not have duplicate suggestions")
		seen[s] = true
	}
}

func TestDefaultPatterns_Coverage(t *testing.T) {
	patterns := defaultPatterns()

	assert.NotEmpty(t, patterns)

	// Verify we have patterns for common plugin-lifecycle error types
	types := make(map[ErrorType]bool)
	for _, p := range patterns {
		types[p.Type] = true
	}

	assert.True(t, types[TypePlugin], "Should have plugin patterns")
	assert.True(t, types[TypeDependency], "Should have dependency patterns")
	assert.True(t, types[TypePermission], "Should have permission patterns")
	assert.True(t, types[TypeConfig], "Should have config/settings patterns")
	assert.True(t, types[TypeTimeout], "Should have timeout patterns")
}

func TestSuggestionEngine_GetContextSuggestions_EmptyContext(t *testing.T) {
	engine := NewSuggestionEngine()

	suggestions := engine.getContextSuggestions(map[string]string{})
	assert.Empty(t, suggestions)
}

func TestSuggestionEngine_GetContextSuggestions_NilContext(t *testing.T) {
	engine := NewSuggestionEngine()

	suggestions := engine.getContextSuggestions(nil)
	assert.Empty(t, suggestions)
}

// Helper function
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
