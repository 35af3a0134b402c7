package errors

import (
	"fmt"
	"strings"
)

// SuggestionEngine provides smart error suggestions based on patterns
type SuggestionEngine struct {
	patterns []ErrorPattern
}

// ErrorPattern matches error messages and provides suggestions
type ErrorPattern struct {
	Contains    []string  // Any of these strings trigger the pattern
	Type        ErrorType // Error type to assign
	Suggestions []string  // Suggestions to provide
}

// NewSuggestionEngine creates a new suggestion engine with default patterns
func NewSuggestionEngine() *SuggestionEngine {
	return &SuggestionEngine{
		patterns: defaultPatterns(),
	}
}

// GetSuggestions analyzes an error and returns relevant suggestions
func (se *SuggestionEngine) GetSuggestions(err error, context map[string]string) []string {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())
	suggestions := []string{}

	// Check each pattern
	for _, pattern := range se.patterns {
		if pattern.Matches(errMsg) {
			suggestions = append(suggestions, pattern.Suggestions...)
		}
	}

	// Add context-specific suggestions
	if context != nil {
		suggestions = append(suggestions, se.getContextSuggestions(context)...)
	}

	// Remove duplicates
	return uniqueStrings(suggestions)
}

// getContextSuggestions provides suggestions based on context
func (se *SuggestionEngine) getContextSuggestions(context map[string]string) []string {
	var suggestions []string

	// Plugin-specific suggestions
	if plugin, ok := context["plugin"]; ok && plugin != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("Inspect %s's manifest and dependencyList for a typo or missing entry", plugin),
			fmt.Sprintf("Check %s's own logs for the underlying failure", plugin),
		)
	}

	// Search-root-specific suggestions
	if root, ok := context["root"]; ok && root != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("Confirm the plugin search root exists and is readable: %s", root),
		)
	}

	// Manifest-path-specific suggestions
	if path, ok := context["path"]; ok {
		if strings.HasSuffix(path, ".plugin.xml") {
			suggestions = append(suggestions,
				"Validate the manifest is well-formed XML: every tag closed, no bare & or <",
				"Confirm the manifest declares a name, version, and category",
			)
		}
	}

	// State-specific suggestions
	if state, ok := context["state"]; ok {
		switch state {
		case "indirectly-disabled":
			suggestions = append(suggestions,
				"A dependency of this plugin is disabled or failed to load; re-enable or fix it first",
			)
		case "resolved":
			suggestions = append(suggestions,
				"This plugin never reached Loaded; check it was included in the load queue",
			)
		}
	}

	return suggestions
}

// Matches checks if a pattern matches an error message
func (p *ErrorPattern) Matches(errMsg string) bool {
	for _, substr := range p.Contains {
		if strings.Contains(errMsg, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// defaultPatterns returns the default error patterns
func defaultPatterns() []ErrorPattern {
	return []ErrorPattern{
		// Manifest parse errors
		{
			Contains: []string{"xml syntax error", "unexpected eof", ".plugin.xml"},
			Type:     TypePlugin,
			Suggestions: []string{
				"Check the manifest for unescaped & or < characters",
				"Validate every XML tag is properly closed",
				"Confirm the file name ends in .plugin.xml",
			},
		},
		// Missing required manifest fields
		{
			Contains: []string{"missing name", "missing version", "empty category"},
			Type:     TypePlugin,
			Suggestions: []string{
				"Add the missing <name>, <version>, or <category> element",
				"Compare against a working plugin manifest in the same search root",
			},
		},
		// Circular dependency
		{
			Contains: []string{"circular dependency"},
			Type:     TypeDependency,
			Suggestions: []string{
				"Break the cycle by removing one dependency edge",
				"Check each listed plugin's dependencyList for a reference back to an ancestor",
				"Run the plugin list through a dependency graph viewer to spot the cycle",
			},
		},
		// Unresolved / missing dependency
		{
			Contains: []string{"dependency", "not found", "unresolved"},
			Type:     TypeDependency,
			Suggestions: []string{
				"Confirm the dependency's plugin manifest is under one of the search roots",
				"Check the dependency name is spelled exactly as the other plugin declares it",
				"The dependency may be disabled; re-enable it",
			},
		},
		// Library load failures
		{
			Contains: []string{"failed to load library", "handshake", "executable file not found", "no such file or directory"},
			Type:     TypePlugin,
			Suggestions: []string{
				"Confirm the plugin binary path is correct and executable",
				"Check the binary was built for this OS and architecture",
				"Run the binary directly from a shell to see its own startup error",
			},
		},
		// Untrusted binary
		{
			Contains: []string{"not a trusted path", "untrusted", "validator rejected"},
			Type:     TypePermission,
			Suggestions: []string{
				"Move the plugin binary into a trusted search root",
				"Add the plugin's directory to the validator's trusted paths",
				"Only disable strict validation for local development",
			},
		},
		// Initialization failures
		{
			Contains: []string{"initialization failed", "failed to initialize"},
			Type:     TypePlugin,
			Suggestions: []string{
				"Check the plugin's own logs for the root cause",
				"Verify any configuration resources the plugin's provides/requires expression depends on are present",
				"If the plugin requested shutdown, its IsShutdownRequested implementation says why",
			},
		},
		// Settings store failures
		{
			Contains: []string{"settings", "unmarshal", "yaml"},
			Type:     TypeConfig,
			Suggestions: []string{
				"Check the settings file is valid YAML",
				"Verify file permissions on the settings path",
				"Delete a corrupted settings file to fall back to defaults",
			},
		},
		// Permission denied
		{
			Contains: []string{"permission denied", "access denied", "operation not permitted"},
			Type:     TypePermission,
			Suggestions: []string{
				"Check file permissions on the plugin directory: ls -la",
				"Fix ownership: chown -R $(whoami) <plugin-dir>",
				"On Linux, the process may need elevated privileges to read the path",
			},
		},
		// Timeout
		{
			Contains: []string{"timeout", "timed out", "deadline exceeded"},
			Type:     TypeTimeout,
			Suggestions: []string{
				"The plugin subprocess may be hung; check it with a process monitor",
				"Increase the handshake timeout if the plugin does slow startup work",
			},
		},
	}
}

// uniqueStrings removes duplicate strings from a slice
func uniqueStrings(strings []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, str := range strings {
		if !seen[str] {
			seen[str] = true
			result = append(result, str)
		}
	}

	return result
}

// AnalyzeError provides intelligent error analysis and suggestions
func AnalyzeError(err error) *GlideError {
	if err == nil {
		return nil
	}

	// If it's already a GlideError with suggestions, return it
	if glideErr, ok := err.(*GlideError); ok && glideErr.HasSuggestions() {
		return glideErr
	}

	// Get suggestions from the engine
	engine := NewSuggestionEngine()
	suggestions := engine.GetSuggestions(err, nil)

	// Determine error type from patterns
	errType := TypeUnknown
	errMsg := strings.ToLower(err.Error())
	for _, pattern := range engine.patterns {
		if pattern.Matches(errMsg) {
			errType = pattern.Type
			break
		}
	}

	// Create or enhance the error
	if glideErr, ok := err.(*GlideError); ok {
		// Enhance existing GlideError
		glideErr.Suggestions = append(glideErr.Suggestions, suggestions...)
		if glideErr.Type == TypeUnknown {
			glideErr.Type = errType
		}
		return glideErr
	}

	// Create new GlideError
	return New(errType, err.Error(),
		WithError(err),
		WithSuggestions(suggestions...),
	)
}

// EnhanceError adds contextual suggestions to an error
func EnhanceError(err error, context map[string]string) *GlideError {
	if err == nil {
		return nil
	}

	// Get base analysis
	glideErr := AnalyzeError(err)

	// Add context
	for k, v := range context {
		glideErr.AddContext(k, v)
	}

	// Get additional context-based suggestions
	engine := NewSuggestionEngine()
	contextSuggestions := engine.getContextSuggestions(context)

	// Merge suggestions
	glideErr.Suggestions = uniqueStrings(append(glideErr.Suggestions, contextSuggestions...))

	return glideErr
}
