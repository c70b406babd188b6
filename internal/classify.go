package internal

import "regexp"

// urlPatterns match inputs that reference a web page or video link. The
// video-sharing forms are listed before the generic ones so a match is
// found on the first pattern for the common case, but classification only
// depends on whether any pattern matches.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`(?i)https?://youtu\.be/[\w-]+`),
	regexp.MustCompile(`(?i)https?://\S+\.[a-z]{2,}(?:/\S*)?`),
	regexp.MustCompile(`(?i)\bwww\.[a-z0-9-]+\.[a-z]{2,}(?:/\S*)?`),
}

// docNoun is the set of document-like nouns recognized in co-occurrence
// rules.
const docNoun = `(doc|document|file|upload|pdf|report|paper|article|content|text|notes?|slides?|presentation|pptx?)`

// summaryPatterns is the ordered rule table for summary-intent detection.
// Matching is substring search, case-insensitive; any single match
// classifies the input, so order affects only how quickly a match is found.
var summaryPatterns = []*regexp.Regexp{
	// Any inflection of summary/summarize, standalone or in context.
	regexp.MustCompile(`(?i)\bsummar(y|ies|i[sz]es?|i[sz]ed|i[sz]ing)\b`),
	regexp.MustCompile(`(?i)\btl[\s;]+dr\b`),
	regexp.MustCompile(`(?i)\bshort\s+version\b`),
	// Key/main/core point or idea phrasings.
	regexp.MustCompile(`(?i)\b(main|key|important|major|central|core)\s+(points?|ideas?|takeaways?|messages?)\b`),
	regexp.MustCompile(`(?i)\b(gist|abstract|highlights|outline|synopsis|recap)\b`),
	regexp.MustCompile(`(?i)\b(quick|brief|executive)\s+(summary|overview)\b`),
	regexp.MustCompile(`(?i)\b(give\s+me|provide|show\s+me)\s+(the\s+|an?\s+)?(summary|overview)\b`),
	regexp.MustCompile(`(?i)\bwhat\s+(is|are)\s+the\s+(summary|overview|takeaways?)\b`),
	regexp.MustCompile(`(?i)\bwhat\s+is\s+this\s+about\b`),
	// Document nouns co-occurring with an intent verb, in either order.
	regexp.MustCompile(`(?i)\b(explain|describe|details?|elaborate|clarify|interpret|analy[sz]e|review|read|scan|check|inspect|parse|go\s+through|look\s+at|tell\s+me\s+about)\b.*\b` + docNoun + `\b`),
	regexp.MustCompile(`(?i)\b` + docNoun + `\b.*\b(about|contains?|says?|inside|within|includes?|consists?\s+of)\b`),
	regexp.MustCompile(`(?i)\bwhat(\s+is|'s)?\s+(in|inside)\s+(this|that|the|my)\s+` + docNoun + `\b`),
	regexp.MustCompile(`(?i)\bin\s+short\b.*\b` + docNoun + `\b`),
}

// ContainsURL reports whether the text contains a recognized URL form.
func ContainsURL(text string) bool {
	for _, pattern := range urlPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// Classify picks a provisional mode for pending input, used only to select
// the loading indicator while the request is in flight. The result is
// advisory; the final mode is re-derived from the server response by
// Normalize.
//
// URL detection takes precedence over summary intent, so "summarize
// https://example.com" classifies as a website summary.
func Classify(text string) Mode {
	if ContainsURL(text) {
		return ModeWebsiteSummary
	}
	for _, pattern := range summaryPatterns {
		if pattern.MatchString(text) {
			return ModeDocumentSummary
		}
	}
	return ModeRAGSearch
}
