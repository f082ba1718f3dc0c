package services

import "regexp"

// Join links must be well-formed URLs and point at one of the allowed
// meeting platforms. Anything else is rejected at validation time so that
// listings never contain links the product cannot vouch for.
var (
	generalLinkPattern = regexp.MustCompile(
		`^(https?:\/\/)` + // http:// or https://
			`([\w\-]+\.)+[a-zA-Z]{2,}` + // domain name
			`(\/[\w\-._~:/?#[\]@!$&'()*+,;=]*)?$`) // optional path/query/fragment

	allowedPlatformPattern = regexp.MustCompile(
		`^https:\/\/(zoom\.us|meet\.google\.com)\/`)
)

// isValidJoinLink reports whether link is a valid https URL on an allowed
// meeting platform (zoom.us or meet.google.com).
func isValidJoinLink(link string) bool {
	return generalLinkPattern.MatchString(link) && allowedPlatformPattern.MatchString(link)
}
