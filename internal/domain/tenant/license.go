package tenant

import (
	"crypto/rand"
	"regexp"
	"strings"
)

const (
	licenseKeySegments   = 5
	licenseKeySegmentLen = 4
	licenseKeyCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var licenseKeyPattern = regexp.MustCompile(`^([A-Z0-9]{4}-){4}[A-Z0-9]{4}$`)

// GenerateLicenseKey returns a license key in the form
// XXXX-XXXX-XXXX-XXXX-XXXX.
func GenerateLicenseKey() string {
	buf := make([]byte, licenseKeySegments*licenseKeySegmentLen)
	_, _ = rand.Read(buf)

	segments := make([]string, licenseKeySegments)
	for i := 0; i < licenseKeySegments; i++ {
		var sb strings.Builder
		for j := 0; j < licenseKeySegmentLen; j++ {
			sb.WriteByte(licenseKeyCharset[int(buf[i*licenseKeySegmentLen+j])%len(licenseKeyCharset)])
		}
		segments[i] = sb.String()
	}
	return strings.Join(segments, "-")
}

// ValidateLicenseKeyFormat reports whether key matches the canonical format.
func ValidateLicenseKeyFormat(key string) bool {
	return licenseKeyPattern.MatchString(key)
}
