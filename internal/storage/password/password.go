// Package password enforces the storage service's credential policy:
// a minimum-strength check against a fixed deny-list, and a best-effort
// breached-password lookup using the HIBP k-anonymity range API.
package password

import (
	"bufio"
	"crypto/sha1"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LucasLorenaa/projeto-javer-services/shared/apperr"
)

const minLength = 6

// denyList holds common passwords rejected outright, compared
// case-insensitively against the full password.
var denyList = map[string]struct{}{
	"123456":    {},
	"12345678":  {},
	"123456789": {},
	"111111":    {},
	"password":  {},
	"senha":     {},
	"qwerty":    {},
	"abc123":    {},
	"admin":     {},
	"letmein":   {},
}

// ValidateStrength rejects passwords shorter than six characters or present
// in the deny-list.
func ValidateStrength(senha string) error {
	if len(senha) < minLength {
		return &apperr.WeakPasswordError{Reason: fmt.Sprintf("must be at least %d characters", minLength)}
	}
	if _, denied := denyList[strings.ToLower(senha)]; denied {
		return &apperr.WeakPasswordError{Reason: "too common"}
	}
	return nil
}

const defaultRangeURL = "https://api.pwnedpasswords.com/range"

// BreachChecker queries the HIBP range API. Only the first five hex
// characters of the password's SHA-1 digest leave the process; the matching
// suffix is searched locally in the returned candidate list.
type BreachChecker struct {
	baseURL string
	client  *http.Client
}

// NewBreachChecker uses the public HIBP endpoint with a 2s budget so the
// lookup never dominates request latency.
func NewBreachChecker() *BreachChecker {
	return NewBreachCheckerWithURL(defaultRangeURL)
}

func NewBreachCheckerWithURL(baseURL string) *BreachChecker {
	return &BreachChecker{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// IsBreached reports whether the password appears in the breach corpus with a
// non-zero occurrence count. It fails open: any network or service problem is
// logged and reported as "not breached" so a third-party outage never blocks
// registration or password changes.
func (b *BreachChecker) IsBreached(senha string) bool {
	digest := fmt.Sprintf("%X", sha1.Sum([]byte(senha)))
	prefix, suffix := digest[:5], digest[5:]

	resp, err := b.client.Get(b.baseURL + "/" + prefix)
	if err != nil {
		log.Printf("breach check unavailable, assuming safe: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("breach check returned %d, assuming safe", resp.StatusCode)
		return false
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		candidate, countStr, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(candidate), suffix) {
			count, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err == nil && count > 0 {
				return true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("breach check read error, assuming safe: %v", err)
	}
	return false
}
