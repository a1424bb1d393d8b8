// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMissingAPIKey indicates no credential was configured.
	ErrMissingAPIKey = errors.New("ai config: API key is required")

	// ErrPlaceholderAPIKey indicates the sample placeholder key was left in place.
	ErrPlaceholderAPIKey = errors.New("ai config: API key is still the placeholder value")

	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("ai config: unknown provider")

	// ErrEmptyResponse indicates the service returned no choices.
	ErrEmptyResponse = errors.New("empty response from service")
)

// StatusError reports a non-2xx HTTP status from the extraction service.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("service returned status %d", e.Code)
	}
	return fmt.Sprintf("service returned status %d: %v", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Retryable reports whether the status is worth retrying: rate limiting and
// server errors.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

var (
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)
	apiKeyKVRe    = regexp.MustCompile(`(?i)\b(api[_-]?key|key|token)\b\s*[:=]\s*[^\s"'&]+`)
	secretKeyRe   = regexp.MustCompile(`\bsk-[A-Za-z0-9]{8,}`)
)

// RedactSecrets masks credentials that leak into error strings before they
// are logged or written to the checkpoint.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := bearerTokenRe.ReplaceAllString(s, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	out = secretKeyRe.ReplaceAllString(out, "<redacted>")
	return strings.TrimSpace(out)
}
