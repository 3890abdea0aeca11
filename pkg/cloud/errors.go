package cloud

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// Error types for cloud API operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeAuth indicates an authentication failure (bad credentials or expired token)
	ErrTypeAuth
	// ErrTypeNotFound indicates the requested fireplace is not registered to the account
	ErrTypeNotFound
	// ErrTypeHTTP indicates an HTTP-level error (unexpected status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed JSON, invalid response)
	ErrTypeParse
	// ErrTypeFrame indicates a malformed parameter frame in an overview response
	ErrTypeFrame
	// ErrTypeValidation indicates a validation error (invalid request parameters)
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeFrame:
		return "Frame Error"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error that occurred while talking to the Emberon cloud
type APIError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Host           string              // API host (for context)
	Retryable      bool                // Whether the error is retryable
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error, host string) *APIError {
	if err == nil {
		return nil
	}

	// Cancelled contexts are never worth retrying
	if errors.Is(err, context.Canceled) {
		return &APIError{
			Type:      ErrTypeNetwork,
			Message:   "request cancelled",
			Err:       err,
			Host:      host,
			Retryable: false,
		}
	}

	// Check for timeout errors
	if os.IsTimeout(err) {
		return &APIError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Host:           host,
			Retryable:      true,
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Host:           host,
			Retryable:      false,
		}
	}

	// Check for connection refused
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &APIError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Server refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Host:           host,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &APIError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Host:           host,
				Retryable:      true,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &APIError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Host:           host,
				Retryable:      true,
			}
		}
	}

	// Check for URL errors
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, host)
	}

	// Generic network error
	return &APIError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
		Retryable:      true,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *APIError {
	classified := ClassifyNetworkError(err, "")
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &APIError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: true,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(message string) *APIError {
	return &APIError{
		Type:       ErrTypeAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Retryable:  false,
	}
}

// NewNotFoundError creates an error for a fireplace serial the account does not own
func NewNotFoundError(serial string) *APIError {
	return &APIError{
		Type:       ErrTypeNotFound,
		Message:    fmt.Sprintf("no fireplace with serial %q on this account", serial),
		StatusCode: http.StatusNotFound,
		Retryable:  false,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *APIError {
	// Server errors and rate limiting are retryable
	retryable := statusCode >= 500 || statusCode == http.StatusTooManyRequests
	return &APIError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewFrameError creates an error for a malformed parameter frame
func NewFrameError(message string, err error) *APIError {
	return &APIError{
		Type:      ErrTypeFrame,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return &APIError{
		Type:      ErrTypeValidation,
		Message:   message,
		Retryable: false,
	}
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS, etc.)
func IsNetworkError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeNetwork ||
			apiErr.Type == ErrTypeTimeout ||
			apiErr.Type == ErrTypeConnectionRefused ||
			apiErr.Type == ErrTypeDNS
	}
	return false
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeAuth
	}
	return false
}

// IsNotFound checks if an error reports an unknown fireplace serial
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeNotFound
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeParse || apiErr.Type == ErrTypeFrame
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeValidation
	}
	return false
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable
	}
	// Unknown errors are not retryable by default
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The Emberon cloud did not respond in time.",
			"Troubleshooting:",
			"  • Check your internet connection",
			"  • The service may be under heavy load - try again in a minute",
			"  • If you use a custom API endpoint, verify it is reachable",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The server refused the connection.",
			"Troubleshooting:",
			"  • Check for a proxy or firewall blocking outbound HTTPS",
			"  • If you pointed the client at a custom endpoint, verify the port",
			"  • Check https://status.emberon.cloud for ongoing incidents",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the API hostname.",
			"Troubleshooting:",
			"  • Check your network DNS settings",
			"  • If you set a custom API URL, check it for typos",
			"  • A VPN or captive portal may be intercepting DNS",
		}, "\n")

	case ErrTypeAuth:
		return strings.Join([]string{
			"Authentication failed.",
			"Troubleshooting:",
			"  • Run 'emberon-ctl login' to obtain a fresh token",
			"  • Check that EMBERON_TOKEN is not stale",
			"  • Verify your email and password at app.emberon.cloud",
		}, "\n")

	case ErrTypeNotFound:
		return strings.Join([]string{
			"The fireplace is not registered to this account.",
			"Troubleshooting:",
			"  • Run 'emberon-ctl fires' to list your fireplaces",
			"  • Check the serial number printed on the unit's rating plate",
			"  • Pair the fireplace in the Emberon mobile app first",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch apiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The API host is not reachable from your network.",
				"Troubleshooting:",
				"  • Check your internet connection",
				"  • Check for a proxy or VPN blocking the route")

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer has no route to the network.",
				"Troubleshooting:",
				"  • Check that WiFi or ethernet is connected",
				"  • Check your network adapter settings")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your internet connection",
				"  • Try again in a few seconds",
				"  • Check https://status.emberon.cloud for ongoing incidents")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if apiErr.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The service returned an error (HTTP %d).", apiErr.StatusCode),
				"This is a problem on the Emberon side, not yours.",
				"Troubleshooting:",
				"  • Try again in a few minutes",
				"  • Check https://status.emberon.cloud for ongoing incidents",
			}, "\n")
		}
		return fmt.Sprintf("The service returned HTTP error %d. Check the request parameters.", apiErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the service's response.",
			"This may indicate an API change or an incompatible client.",
			"Troubleshooting:",
			"  • Update to the latest emberon-ctl release",
			"  • Retry with EMBERON_LOG_LEVEL=debug and report the output",
		}, "\n")

	case ErrTypeFrame:
		return strings.Join([]string{
			"The fireplace reported a parameter frame this client cannot decode.",
			"Troubleshooting:",
			"  • Update the fireplace firmware from the Emberon mobile app",
			"  • Update to the latest emberon-ctl release",
		}, "\n")

	case ErrTypeValidation:
		return "The request values are invalid. Check the error message for details."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Service not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Connection refused - check proxy and firewall"
	case ErrTypeDNS:
		return "Cannot resolve API hostname"
	case ErrTypeAuth:
		return "Authentication failed - log in again"
	case ErrTypeNotFound:
		return apiErr.Message
	case ErrTypeNetwork:
		switch apiErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "API host unreachable - check internet connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check WiFi connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Service error (HTTP %d)", apiErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse service response"
	case ErrTypeFrame:
		return "Undecodable parameter frame in response"
	case ErrTypeValidation:
		return apiErr.Message
	default:
		return apiErr.Message
	}
}
