package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kucukaslan/gadsconversion/buildinfo"
	"kucukaslan/gadsconversion/domain"
)

// Operation is one of the two upload calls.
type Operation int

const (
	OperationAdjustment Operation = iota
	OperationClickConversion
)

// OfflineTimeout bounds the click conversion upload.
const OfflineTimeout = 15 * time.Second

var ErrMissingProxyRoute = errors.New("proxy flow needs x-gtm-identifier, x-gtm-default-domain and x-gtm-api-key")

// GoogleAds builds URLs and options for the upload endpoints.
type GoogleAds struct {
	BaseURL    string // direct API root, e.g. https://googleads.googleapis.com
	APIVersion string
	Tokens     TokenProvider
}

func NewGoogleAds(baseURL string, tokens TokenProvider) *GoogleAds {
	return &GoogleAds{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIVersion: buildinfo.GoogleAdsAPIVersion,
		Tokens:     tokens,
	}
}

// Prepare returns the endpoint and request options of op for the configured auth flow.
func (g *GoogleAds) Prepare(ctx context.Context, op Operation, cfg domain.Configuration, meta domain.RequestMeta) (string, Options, error) {
	opts := Options{
		Method: fiber.MethodPost,
		Headers: map[string]string{
			fiber.HeaderContentType: fiber.MIMEApplicationJSON,
			"login-customer-id":     cfg.LoginCustomerID,
		},
	}
	if op == OperationClickConversion {
		opts.Timeout = OfflineTimeout
	}

	switch cfg.AuthFlow {
	case domain.AuthFlowOwn:
		if g.Tokens == nil {
			return "", opts, errors.New("own auth flow needs a token provider")
		}
		authorization, err := g.Tokens.Authorization(ctx)
		if err != nil {
			return "", opts, err
		}
		opts.Authorization = authorization
		opts.Headers["developer-token"] = cfg.DeveloperToken
		return g.directURL(op, cfg.OperatingCustomerID), opts, nil

	case domain.AuthFlowStape:
		if meta.ContainerIdentifier == "" || meta.DefaultDomain == "" || meta.ContainerAPIKey == "" {
			return "", opts, ErrMissingProxyRoute
		}
		opts.Headers["x-gads-api-version"] = g.APIVersion
		return proxyURL(op, meta), opts, nil
	}

	return "", opts, fmt.Errorf("unknown auth flow %q", cfg.AuthFlow)
}

func (g *GoogleAds) directURL(op Operation, customerID string) string {
	method := ":uploadConversionAdjustments"
	if op == OperationClickConversion {
		method = ":uploadClickConversions"
	}
	return g.BaseURL + "/v" + g.APIVersion + "/customers/" + url.PathEscape(customerID) + method
}

func proxyURL(op Operation, meta domain.RequestMeta) string {
	u := "https://" + url.PathEscape(meta.ContainerIdentifier) + "." + url.PathEscape(meta.DefaultDomain) +
		"/stape-api/" + url.PathEscape(meta.ContainerAPIKey) + "/v2/gads/auth-proxy"
	if op == OperationAdjustment {
		u += "/adjustments"
	}
	return u
}
