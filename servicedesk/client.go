package servicedesk

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Client is the entry point to the service desk API. It owns the shared
// Config and hands out one instance of each resource facade.
type Client struct {
	config       *Config
	service      *Service
	info         *InfoService
	requests     *RequestService
	serviceDesks *ServiceDeskService
}

// New creates a Client. Host and credentials may be given as options or
// set later with SetHost, SetUsername and SetPassword.
func New(opts ...Option) (*Client, error) {
	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	logger := zerolog.Nop()
	if options.logger != nil {
		logger = *options.logger
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	} else {
		// Never mutate a caller-owned client
		cpy := *httpClient
		httpClient = &cpy
	}
	if options.timeout != nil {
		httpClient.Timeout = *options.timeout
	}

	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if options.userAgent != "" {
		transport = userAgent{value: options.userAgent, next: transport}
	}
	if options.rateLimit != nil {
		rt, err := newThrottle(options.rateLimit.rps, options.rateLimit.burst, logger, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring rate limit: %w", err)
		}
		transport = rt
	}
	httpClient.Transport = transport

	config := &Config{}
	config.SetHost(options.host)
	config.SetUsername(options.username)
	config.SetPassword(options.password)

	service := NewService(config, httpClient, logger)

	return &Client{
		config:       config,
		service:      service,
		info:         NewInfoService(service),
		requests:     NewRequestService(service),
		serviceDesks: NewServiceDeskService(service),
	}, nil
}

// SetHost sets the base URL, for example "https://example.atlassian.net/".
func (c *Client) SetHost(host string) *Client {
	c.config.SetHost(host)
	return c
}

// SetUsername sets the Basic auth username
func (c *Client) SetUsername(username string) *Client {
	c.config.SetUsername(username)
	return c
}

// SetPassword sets the Basic auth password or API token
func (c *Client) SetPassword(password string) *Client {
	c.config.SetPassword(password)
	return c
}

// Config returns the shared configuration
func (c *Client) Config() *Config {
	return c.config
}

// Service returns the dispatcher, for endpoints without a facade method
func (c *Client) Service() *Service {
	return c.service
}

// Info returns the info facade
func (c *Client) Info() *InfoService {
	return c.info
}

// Requests returns the customer request facade
func (c *Client) Requests() *RequestService {
	return c.requests
}

// ServiceDesks returns the service desk facade
func (c *Client) ServiceDesks() *ServiceDeskService {
	return c.serviceDesks
}
