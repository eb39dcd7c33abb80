package servicedesk

import "sync"

// Config holds the host and credentials shared by every facade of a
// Client. Facades keep a pointer to the same Config, so changes are
// visible to all subsequent calls.
type Config struct {
	mu       sync.RWMutex
	host     string
	username string
	password string
}

// Credentials is a point-in-time copy of a Config
type Credentials struct {
	Host     string
	Username string
	Password string
}

// SetHost sets the base URL. It is used verbatim, so it should end with a slash.
func (c *Config) SetHost(host string) {
	c.mu.Lock()
	c.host = host
	c.mu.Unlock()
}

// SetUsername sets the Basic auth username
func (c *Config) SetUsername(username string) {
	c.mu.Lock()
	c.username = username
	c.mu.Unlock()
}

// SetPassword sets the Basic auth password
func (c *Config) SetPassword(password string) {
	c.mu.Lock()
	c.password = password
	c.mu.Unlock()
}

// Snapshot returns the current values. A request uses a single snapshot
// so a concurrent setter cannot mix old and new credentials.
func (c *Config) Snapshot() Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Credentials{
		Host:     c.host,
		Username: c.username,
		Password: c.password,
	}
}
