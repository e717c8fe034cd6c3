package middleware

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// tenantContextKey is where the detected tenant name is stored.
const tenantContextKey = "tenant"

// systemSubdomains route to the platform itself, never to a tenant site.
var systemSubdomains = map[string]struct{}{
	"api": {}, "www": {}, "admin": {},
}

// Tenant tags requests arriving on {name}.{rootDomain} with the tenant name.
// The tag is informational at this layer; content serving happens elsewhere.
func Tenant(rootDomain string) echo.MiddlewareFunc {
	suffix := "." + strings.ToLower(rootDomain)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if name := tenantFromHost(c.Request().Host, suffix); name != "" {
				c.Set(tenantContextKey, name)
			}
			return next(c)
		}
	}
}

// TenantFromContext returns the tenant name set by Tenant, or "".
func TenantFromContext(c echo.Context) string {
	name, _ := c.Get(tenantContextKey).(string)
	return name
}

func tenantFromHost(host, suffix string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	name := strings.TrimSuffix(host, suffix)
	if name == "" || strings.Contains(name, ".") {
		return ""
	}
	if _, system := systemSubdomains[name]; system {
		return ""
	}
	return name
}
