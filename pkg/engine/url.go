package engine

import (
	"fmt"
	"net/url"
	"strings"
)

// Mask replaces credentials in rendered output.
const Mask = "***"

// URL is a parsed connection string of the form
//
//	dialect[+driver]://[user[:password]@]host[:port]/database[?params]
//
// File-based dialects keep the path in Database: "sqlite:///rel.db" gives
// "rel.db" and "sqlite:////abs/path.db" gives "/abs/path.db".
type URL struct {
	Dialect  string
	Driver   string
	Username string
	Password string
	Host     string
	Port     string
	Database string
	Query    url.Values
}

// ParseURL parses a connection string. Errors wrap ErrInvalidURL and never
// include the connection string itself.
func ParseURL(s string) (*URL, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(s), "://")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("%w: missing dialect scheme", ErrInvalidURL)
	}

	dialectName, driver, _ := strings.Cut(strings.ToLower(scheme), "+")
	if dialectName == "" {
		return nil, fmt.Errorf("%w: empty dialect name", ErrInvalidURL)
	}

	// net/url rejects schemes such as "some_sql"; parse the remainder under a
	// neutral scheme instead.
	u, err := url.Parse("x://" + rest)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed %s connection string", ErrInvalidURL, dialectName)
	}

	out := &URL{
		Dialect:  dialectName,
		Driver:   driver,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Database: strings.TrimPrefix(u.Path, "/"),
		Query:    u.Query(),
	}
	if u.User != nil {
		out.Username = u.User.Username()
		out.Password, _ = u.User.Password()
	}
	return out, nil
}

// HostPort joins host and port, applying defaults when either is empty.
func (u *URL) HostPort(defaultHost, defaultPort string) string {
	host := u.Host
	if host == "" {
		host = defaultHost
	}
	port := u.Port
	if port == "" {
		port = defaultPort
	}
	if port == "" {
		return host
	}
	return host + ":" + port
}

// Redacted returns the connection string with the password masked.
func (u *URL) Redacted() string {
	var b strings.Builder
	b.WriteString(u.Dialect)
	if u.Driver != "" {
		b.WriteString("+" + u.Driver)
	}
	b.WriteString("://")
	if u.Username != "" {
		b.WriteString(url.User(u.Username).String())
		if u.Password != "" {
			b.WriteString(":" + Mask)
		}
		b.WriteString("@")
	}
	b.WriteString(u.HostPort("", ""))
	b.WriteString("/" + u.Database)
	if len(u.Query) > 0 {
		b.WriteString("?" + u.Query.Encode())
	}
	return b.String()
}

// Redact masks the credentials of the connection string con found in s:
// con itself, and its password where it appears as user:password@ in
// plain or URL-encoded form. The rest of s is left untouched.
func Redact(s, con string) string {
	con = strings.TrimSpace(con)
	if con == "" {
		return s
	}
	s = strings.ReplaceAll(s, con, Mask)
	if u, err := ParseURL(con); err == nil {
		s = u.redactCredentials(s)
	}
	return s
}

// redactCredentials masks the password inside user:password@ credentials.
func (u *URL) redactCredentials(s string) string {
	if u.Password == "" {
		return s
	}
	masked := u.Username + ":" + Mask + "@"
	for _, creds := range []string{
		u.Username + ":" + u.Password + "@",
		url.UserPassword(u.Username, u.Password).String() + "@",
	} {
		s = strings.ReplaceAll(s, creds, masked)
	}
	return s
}
