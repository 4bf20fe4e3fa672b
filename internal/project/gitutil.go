package project

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

var (
	namePat = regexp.MustCompile(`^[a-zA-Z][0-9a-zA-Z_\-]{1,100}$`)
	dnPat   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,62}(\.[a-zA-Z0-9][a-zA-Z0-9-]{0,62})*(\.[a-zA-Z][a-zA-Z0-9]{0,10}){1}$`)
)

// supportedHosts are the git hosts whose blob/edit URL layout the overlay knows.
var supportedHosts = map[string]string{
	"github.com": GSPGitHub,
	"gitee.com":  GSPGitee,
}

// IsName reports whether name is a valid project name.
func IsName(name string) bool {
	return name != "" && namePat.MatchString(name)
}

// IsDomain reports whether v is a DNS name (IP addresses excluded).
func IsDomain(v string) bool {
	if v == "" || len(strings.ReplaceAll(v, ".", "")) > 255 {
		return false
	}
	if strings.Count(v, ".") < 1 {
		return false
	}
	return net.ParseIP(v) == nil && dnPat.MatchString(v)
}

// CheckGitURL validates a repository URL. It reports whether the repository
// is public (no credentials embedded).
func CheckGitURL(rawurl string) (public bool, err error) {
	if !strings.HasPrefix(rawurl, "http://") && !strings.HasPrefix(rawurl, "https://") {
		return false, errors.New("invalid url")
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return false, err
	}
	if _, ok := supportedHosts[strings.ToLower(u.Host)]; !ok {
		return false, fmt.Errorf("unsupported git service provider %q", u.Host)
	}
	if u.User == nil || u.User.Username() == "" {
		return true, nil
	}
	passwd, has := u.User.Password()
	if !has {
		return false, errors.New("repository sets a user but no password")
	}
	if passwd == "" {
		return false, errors.New("empty password")
	}
	return false, nil
}

// PublicURL returns rawurl with any embedded credentials removed.
func PublicURL(rawurl string) (string, error) {
	if _, err := CheckGitURL(rawurl); err != nil {
		return "", err
	}
	u, _ := url.Parse(rawurl)
	u.User = nil
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// ServiceProvider returns the display name of the git host of rawurl.
func ServiceProvider(rawurl string) (string, error) {
	pub, err := PublicURL(rawurl)
	if err != nil {
		return "", err
	}
	u, _ := url.Parse(pub)
	if gsp, ok := supportedHosts[strings.ToLower(u.Host)]; ok {
		return gsp, nil
	}
	return GSPNA, nil
}

// UserRepo extracts "owner/repo" from a repository URL, lower-cased.
func UserRepo(rawurl string) (string, error) {
	pub, err := PublicURL(rawurl)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(pub)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.Trim(u.Path, "/")), nil
}
