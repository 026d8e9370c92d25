package templ

import (
	"fmt"
	"net"
	"net/url"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/net/idna"

	"github.com/benjaminschreck/go-templ/pkg/templ/model"
)

// Link is the value a model provides for a hyperlink placeholder. Empty
// fields leave that aspect of the hyperlink unchanged.
type Link struct {
	// Text replaces the display text.
	Text string
	// URL replaces the target.
	URL string
	// Delete removes the hyperlink and its display text.
	Delete bool
}

// NormalizeURL converts an internationalised host name to its ASCII form.
// Targets without a host, such as mailto links, are returned unchanged.
func NormalizeURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid hyperlink %q: %w", raw, err)
	}
	if u.Host == "" {
		return raw, nil
	}
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return "", fmt.Errorf("invalid hyperlink host %q: %w", u.Hostname(), err)
	}
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	}
	u.Host = host
	return u.String(), nil
}

// linkOf narrows a model entry to a link. Objects decoded from HCL or JSON
// with text, url and delete attributes are accepted as well.
func linkOf(e *model.Entry) (Link, error) {
	switch v := e.Value.(type) {
	case Link:
		return v, nil
	case *Link:
		if v != nil {
			return *v, nil
		}
	case cty.Value:
		if l, ok := ctyLink(v); ok {
			return l, nil
		}
	}
	return Link{}, &model.TypeError{Path: e.Path, Want: "templ.Link", Got: e.Type()}
}

func ctyLink(v cty.Value) (Link, bool) {
	if v.IsNull() || !v.IsKnown() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return Link{}, false
	}
	var l Link
	for name, attr := range v.AsValueMap() {
		if attr.IsNull() || !attr.IsKnown() {
			continue
		}
		switch {
		case name == "text" && attr.Type() == cty.String:
			l.Text = attr.AsString()
		case name == "url" && attr.Type() == cty.String:
			l.URL = attr.AsString()
		case name == "delete" && attr.Type() == cty.Bool:
			l.Delete = attr.True()
		default:
			return Link{}, false
		}
	}
	return l, true
}
