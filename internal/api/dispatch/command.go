package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jeerawut3427/personal-system/internal/domain"
	util "github.com/jeerawut3427/personal-system/pkg/util"
)

// Spec declares a command's authorization requirements. The dispatcher
// checks them uniformly before invocation; commands never re-check.
type Spec struct {
	AuthRequired bool
	AdminOnly    bool
}

// Request is the uniform context handed to every command: the raw payload,
// the resolved session (nil for unauthenticated calls), and the caller's
// network address for throttle lookup.
type Request struct {
	Action     string
	Payload    json.RawMessage
	Token      string
	RemoteAddr string
	Session    *domain.Session
}

// CookieDirective instructs the transport to set or clear the session cookie.
// Security attributes (HttpOnly, SameSite, Secure) are the transport's
// concern.
type CookieDirective struct {
	Name    string
	Value   string
	Expires time.Time
	Clear   bool
}

// Directive is a transport-level instruction a command returns alongside its
// body.
type Directive struct {
	Cookie *CookieDirective
}

// Result is the uniform command outcome: a response body plus zero or more
// transport directives, both always structurally present.
type Result struct {
	Body       map[string]any
	Directives []Directive
}

// Command is a single named action behind the /api endpoint.
type Command interface {
	Name() string
	Spec() Spec
	Handle(ctx context.Context, req *Request) (*Result, error)
}

// decodePayload unmarshals the request payload into v. A missing payload is
// treated as empty; malformed JSON is a bad request.
func decodePayload(req *Request, v any) error {
	if len(req.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Payload, v); err != nil {
		return util.NewBadRequest("malformed payload")
	}
	return nil
}
