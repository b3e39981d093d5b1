// Package dispatch routes decoded requests to their handlers under the
// role check. The action table is built once at start-up and read-only
// afterwards.
package dispatch

import (
	"context"
	"sort"

	"golang.org/x/exp/maps"

	"studentms/internal/protocol"
	"studentms/internal/session"
)

// Fixed responses. The unknown-action message deliberately does not
// distinguish "no such action" from "action forbidden for this role".
const (
	MsgNotAuthenticated = "please log in first"
	MsgUnknownAction    = "unknown action or insufficient privilege"
	MsgInternalError    = "internal server error"
)

// Handler is a pure function of the request parameters and the calling
// identity. Handlers never touch the session; only the connection loop
// applies login/logout transitions.
type Handler func(ctx context.Context, caller *session.Identity, params Params) *protocol.Response

type entry struct {
	handler Handler
	roles   map[session.Role]bool
	noAuth  bool
}

type Table struct {
	entries map[string]entry
}

func NewTable() *Table {
	return &Table{entries: make(map[string]entry)}
}

// Register adds an action requiring authentication. With no roles
// listed, any authenticated caller may invoke it.
func (t *Table) Register(name string, h Handler, roles ...session.Role) {
	e := entry{handler: h, roles: make(map[session.Role]bool, len(roles))}
	for _, r := range roles {
		e.roles[r] = true
	}
	t.entries[name] = e
}

// RegisterOpen adds an action callable without authentication.
func (t *Table) RegisterOpen(name string, h Handler) {
	t.entries[name] = entry{handler: h, noAuth: true}
}

// Actions lists the registered action names, sorted.
func (t *Table) Actions() []string {
	names := maps.Keys(t.entries)
	sort.Strings(names)
	return names
}

// Dispatch authorizes and invokes the handler for one request, always
// returning exactly one well-formed response.
func (t *Table) Dispatch(ctx context.Context, caller *session.Identity, req *protocol.Request) *protocol.Response {
	e, known := t.entries[req.Action]

	if caller == nil {
		if known && e.noAuth {
			return t.invoke(ctx, e, nil, req)
		}
		return protocol.Fail(MsgNotAuthenticated)
	}

	if !known {
		return protocol.Fail(MsgUnknownAction)
	}
	if !e.noAuth && len(e.roles) > 0 && !e.roles[caller.Role] {
		return protocol.Fail(MsgUnknownAction)
	}
	return t.invoke(ctx, e, caller, req)
}

func (t *Table) invoke(ctx context.Context, e entry, caller *session.Identity, req *protocol.Request) (resp *protocol.Response) {
	// A panicking handler must not take the connection down; the peer
	// still gets one response.
	defer func() {
		if r := recover(); r != nil {
			resp = protocol.Fail(MsgInternalError)
		}
	}()

	resp = e.handler(ctx, caller, Params(req.Params))
	if resp == nil {
		resp = protocol.Fail(MsgInternalError)
	}
	return resp
}
